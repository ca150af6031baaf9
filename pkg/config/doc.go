// Package config loads environment-driven configuration structs.
//
// Configuration is entirely environment-based so the same binary can run as
// any participating service in the deployment; only its environment differs.
// A .env file is loaded once, if present, before the first parse.
//
// Usage:
//
//	type ServiceConfig struct {
//		Name        string `env:"SERVICE_NAME,required"`
//		Environment string `env:"ENVIRONMENT" envDefault:"development"`
//	}
//
//	var cfg ServiceConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// Each struct type is parsed once per process; later calls return the cached
// value so packages can load their own config independently without
// re-reading the environment.
package config
