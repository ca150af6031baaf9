package cookie

// Config holds the deployment-wide cookie settings. Domain must be the
// shared parent domain (e.g. ".local.a.com") and must be identical across
// all participating services.
type Config struct {
	Domain string `env:"SSO_COOKIE_DOMAIN,required"`
	Secure bool   `env:"SSO_COOKIE_SECURE" envDefault:"false"`
}
