package mongoconn

import "time"

// Config holds the connection settings for the shared identity store.
// Pool sizing, idle timeout and transport-level retry flags are passed
// through to the driver; the manager itself only implements the
// connect/retry lifecycle.
type Config struct {
	ConnectionURL          string        `env:"MONGODB_URI,required"`
	AppName                string        `env:"SERVICE_NAME" envDefault:"sso-service"`
	MaxRetries             int           `env:"MONGODB_MAX_RETRIES" envDefault:"5"`
	RetryDelay             time.Duration `env:"MONGODB_RETRY_DELAY" envDefault:"5s"`
	ConnectTimeout         time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"15s"`
	ServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" envDefault:"15s"`
	MaxPoolSize            uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"15"`
	MinPoolSize            uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"3"`
	MaxConnIdleTime        time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	RetryWrites            bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	RetryReads             bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`
}

// withDefaults fills zero values for configs constructed in code rather
// than loaded from the environment.
func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 15 * time.Second
	}
	if c.ServerSelectionTimeout <= 0 {
		c.ServerSelectionTimeout = 15 * time.Second
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 15
	}
	if c.MinPoolSize == 0 {
		c.MinPoolSize = 3
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = 5 * time.Minute
	}
	return c
}
