package session

// Config holds the per-service session settings loaded from the
// environment.
type Config struct {
	ServiceName string `env:"SERVICE_NAME,required"`
	BaseURL     string `env:"SERVICE_BASE_URL,required"`
	LoginURL    string `env:"SSO_LOGIN_URL,required"`
	SignInPath  string `env:"SERVICE_SIGNIN_PATH" envDefault:"/login"`
	OutageMode  string `env:"SESSION_OUTAGE_MODE" envDefault:"fail-closed"`
}

// OutagePolicy maps the configured outage mode onto a policy. Anything
// other than "fail-open" is treated as fail-closed.
func (c Config) OutagePolicy() OutagePolicy {
	if c.OutageMode == "fail-open" {
		return FailOpen
	}
	return FailClosed
}
