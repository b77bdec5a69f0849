package config

import "time"

// Config holds runtime settings for the prepio CLI.
//
// Fields:
//   - APIBaseURL: root of the backend REST API.
//   - RequestTimeout: per-request timeout applied by the HTTP client.
//   - HealthCheckInterval: how often the client probes backend reachability.
//   - DBFile: path of the local sqlite database holding the credential.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	HealthCheckInterval time.Duration
	DBFile              string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 30 * time.Second
	c.HealthCheckInterval = 30 * time.Second
	c.DBFile = "prepio.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given), and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
