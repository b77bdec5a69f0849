package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is a DTO for environment parsing; only set variables are copied
// into the runtime Config.
type envConfig struct {
	APIBaseURL          string        `env:"PREPIO_API_URL"`
	RequestTimeout      time.Duration `env:"PREPIO_REQUEST_TIMEOUT"`
	HealthCheckInterval time.Duration `env:"PREPIO_HEALTH_INTERVAL"`
	DBFile              string        `env:"PREPIO_DB_FILE"`
}

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; a missing file is not an
// error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.HealthCheckInterval != 0 {
		cfg.HealthCheckInterval = ec.HealthCheckInterval
	}
	if ec.DBFile != "" {
		cfg.DBFile = ec.DBFile
	}
}
