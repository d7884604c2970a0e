package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config seeds the operator-editable fields at startup. Nothing here is persisted.
type Config struct {
	BaseURL        string        `env:"BASE_URL" envDefault:"http://localhost:3000"`
	TransactionID  string        `env:"TRANSACTION_ID" envDefault:"68408742b3b670ec101b757e"`
	Amount         string        `env:"AMOUNT" envDefault:"35.00"`
	AuthToken      string        `env:"AUTH_TOKEN"`
	ProbeTimeout   time.Duration `env:"PROBE_TIMEOUT" envDefault:"5s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	LogFile        string        `env:"LOG_FILE"`
}

const envPrefix = "PIXTESTER_"

// DotEnvFile, if present in the working directory, supplies variables not already set in the
// environment.
const DotEnvFile = ".env"

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("no base URL specified")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}
	if c.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// Load reads PIXTESTER_* environment variables (and DotEnvFile) over the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
