package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfig_validate(t *testing.T) {
	valid := Config{BaseURL: "http://localhost:3000", ProbeTimeout: 5 * time.Second, RequestTimeout: 10 * time.Second}
	with := func(f func(c *Config)) Config {
		c := valid
		f(&c)
		return c
	}
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "zero",
			config:  Config{},
			wantErr: true,
		},
		{
			name:   "defaults",
			config: valid,
		},
		{
			name:   "https with path",
			config: with(func(c *Config) { c.BaseURL = "https://api.example.com/backend/" }),
		},
		{
			name:    "no scheme",
			config:  with(func(c *Config) { c.BaseURL = "localhost:3000" }),
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			config:  with(func(c *Config) { c.BaseURL = "ftp://example.com" }),
			wantErr: true,
		},
		{
			name:    "zero probe timeout",
			config:  with(func(c *Config) { c.ProbeTimeout = 0 }),
			wantErr: true,
		},
		{
			name:    "negative request timeout",
			config:  with(func(c *Config) { c.RequestTimeout = -time.Second }),
			wantErr: true,
		},
		{
			name:   "bad amount is left for dispatch to report",
			config: with(func(c *Config) { c.Amount = "abc" }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
					return
				}
			} else if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PIXTESTER_BASE_URL", "https://staging.example.com")
	t.Setenv("PIXTESTER_AMOUNT", "12.34")
	t.Setenv("PIXTESTER_PROBE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com", cfg.BaseURL)
	require.Equal(t, "12.34", cfg.Amount)
	require.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, "68408742b3b670ec101b757e", cfg.TransactionID)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("PIXTESTER_REQUEST_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile),
		[]byte("PIXTESTER_AUTH_TOKEN=from-file\nPIXTESTER_AMOUNT=1.00\n"), 0o600))
	t.Chdir(dir)
	// Registered so the values godotenv sets are removed again after the test.
	t.Setenv("PIXTESTER_AUTH_TOKEN", "")
	require.NoError(t, os.Unsetenv("PIXTESTER_AUTH_TOKEN"))
	t.Setenv("PIXTESTER_AMOUNT", "99.90")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.AuthToken)
	require.Equal(t, "99.90", cfg.Amount, "the environment wins over the file")
}
