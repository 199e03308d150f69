package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime options for building the app.
type Config struct {
	AppName   string   `env:"IOCC_APP_NAME" envDefault:"greeter"`
	Languages []string `env:"IOCC_LANGUAGES" envDefault:"en,zh" envSeparator:","`
	Listen    string   `env:"IOCC_LISTEN" envDefault:":8080"`
	Strict    bool     `env:"IOCC_STRICT"`
	ReportDir string   `env:"IOCC_REPORT_DIR"` // empty disables saving reports

	SessionIdle time.Duration `env:"IOCC_SESSION_IDLE" envDefault:"30m"`
	MaxSessions int           `env:"IOCC_MAX_SESSIONS" envDefault:"10000"`

	// Tracing is opt-in: spans are exported only when an endpoint is set.
	OTelEndpoint string `env:"IOCC_OTEL_ENDPOINT"`
	OTelDisabled bool   `env:"IOCC_OTEL_DISABLED"`
}

// LoadConfig reads the given .env files, skipping missing ones, then parses
// Config from the environment. Variables already set are not overridden.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, p := range envFiles {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
