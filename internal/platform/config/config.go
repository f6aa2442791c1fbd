package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv        string `env:"APP_ENV" default:"development"`
	Port          string `env:"PORT" default:"8080"`
	AppURL        string `env:"APP_URL" default:"http://localhost:8080"`
	SessionSecret string `env:"SESSION_SECRET"`
	LogLevel      string `env:"LOG_LEVEL" default:"info"`
	LogFormat     string `env:"LOG_FORMAT" default:"text"`

	// SentimentSource is an http(s) URL, a file:// URL or a path. Empty selects the embedded artifact.
	SentimentSource string `env:"SENTIMENT_SOURCE"`
	SearchURLBase   string `env:"SEARCH_URL_BASE" default:"https://twitter.com/search"`
	RepositoryURL   string `env:"REPOSITORY_URL" default:"https://github.com/roshda/galaxy-o-meter"`
	AnalyzedAsOf    string `env:"ANALYZED_AS_OF" default:"07/10/2024"`

	WSEnterRate      float64 `env:"WS_ENTER_RATE" default:"20"`
	WSEnterBurst     int     `env:"WS_ENTER_BURST" default:"40"`
	WSMaxConnections int64   `env:"WS_MAX_CONNECTIONS" default:"1000"`
	WSMaxPerIP       int     `env:"WS_MAX_PER_IP" default:"20"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"24h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsDevelopment reports whether the service runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

func validate(cfg *Config) error {
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if cfg.AppEnv == "production" && len(cfg.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters in production")
	}

	for name, raw := range map[string]string{
		"SEARCH_URL_BASE": cfg.SearchURLBase,
		"REPOSITORY_URL":  cfg.RepositoryURL,
		"APP_URL":         cfg.AppURL,
	} {
		if err := validateHTTPURL(raw); err != nil {
			return fmt.Errorf("%s %w", name, err)
		}
	}

	if strings.HasPrefix(cfg.SentimentSource, "http://") || strings.HasPrefix(cfg.SentimentSource, "https://") {
		if err := validateHTTPURL(cfg.SentimentSource); err != nil {
			return fmt.Errorf("SENTIMENT_SOURCE %w", err)
		}
	}

	if cfg.WSEnterRate <= 0 {
		return errors.New("WS_ENTER_RATE must be positive")
	}
	if cfg.WSEnterBurst < 1 {
		return errors.New("WS_ENTER_BURST must be at least 1")
	}
	if cfg.WSMaxConnections < 1 {
		return errors.New("WS_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.WSMaxPerIP < 1 {
		return errors.New("WS_MAX_PER_IP must be at least 1")
	}
	if int64(cfg.WSMaxPerIP) > cfg.WSMaxConnections {
		return errors.New("WS_MAX_PER_IP must not exceed WS_MAX_CONNECTIONS")
	}
	if cfg.SessionMaxAge < 0 {
		return errors.New("SESSION_MAX_AGE must not be negative")
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", raw)
	}
	return nil
}
