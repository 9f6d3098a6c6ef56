package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`

	// CRMDomain elige el host de login ("login" produccion, "test" sandbox).
	// CRMTokenURL lo sobreescribe por completo si viene.
	CRMDomain       string `env:"CRM_DOMAIN" envDefault:"login"`
	CRMTokenURL     string `env:"CRM_TOKEN_URL"`
	CRMClientID     string `env:"CRM_CLIENT_ID"`
	CRMClientSecret string `env:"CRM_CLIENT_SECRET"`
	CRMUsername     string `env:"CRM_USERNAME"`
	CRMPassword     string `env:"CRM_PASSWORD"`
	CRMToken        string `env:"CRM_SECURITY_TOKEN"`
}

func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func (c Config) SlogLevel() slog.Level {
	if c.LogLevel == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
