package main

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// Config is read from the environment.
type Config struct {
	LogLevel  string `env:"DDEXPR_LOG_LEVEL" envDefault:"info"`
	Seed      int64  `env:"DDEXPR_SEED"`
	Lang      string `env:"DDEXPR_LANG" envDefault:"en"`
	CacheSize int    `env:"DDEXPR_CACHE_SIZE" envDefault:"256"`
	MaxDepth  int    `env:"DDEXPR_MAX_DEPTH" envDefault:"256"`

	// Extensions adds the pkg/ext operations to the standard library.
	Extensions bool `env:"DDEXPR_EXTENSIONS"`
}

// ParseConfig loads configuration from environ, or from the process
// environment when environ is nil.
func ParseConfig(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if _, err := cfg.Language(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("DDEXPR_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Language returns the configured collation language.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Lang)
	if err != nil {
		return language.Und, fmt.Errorf("DDEXPR_LANG: %w", err)
	}
	return tag, nil
}

// Rand returns a seeded source, or nil to use the process-wide one.
func (c *Config) Rand() *rand.Rand {
	if c.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(c.Seed))
}
