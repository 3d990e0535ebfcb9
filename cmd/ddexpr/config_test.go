package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseConfig(t *testing.T) {
	var testCases = []struct {
		description string
		environ     map[string]string
		expect      Config
		level       slog.Level
		hasError    bool
	}{
		{
			description: "defaults",
			environ:     map[string]string{},
			expect:      Config{LogLevel: "info", Lang: "en", CacheSize: 256, MaxDepth: 256},
			level:       slog.LevelInfo,
		},
		{
			description: "overrides",
			environ: map[string]string{
				"DDEXPR_LOG_LEVEL":  "debug",
				"DDEXPR_SEED":       "42",
				"DDEXPR_LANG":       "tr",
				"DDEXPR_CACHE_SIZE": "8",
				"DDEXPR_MAX_DEPTH":  "16",
				"DDEXPR_EXTENSIONS": "true",
			},
			expect: Config{LogLevel: "debug", Seed: 42, Lang: "tr", CacheSize: 8, MaxDepth: 16, Extensions: true},
			level:  slog.LevelDebug,
		},
		{
			description: "bad number",
			environ:     map[string]string{"DDEXPR_CACHE_SIZE": "lots"},
			hasError:    true,
		},
		{
			description: "bad level",
			environ:     map[string]string{"DDEXPR_LOG_LEVEL": "chatty"},
			hasError:    true,
		},
		{
			description: "bad language",
			environ:     map[string]string{"DDEXPR_LANG": "not a tag!"},
			hasError:    true,
		},
	}

	for _, testCase := range testCases {
		cfg, err := ParseConfig(testCase.environ)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, *cfg, testCase.description)
		level, err := cfg.Level()
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.level, level, testCase.description)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{Lang: "de"}
	assert.Nil(t, cfg.Rand())
	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.German, tag)

	cfg.Seed = 7
	a, b := cfg.Rand(), cfg.Rand()
	assert.Equal(t, a.Float64(), b.Float64())
}
