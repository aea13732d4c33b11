// Package config loads the streaming core's runtime configuration from the
// environment, in two layers: envConfig captures every setting as a raw
// string (so caarlos0/env's declarative defaults always apply cleanly), and
// FromEnv converts each field into its typed form, silently falling back to
// the default whenever the raw value doesn't parse rather than failing
// startup over a single bad variable.
package config

import (
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the fully parsed, typed configuration for one core instance.
type Config struct {
	ChunkProfile       string
	EOUDebounceMS      int
	MaxSymbolsPerFrame int
	ModelDir           string
	DebugFeatures      bool
	DebugDumpDir       string
	LogLevel           string
	LogFormat          string
}

// envConfig mirrors Config but keeps every field as a string with a
// declarative default, so a malformed value never aborts loading — it is
// simply not a valid string-to-typed conversion, handled in FromEnv.
type envConfig struct {
	ChunkProfile       string `env:"ASR_CHUNK_PROFILE" envDefault:"medium"`
	EOUDebounceMS      string `env:"ASR_EOU_DEBOUNCE_MS" envDefault:"1280"`
	MaxSymbolsPerFrame string `env:"ASR_MAX_SYMBOLS_PER_FRAME" envDefault:"10"`
	ModelDir           string `env:"ASR_MODEL_DIR" envDefault:"./models"`
	DebugFeatures      string `env:"ASR_DEBUG_FEATURES" envDefault:"false"`
	DebugDumpDir       string `env:"ASR_DEBUG_DUMP_DIR" envDefault:"./debug"`
	LogLevel           string `env:"ASR_LOG_LEVEL" envDefault:"info"`
	LogFormat          string `env:"ASR_LOG_FORMAT" envDefault:"json"`
}

// defaults holds the parsed form of envConfig's own envDefault tags, used as
// the fallback whenever the environment supplies an unparsable override.
var defaults = Config{
	ChunkProfile:       "medium",
	EOUDebounceMS:      1280,
	MaxSymbolsPerFrame: 10,
	ModelDir:           "./models",
	DebugFeatures:      false,
	DebugDumpDir:       "./debug",
	LogLevel:           "info",
	LogFormat:          "json",
}

// FromEnv loads Config from the environment, falling back field-by-field to
// defaults on any parse failure.
func FromEnv() (*Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}

	cfg := defaults
	if raw.ChunkProfile != "" {
		cfg.ChunkProfile = raw.ChunkProfile
	}
	if raw.ModelDir != "" {
		cfg.ModelDir = raw.ModelDir
	}
	if raw.DebugDumpDir != "" {
		cfg.DebugDumpDir = raw.DebugDumpDir
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.LogFormat != "" {
		cfg.LogFormat = raw.LogFormat
	}
	cfg.EOUDebounceMS = intOrDefault(raw.EOUDebounceMS, defaults.EOUDebounceMS)
	cfg.MaxSymbolsPerFrame = intOrDefault(raw.MaxSymbolsPerFrame, defaults.MaxSymbolsPerFrame)
	cfg.DebugFeatures = boolOrDefault(raw.DebugFeatures, defaults.DebugFeatures)

	return &cfg, nil
}

func intOrDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func boolOrDefault(s string, def bool) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

// EOUDebounce returns the configured debounce threshold as a time.Duration,
// a convenience for callers that build their own timers around it.
func (c *Config) EOUDebounce() time.Duration {
	return time.Duration(c.EOUDebounceMS) * time.Millisecond
}
