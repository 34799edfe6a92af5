package assetkit

import (
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds settings read from the environment by the assetkit binary.
type Config struct {
	FBX2glTF  string `env:"ASSETKIT_FBX2GLTF" envDefault:"FBX2glTF"`
	LogLevel  string `env:"ASSETKIT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ASSETKIT_LOG_FORMAT" envDefault:"text"`
}

// LoadConfig loads Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// NewLogger builds a slog.Logger writing text or json records to w.
// Unknown levels fall back to info.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
