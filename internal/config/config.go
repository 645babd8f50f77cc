package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/utf8check/internal/logging"
)

const (
	FormatInts  = "ints"
	FormatRaw   = "raw"
	FormatFrame = "frame"
)

// MaxPayloadLimit keeps every offset inside a frame payload representable in
// the u32 offset field of a verdict.
const MaxPayloadLimit uint64 = 8 << 32

var ErrInvalidConfig = errors.New("config: invalid")

// Config is the utf8check runtime configuration.
type Config struct {
	Format          string
	Strict          bool
	MaxPayloadBytes uint64
	MetricsPath     string
	LogLevel        string
}

type fileConfig struct {
	Format          string `toml:"format"`
	Strict          bool   `toml:"strict"`
	MaxPayloadBytes int64  `toml:"max_payload_bytes"`
	MetricsPath     string `toml:"metrics_path"`
	LogLevel        string `toml:"log_level"`
}

func Default() Config {
	return Config{
		Format:          FormatInts,
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

// Load reads path on top of Default. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("max_payload_bytes") {
		if raw.MaxPayloadBytes <= 0 {
			return Config{}, fmt.Errorf("%w: max_payload_bytes must be positive", ErrInvalidConfig)
		}
		cfg.MaxPayloadBytes = uint64(raw.MaxPayloadBytes)
	}
	if meta.IsDefined("metrics_path") {
		cfg.MetricsPath = strings.TrimSpace(raw.MetricsPath)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.Format {
	case FormatInts, FormatRaw, FormatFrame:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, cfg.Format)
	}
	if cfg.MaxPayloadBytes == 0 {
		return fmt.Errorf("%w: max_payload_bytes must be positive", ErrInvalidConfig)
	}
	if cfg.MaxPayloadBytes > MaxPayloadLimit {
		return fmt.Errorf("%w: max_payload_bytes exceeds %d", ErrInvalidConfig, MaxPayloadLimit)
	}
	if cfg.LogLevel != "" {
		if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, cfg.LogLevel)
		}
	}
	return nil
}
