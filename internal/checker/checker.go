package checker

import (
	"time"

	"github.com/danmuck/utf8check/internal/observability"
	"github.com/danmuck/utf8check/internal/utf8check"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Strict rejects values outside [0, 255] instead of keeping their low 8 bits.
	Strict bool
	Logger *zerolog.Logger
}

func DefaultConfig() Config {
	return Config{}
}

// Checker is safe for concurrent use; it holds no per-call state.
type Checker struct {
	strict bool
	logger zerolog.Logger
}

func New(cfg Config) *Checker {
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Checker{
		strict: cfg.Strict,
		logger: logger.With().Str("component", "checker").Logger(),
	}
}

// Check reports whether data is a well-formed stream.
func (c *Checker) Check(source string, data []int) bool {
	return c.Inspect(source, data) < 0
}

// Inspect returns the offset of the first rejected sequence, or -1.
func (c *Checker) Inspect(source string, data []int) int {
	start := time.Now()
	offset := c.firstInvalid(data)
	c.record(source, len(data), offset, time.Since(start))
	return offset
}

// InspectBytes is Inspect over raw bytes. Strict mode has no effect since every
// byte is already in range.
func (c *Checker) InspectBytes(source string, p []byte) int {
	start := time.Now()
	offset := utf8check.FirstInvalidBytes(p)
	c.record(source, len(p), offset, time.Since(start))
	return offset
}

func (c *Checker) firstInvalid(data []int) int {
	offset := utf8check.FirstInvalid(data)
	if !c.strict {
		return offset
	}
	for i, v := range data {
		if offset >= 0 && i >= offset {
			break
		}
		if v < 0 || v > 0xFF {
			return i
		}
	}
	return offset
}

func (c *Checker) record(source string, length int, offset int, d time.Duration) {
	observability.RecordValidate(source, length, offset < 0)
	observability.LogCheck(c.logger, source, length, offset, d)
}
