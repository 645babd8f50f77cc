package observability

import (
	"time"

	"github.com/rs/zerolog"
)

// LogCheck writes one line per validated stream. Rejections log at warn so a
// batch run can be filtered down to the failures.
func LogCheck(logger zerolog.Logger, source string, length int, firstInvalid int, duration time.Duration) {
	event := logger.Debug()
	if firstInvalid >= 0 {
		event = logger.Warn().Int("first_invalid", firstInvalid)
	}
	event.
		Str("source", source).
		Int("len", length).
		Bool("valid", firstInvalid < 0).
		Dur("duration", duration).
		Msg("check")
}

// LogFrame writes one line per handled frame.
func LogFrame(logger zerolog.Logger, messageID uint64, messageType uint32, outcome string) {
	event := logger.Debug()
	if outcome != OutcomeVerdict {
		event = logger.Error()
	}
	event.
		Uint64("message_id", messageID).
		Uint32("message_type", messageType).
		Str("outcome", outcome).
		Msg("frame")
}
