package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/utf8check/internal/observability"
	"github.com/danmuck/utf8check/internal/protocol/frame"
)

const SourceFrame = "frame"

var ErrOffsetOverflow = errors.New("checker: offset does not fit the verdict")

// verdictOffset maps a scan offset onto the u32 wire field. Valid streams
// carry zero.
func verdictOffset(offset int) (uint32, bool) {
	if offset < 0 {
		return 0, true
	}
	if uint64(offset) > math.MaxUint32 {
		return 0, false
	}
	return uint32(offset), true
}

// HandleFrame answers a MsgCheck frame with a MsgVerdict frame, or with a
// MsgError frame when the request cannot be decoded.
func (c *Checker) HandleFrame(in frame.Frame) frame.Frame {
	out, _ := c.handle(in)
	return out
}

// handle returns the response frame and the first invalid offset. The offset
// is -1 for valid streams and for error responses.
func (c *Checker) handle(in frame.Frame) (frame.Frame, int) {
	env, err := DecodeCheck(in)
	if err != nil {
		observability.RecordFrame(in.Header.MessageType, observability.OutcomeError)
		observability.LogFrame(c.logger, in.Header.MessageID, in.Header.MessageType, observability.OutcomeError)
		return ErrorEnv{
			MessageID: in.Header.MessageID,
			RequestID: requestIDOf(in),
			Reason:    err.Error(),
		}.Frame(), -1
	}

	offset := c.Inspect(SourceFrame, env.Data)
	wire, ok := verdictOffset(offset)
	if !ok {
		observability.RecordFrame(in.Header.MessageType, observability.OutcomeError)
		observability.LogFrame(c.logger, in.Header.MessageID, in.Header.MessageType, observability.OutcomeError)
		return ErrorEnv{
			MessageID: in.Header.MessageID,
			RequestID: env.RequestID,
			Reason:    fmt.Sprintf("%v: offset %d exceeds u32", ErrOffsetOverflow, offset),
		}.Frame(), -1
	}
	verdict := VerdictEnv{MessageID: env.MessageID, RequestID: env.RequestID, Valid: offset < 0, Offset: wire}
	observability.RecordFrame(in.Header.MessageType, observability.OutcomeVerdict)
	observability.LogFrame(c.logger, in.Header.MessageID, in.Header.MessageType, observability.OutcomeVerdict)
	return verdict.Frame(), offset
}

// ServeStats counts what Serve handled.
type ServeStats struct {
	Frames   int
	Invalid  int
	Rejected int
}

// Serve reads frames from r until EOF or ctx is done and writes one response
// frame per request to w. Frame-level decode errors end the loop since the
// stream position is lost.
func (c *Checker) Serve(ctx context.Context, r io.Reader, w io.Writer, limits frame.Limits) (ServeStats, error) {
	var stats ServeStats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		in, err := frame.ReadFrame(r, limits)
		if errors.Is(err, io.EOF) {
			c.logger.Debug().Int("frames", stats.Frames).Msg("serve: eof")
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("read frame %d: %w", stats.Frames+1, err)
		}
		stats.Frames++

		out, offset := c.handle(in)
		if out.Header.Flags&frame.FlagIsError != 0 {
			stats.Rejected++
		} else if offset >= 0 {
			stats.Invalid++
		}
		if err := frame.WriteFrame(w, out, limits); err != nil {
			return stats, fmt.Errorf("write frame %d: %w", stats.Frames, err)
		}
	}
}
