package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/utf8check/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(validateTotal.WithLabelValues("test", "false"))
	RecordValidate("test", 4, false)
	RecordValidate("test", 3, true)
	RecordFrame(1, OutcomeVerdict)

	if got := testutil.ToFloat64(validateTotal.WithLabelValues("test", "false")); got != before+1 {
		t.Fatalf("unexpected invalid count: got %v want %v", got, before+1)
	}
}

func TestWriteTextIncludesValidateFamilies(t *testing.T) {
	testlog.Start(t)
	RecordValidate("text", 2, true)
	var buf bytes.Buffer
	if err := WriteText(&buf); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "utf8check_validate_total") {
		t.Fatalf("missing validate counter in output")
	}
	if !strings.Contains(out, `source="text"`) {
		t.Fatalf("missing source label in output")
	}
}

func TestLogCheckLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.WarnLevel)

	LogCheck(logger, "args", 3, -1, time.Millisecond)
	if buf.Len() != 0 {
		t.Fatalf("expected valid check below warn level, got %q", buf.String())
	}
	LogCheck(logger, "args", 4, 3, time.Millisecond)
	out := buf.String()
	if !strings.Contains(out, `"first_invalid":3`) || !strings.Contains(out, `"valid":false`) {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLogFrameErrorOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	LogFrame(logger, 7, 1, OutcomeError)
	if !strings.Contains(buf.String(), `"outcome":"error"`) {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
