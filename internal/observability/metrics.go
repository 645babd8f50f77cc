package observability

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	OutcomeVerdict = "verdict"
	OutcomeError   = "error"
)

var (
	registerOnce sync.Once

	validateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utf8check",
			Subsystem: "validate",
			Name:      "total",
			Help:      "Total validated streams by result.",
		},
		[]string{"source", "valid"},
	)
	validateBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utf8check",
			Subsystem: "validate",
			Name:      "bytes_total",
			Help:      "Total byte values scanned.",
		},
		[]string{"source"},
	)
	validateInputLen = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "utf8check",
			Subsystem: "validate",
			Name:      "input_len",
			Help:      "Length of validated streams in byte values.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"source"},
	)
	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utf8check",
			Subsystem: "frame",
			Name:      "total",
			Help:      "Handled frames by message type and outcome.",
		},
		[]string{"message_type", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(validateTotal, validateBytes, validateInputLen, framesTotal)
	})
}

func RecordValidate(source string, length int, valid bool) {
	RegisterMetrics()
	validateTotal.WithLabelValues(source, strconv.FormatBool(valid)).Inc()
	validateBytes.WithLabelValues(source).Add(float64(length))
	validateInputLen.WithLabelValues(source).Observe(float64(length))
}

func RecordFrame(messageType uint32, outcome string) {
	RegisterMetrics()
	framesTotal.WithLabelValues(strconv.FormatUint(uint64(messageType), 10), outcome).Inc()
}

// WriteText renders every registered metric family in the prometheus text
// exposition format.
func WriteText(w io.Writer) error {
	RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
