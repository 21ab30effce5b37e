package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	if err := metrics.Track("contact:deliver").End(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := metrics.Track("contact:deliver").End(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	if got := testutil.ToFloat64(metrics.runs.WithLabelValues("contact:deliver", "success")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.failures.WithLabelValues("contact:deliver")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestAddPurged(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	metrics.AddPurged(3)
	metrics.AddPurged(0)
	metrics.AddPurged(-2)
	if got := testutil.ToFloat64(metrics.purged); got != 3 {
		t.Fatalf("expected 3 purged, got %v", got)
	}

	var nilMetrics *Metrics
	nilMetrics.AddPurged(1)
	if err := nilMetrics.Track("x").End(nil); err != nil {
		t.Fatalf("nil metrics tracker: %v", err)
	}
}
