package perf

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	jobmetrics "github.com/olguin/portfolio/internal/jobs"
	"github.com/olguin/portfolio/jobs"
)

func contactTask(t *testing.T, i int) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(jobs.ContactPayload{
		Name:        "Visitor",
		Email:       "visitor@example.com",
		Message:     "Hello, I would like to talk about a campaign.",
		SubmittedAt: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return asynq.NewTask(jobs.TaskTypeContactDeliver, payload)
}

func TestContactDeliveryThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	deliverer := jobs.NewContactDeliverer("owner@example.com", slog.New(slog.NewTextHandler(io.Discard, nil)), metrics, nil)

	start := time.Now()
	for i := 0; i < 60; i++ {
		if err := deliverer.Handle(context.Background(), contactTask(t, i)); err != nil {
			t.Fatalf("deliver %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("60 deliveries took %s", elapsed)
	}

	// Runs interrupted by shutdown count as failures.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		if err := deliverer.Handle(cancelled, contactTask(t, i)); err == nil {
			t.Fatal("expected cancellation to propagate")
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "portfolio_jobs_total", map[string]string{"job": jobs.TaskTypeContactDeliver, "status": "success"})
	failure := metricValue(t, families, "portfolio_jobs_total", map[string]string{"job": jobs.TaskTypeContactDeliver, "status": "failure"})
	if success != 60 || failure != 3 {
		t.Fatalf("unexpected run counts success=%v failure=%v", success, failure)
	}
	if ratio := success / (success + failure); ratio < 0.9 {
		t.Fatalf("delivery success ratio too low: %f", ratio)
	}

	duration := histogramMean(t, families, "portfolio_job_duration_seconds", map[string]string{"job": jobs.TaskTypeContactDeliver})
	if duration > 0.05 {
		t.Fatalf("delivery duration above budget: %f", duration)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != val {
				return false
			}
		}
	}
	for key := range labels {
		found := false
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
