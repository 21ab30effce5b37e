package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/olguin/portfolio/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ContactCounter counts contact messages by outcome.
type ContactCounter interface {
	ContactMessage(result string)
}

// ContactDeliverer hands contact messages to the site owner. Delivery is a
// structured log line addressed to Recipient.
type ContactDeliverer struct {
	Recipient string
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Counter   ContactCounter
}

// NewContactDeliverer wires dependencies for the delivery handler.
func NewContactDeliverer(recipient string, logger *slog.Logger, metrics *jobmetrics.Metrics, counter ContactCounter) *ContactDeliverer {
	return &ContactDeliverer{Recipient: recipient, Logger: logger, Metrics: metrics, Counter: counter}
}

// Handle processes TaskTypeContactDeliver tasks.
func (d *ContactDeliverer) Handle(ctx context.Context, t *asynq.Task) error {
	if d == nil {
		return errors.New("contact deliver: handler not configured")
	}
	var payload ContactPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		d.count("rejected")
		return asynq.SkipRetry
	}
	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Message) == "" {
		d.count("rejected")
		return asynq.SkipRetry
	}

	tracker := d.metrics().Track(TaskTypeContactDeliver)
	if err := ctx.Err(); err != nil {
		return tracker.End(err)
	}

	d.logger().Info("contact message delivered",
		slog.String("to", d.Recipient),
		slog.String("from_name", payload.Name),
		slog.String("from_email", payload.Email),
		slog.Int("length", len(payload.Message)),
		slog.Time("submitted_at", payload.SubmittedAt),
		slog.String("request_id", payload.RequestID),
	)
	d.count("delivered")
	return tracker.End(nil)
}

func (d *ContactDeliverer) count(result string) {
	if d.Counter != nil {
		d.Counter.ContactMessage(result)
	}
}

func (d *ContactDeliverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger.With(slog.String("job", TaskTypeContactDeliver))
	}
	return slog.Default().With(slog.String("job", TaskTypeContactDeliver))
}

func (d *ContactDeliverer) metrics() *jobmetrics.Metrics {
	if d.Metrics != nil {
		return d.Metrics
	}
	return defaultJobMetrics
}
