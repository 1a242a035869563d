package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskforge/taskforge/internal/config"
)

// Domain event names.
const (
	TaskCreated       = "TaskCreated"
	TaskUpdated       = "TaskUpdated"
	TaskDeleted       = "TaskDeleted"
	AttachmentAdded   = "AttachmentAdded"
	AttachmentDeleted = "AttachmentDeleted"
)

// Event is the envelope published for every domain state change.
type Event struct {
	Name          string         `json:"event"`
	CorrelationID string         `json:"cid"`
	Payload       map[string]any `json:"payload"`
	Timestamp     time.Time      `json:"ts"`
}

// Result reports whether an event actually reached the bus.
type Result struct {
	Published bool
	Err       error
}

// Notifier publishes domain events. Delivery is best effort: no outbox, no
// ordering guarantee.
type Notifier interface {
	Publish(ctx context.Context, evt Event) (Result, error)
}

// NewFromConfig picks the notifier for the configured runtime mode and wraps
// it so publish failures never reach the primary write path.
func NewFromConfig(c *config.Config) (Notifier, error) {
	if c.SNSTopicARN == "" {
		slog.Info("no SNS topic configured, events will be logged only")
		return NewSafe(LogNotifier{}), nil
	}

	n, err := NewSNSNotifier(SNSConfig{
		Region:    c.S3Region,
		TopicARN:  c.SNSTopicARN,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.SNSEndpoint,
	})
	if err != nil {
		return nil, err
	}
	return NewSafe(n), nil
}

// LogNotifier is the silent runtime mode used when no bus is configured: the
// event only goes to the log and is reported as unpublished.
type LogNotifier struct{}

func (LogNotifier) Publish(ctx context.Context, evt Event) (Result, error) {
	slog.Info("event (local only)",
		"name", evt.Name,
		"cid", evt.CorrelationID,
		"payload", evt.Payload,
	)
	return Result{Published: false}, nil
}
