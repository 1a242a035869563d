package event

import (
	"context"
	"log/slog"
)

// Safe decorates a Notifier so that no publish failure, of any kind, ever
// reaches the caller. Failures are logged with the correlation id and turned
// into an unpublished Result.
type Safe struct {
	next Notifier
}

func NewSafe(next Notifier) *Safe {
	return &Safe{next: next}
}

func (s *Safe) Publish(ctx context.Context, evt Event) (res Result, _ error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event publish panicked",
				"name", evt.Name,
				"cid", evt.CorrelationID,
				"panic", r,
			)
			res = Result{Published: false}
		}
	}()

	res, err := s.next.Publish(ctx, evt)
	if err != nil {
		slog.Error("event publish failed",
			"name", evt.Name,
			"cid", evt.CorrelationID,
			"error", err,
		)
		return Result{Published: false, Err: err}, nil
	}
	return res, nil
}
