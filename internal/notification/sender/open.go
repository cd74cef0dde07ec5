package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/juju/clock"
	"github.com/syntrixbase/crm/internal/metrics"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/pubsub"
	natspubsub "github.com/syntrixbase/crm/internal/pubsub/nats"
)

// Open builds the configured sender.
func Open(ctx context.Context, cfg notification.Config, logger *slog.Logger) (notification.Sender, error) {
	switch cfg.Sender {
	case notification.SenderLog, "":
		return NewLog(cfg.Log.QueueSize, cfg.Log.Throttle, clock.WallClock, logger), nil
	case notification.SenderNats:
		return openNats(ctx, natspubsub.NewProvider(cfg.Nats.URL), cfg.Nats)
	}
	return nil, fmt.Errorf("unsupported sender %q", cfg.Sender)
}

type provider interface {
	Connect(ctx context.Context) error
	NewPublisher(ctx context.Context, opts pubsub.PublisherOptions) (pubsub.Publisher, error)
	Close() error
}

func openNats(ctx context.Context, p provider, cfg notification.NatsConfig) (*Publish, error) {
	if err := p.Connect(ctx); err != nil {
		return nil, err
	}
	storage := pubsub.MemoryStorage
	if cfg.Storage == "file" {
		storage = pubsub.FileStorage
	}
	pub, err := p.NewPublisher(ctx, pubsub.PublisherOptions{
		StreamName:    cfg.Stream,
		SubjectPrefix: cfg.SubjectPrefix,
		RetryAttempts:   cfg.RetryAttempts,
		Storage:         storage,
		DuplicateWindow: cfg.DuplicateWindow,
		OnPublish:       recordPublish,
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s := NewPublish(pub, clock.WallClock)
	s.onClose = p.Close
	return s, nil
}

func recordPublish(r pubsub.PublishResult) {
	result := "ok"
	switch {
	case r.Err != nil:
		result = "error"
	case r.Duplicate:
		result = "duplicate"
	}
	metrics.BrokerPublishes.WithLabelValues(r.Subject, result).Inc()
}
