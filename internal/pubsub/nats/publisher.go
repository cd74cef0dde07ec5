package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/syntrixbase/crm/internal/pubsub"
)

// streamPublisher publishes notification messages onto one JetStream stream.
// Message ids become Nats-Msg-Id headers, so a retried notification is stored
// once while it is inside the stream's duplicate window.
type streamPublisher struct {
	js   JetStream
	opts pubsub.PublisherOptions
}

// NewPublisher returns a JetStream publisher. When a stream name is set the
// stream is created or updated to capture every subject under the prefix.
func NewPublisher(ctx context.Context, js JetStream, opts pubsub.PublisherOptions) (pubsub.Publisher, error) {
	if js == nil {
		return nil, fmt.Errorf("jetstream cannot be nil")
	}
	if opts.StreamName != "" {
		if _, err := js.CreateOrUpdateStream(ctx, streamConfig(opts)); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", opts.StreamName, err)
		}
	}
	return &streamPublisher{js: js, opts: opts}, nil
}

func streamConfig(opts pubsub.PublisherOptions) jetstream.StreamConfig {
	cfg := jetstream.StreamConfig{
		Name:       opts.StreamName,
		Subjects:   []string{pubsub.Subject(opts.SubjectPrefix, ">")},
		Storage:    jetstream.MemoryStorage,
		Duplicates: opts.DuplicateWindow,
	}
	if opts.SubjectPrefix == "" {
		cfg.Subjects = []string{opts.StreamName + ".>"}
	}
	if opts.Storage == pubsub.FileStorage {
		cfg.Storage = jetstream.FileStorage
	}
	return cfg
}

func (p *streamPublisher) Publish(ctx context.Context, m pubsub.Message) error {
	start := time.Now()

	msg := nats.NewMsg(pubsub.Subject(p.opts.SubjectPrefix, m.Subject))
	msg.Data = m.Data
	for k, v := range m.Header {
		msg.Header.Set(k, v)
	}

	var popts []jetstream.PublishOpt
	if m.ID != "" {
		popts = append(popts, jetstream.WithMsgID(m.ID))
	}
	if p.opts.RetryAttempts > 0 {
		popts = append(popts, jetstream.WithRetryAttempts(p.opts.RetryAttempts))
	}

	ack, err := p.js.PublishMsg(ctx, msg, popts...)
	if p.opts.OnPublish != nil {
		p.opts.OnPublish(pubsub.PublishResult{
			Subject:   msg.Subject,
			ID:        m.ID,
			Duplicate: err == nil && ack != nil && ack.Duplicate,
			Err:       err,
			Latency:   time.Since(start),
		})
	}
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", m.ID, msg.Subject, err)
	}
	return nil
}

// Close is a no-op; the connection belongs to the Provider.
func (p *streamPublisher) Close() error {
	return nil
}
