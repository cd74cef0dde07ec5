package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/syntrixbase/crm/internal/pubsub"
)

// connectFunc dials NATS. Replaced in tests.
type connectFunc func(url string) (*nats.Conn, error)

// jetStreamFactory builds the JetStream context. Replaced in tests.
type jetStreamFactory func(nc *nats.Conn) (JetStream, error)

var defaultConnect connectFunc = func(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("crm-notification"))
}

// Provider owns the NATS connection and hands out publishers.
type Provider struct {
	url       string
	nc        *nats.Conn
	js        JetStream
	connect   connectFunc
	jetStream jetStreamFactory
	logger    *slog.Logger
}

// NewProvider creates a provider for url. Call Connect before NewPublisher.
func NewProvider(url string) *Provider {
	return &Provider{
		url:       url,
		connect:   defaultConnect,
		jetStream: NewJetStream,
		logger:    slog.Default().With("component", "nats"),
	}
}

// Connect establishes the NATS connection and initializes JetStream.
func (p *Provider) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nc, err := p.connect(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", p.url, err)
	}

	js, err := p.jetStream(nc)
	if err != nil {
		if nc != nil {
			nc.Close()
		}
		return fmt.Errorf("failed to create JetStream: %w", err)
	}
	p.nc = nc
	p.js = js

	p.logger.Info("Connected to NATS", "url", p.url)
	return nil
}

// NewPublisher creates a publisher on the connected JetStream.
func (p *Provider) NewPublisher(ctx context.Context, opts pubsub.PublisherOptions) (pubsub.Publisher, error) {
	if p.js == nil {
		return nil, fmt.Errorf("NATS not connected, call Connect first")
	}
	return NewPublisher(ctx, p.js, opts)
}

// Close closes the NATS connection.
func (p *Provider) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection...")
		p.nc.Close()
	}
	p.nc = nil
	p.js = nil
	return nil
}
