package sender

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/juju/clock"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/pubsub"
)

// Publish hands each message to a broker as a JSON envelope on the subject
// named after its kind. The message id travels with it so broker-side
// deduplication absorbs a resent message.
type Publish struct {
	pub     pubsub.Publisher
	clock   clock.Clock
	onClose func() error
}

func NewPublish(pub pubsub.Publisher, clk clock.Clock) *Publish {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Publish{pub: pub, clock: clk}
}

func (s *Publish) Send(ctx context.Context, m notification.Message) error {
	data, err := json.Marshal(m.Envelope(s.clock.Now()))
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.ID, err)
	}
	msg := pubsub.Message{
		Subject: string(m.Kind),
		ID:      m.ID,
		Header: map[string]string{
			"Content-Type": "application/json",
			"Crm-Kind":     string(m.Kind),
		},
		Data: data,
	}
	if err := s.pub.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", m.ID, err)
	}
	return nil
}

func (s *Publish) Close() error {
	err := s.pub.Close()
	if s.onClose != nil {
		if cerr := s.onClose(); err == nil {
			err = cerr
		}
	}
	return err
}
