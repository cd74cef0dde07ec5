// Package sender holds the notification senders.
package sender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/syntrixbase/crm/internal/metrics"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

// Log queues messages and logs them from a single worker, pausing for the
// throttle after each one. Messages still queued at Close are discarded.
type Log struct {
	queue    chan notification.Message
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	clock    clock.Clock
	throttle time.Duration
	logger   *slog.Logger
}

// NewLog starts the worker. A nil clock uses the wall clock.
func NewLog(queueSize int, throttle time.Duration, clk clock.Clock, logger *slog.Logger) *Log {
	if clk == nil {
		clk = clock.WallClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Log{
		queue:    make(chan notification.Message, queueSize),
		done:     make(chan struct{}),
		clock:    clk,
		throttle: throttle,
		logger:   logger.With("component", "log-sender"),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Send blocks while the queue is full.
func (s *Log) Send(ctx context.Context, m notification.Message) error {
	select {
	case <-s.done:
		return notification.ErrSenderClosed
	default:
	}
	select {
	case s.queue <- m:
		metrics.SenderQueueDepth.WithLabelValues(notification.SenderLog).Set(float64(len(s.queue)))
		return nil
	case <-s.done:
		return notification.ErrSenderClosed
	case <-ctx.Done():
		return fmt.Errorf("%w: enqueue %s: %v", rpcstatus.ErrUnavailable, m.ID, ctx.Err())
	}
}

func (s *Log) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			if n := len(s.queue); n > 0 {
				s.logger.Warn("Discarding queued messages", "count", n)
			}
			return
		case m := <-s.queue:
			metrics.SenderQueueDepth.WithLabelValues(notification.SenderLog).Set(float64(len(s.queue)))
			e := m.Envelope(s.clock.Now())
			s.logger.Info("Send message",
				"kind", e.Kind,
				"message_id", e.MessageID,
				"recipients", e.Recipients,
				"device_id", e.DeviceID,
				"subject", e.Subject,
			)
			if s.throttle > 0 {
				select {
				case <-s.clock.After(s.throttle):
				case <-s.done:
				}
			}
		}
	}
}

// Close stops the worker and waits for it to exit.
func (s *Log) Close() error {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}
