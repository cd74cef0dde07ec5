// Package relay bridges an inbound item sequence to a bounded outbound result
// channel. Each item is mapped through a work function on a dedicated producer
// goroutine; per-item failures are delivered in-band so one bad item never ends
// the stream.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/syntrixbase/crm/internal/metrics"
)

// DefaultCapacity is the outbound channel size used when none is configured.
const DefaultCapacity = 1024

// ErrPanic is wrapped by the in-band error produced when work panics.
var ErrPanic = errors.New("relay work panicked")

// Result is either a value or the error for one consumed item.
type Result[T any] struct {
	Value T
	Err   error
}

// WorkFunc maps one inbound item to an outbound value.
type WorkFunc[In, Out any] func(ctx context.Context, item In) (Out, error)

type options struct {
	capacity int
	name     string
	logger   *slog.Logger
}

// Option configures a relay.
type Option func(*options)

// WithCapacity sets the outbound channel capacity. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithName labels the relay in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for producer lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Start spawns the producer and returns the receiving half of its channel.
//
// The producer consumes src in order and sends exactly one Result per item,
// blocking while the channel is full. Inbound errors are forwarded in-band.
// The channel is closed when src is exhausted or ctx is done; cancelling ctx
// is how the consumer signals it has gone away.
func Start[In, Out any](ctx context.Context, src iter.Seq2[In, error], work WorkFunc[In, Out], opts ...Option) <-chan Result[Out] {
	o := options{
		capacity: DefaultCapacity,
		name:     "relay",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With("component", "relay", "relay", o.name)

	out := make(chan Result[Out], o.capacity)
	go func() {
		defer close(out)

		var n int
		for item, err := range src {
			var r Result[Out]
			if err != nil {
				r.Err = err
			} else {
				r.Value, r.Err = invoke(ctx, work, item)
			}
			observe(o.name, r.Err)

			select {
			case out <- r:
				n++
			case <-ctx.Done():
				logger.Debug("Relay consumer gone, stopping producer", "sent", n, "error", ctx.Err())
				return
			}
		}
		logger.Debug("Relay input exhausted", "sent", n)
	}()
	return out
}

func invoke[In, Out any](ctx context.Context, work WorkFunc[In, Out], item In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return work(ctx, item)
}

func observe(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RelayItems.WithLabelValues(name, result).Inc()
}

// Recv adapts a stream receive function into a sequence. io.EOF ends the
// sequence; any other error is yielded once and then ends it, since a
// transport stream cannot be read after failing.
func Recv[T any](recv func() (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Drain forwards every result to send until the channel closes. It stops at the
// first send failure or when ctx is done.
func Drain[T any](ctx context.Context, results <-chan Result[T], send func(Result[T]) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-results:
			if !ok {
				return nil
			}
			if err := send(r); err != nil {
				return err
			}
		}
	}
}
