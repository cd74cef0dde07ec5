// Package pubsub abstracts the message bus that rendered notifications are
// handed to.
package pubsub

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Message is one broker message. The subject is relative to the publisher's
// prefix. ID identifies the message across retries: brokers that keep a
// duplicate window store it once.
type Message struct {
	Subject string
	ID      string
	Header  map[string]string
	Data    []byte
}

// Publisher publishes messages to a stream.
type Publisher interface {
	Publish(ctx context.Context, m Message) error
	Close() error
}

// StorageType defines the storage backend for streams.
type StorageType int

const (
	MemoryStorage StorageType = iota
	FileStorage
)

// PublishResult describes one publish attempt.
type PublishResult struct {
	Subject   string
	ID        string
	Duplicate bool
	Err       error
	Latency   time.Duration
}

// PublisherOptions configures publisher behavior.
type PublisherOptions struct {
	StreamName    string
	SubjectPrefix string
	RetryAttempts int
	Storage       StorageType

	// DuplicateWindow is how long the stream remembers message ids. Zero keeps
	// the broker default.
	DuplicateWindow time.Duration

	// OnPublish observes every publish attempt.
	OnPublish func(PublishResult)
}

// Subject joins prefix and subject with a dot.
func Subject(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

// MemoryPublisher keeps published messages in memory and drops repeated ids
// like a broker inside its duplicate window. It backs local runs without a
// broker and tests.
type MemoryPublisher struct {
	mu       sync.Mutex
	prefix   string
	messages []Message
	seen     map[string]struct{}
	closed   bool
}

// NewMemoryPublisher returns an empty in-memory publisher.
func NewMemoryPublisher(prefix string) *MemoryPublisher {
	return &MemoryPublisher{prefix: prefix, seen: make(map[string]struct{})}
}

func (p *MemoryPublisher) Publish(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if m.ID != "" {
		if _, dup := p.seen[m.ID]; dup {
			return nil
		}
		p.seen[m.ID] = struct{}{}
	}
	m.Subject = Subject(p.prefix, m.Subject)
	m.Header = maps.Clone(m.Header)
	m.Data = append([]byte(nil), m.Data...)
	p.messages = append(p.messages, m)
	return nil
}

// Messages returns a snapshot of everything published so far.
func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
