// Package services assembles the configured gRPC services into one process:
// the collaborators (user state, metadata, notification) and the campaign
// orchestrator, all behind a single server.
package services

import (
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/syntrixbase/crm/internal/config"
	"github.com/syntrixbase/crm/internal/crm"
	"github.com/syntrixbase/crm/internal/server"
	"github.com/syntrixbase/crm/internal/server/ratelimit"
	"google.golang.org/grpc"
)

// CRMMethodPrefix selects the orchestrator methods guarded by auth and rate limiting.
const CRMMethodPrefix = "/crm.v1.Crm/"

const crmServiceName = "crm.v1.Crm"

// Options carries process wiring that does not belong in the config file.
type Options struct {
	Logger *slog.Logger

	// GRPCListener and HTTPListener replace the configured ports when set.
	GRPCListener net.Listener
	HTTPListener net.Listener

	// DialOptions are appended when the orchestrator dials its collaborators.
	DialOptions []grpc.DialOption
}

type closer struct {
	name string
	c    io.Closer
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

type Manager struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	server   server.Service
	serving  []string
	closers  []closer
	limiter  *ratelimit.MemoryLimiter
	orch     *crm.Orchestrator
	wg       sync.WaitGroup
	errCh    chan error
	stopOnce sync.Once
	draining atomic.Bool
}

func NewManager(cfg *config.Config, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger.With("component", "services"),
		errCh:  make(chan error, 1),
	}
}

// Orchestrator is nil unless the crm service is enabled and initialized.
func (m *Manager) Orchestrator() *crm.Orchestrator {
	return m.orch
}

// Err delivers the first fatal server error after Start.
func (m *Manager) Err() <-chan error {
	return m.errCh
}

func (m *Manager) addCloser(name string, c io.Closer) {
	m.closers = append(m.closers, closer{name: name, c: c})
}
