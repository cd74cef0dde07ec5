package services

import (
	"context"
	"fmt"
	"strings"

	crmv1 "github.com/syntrixbase/crm/api/crm/v1"
	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"github.com/syntrixbase/crm/internal/auth"
	"github.com/syntrixbase/crm/internal/crm"
	"github.com/syntrixbase/crm/internal/metadata"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/notification/sender"
	"github.com/syntrixbase/crm/internal/server"
	"github.com/syntrixbase/crm/internal/server/ratelimit"
	svcconfig "github.com/syntrixbase/crm/internal/services/config"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/userstate/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store and sender construction are package variables so tests can swap
// them for in-memory versions.
var (
	openUserStore = store.Open
	openCatalog   = metadata.OpenCatalog
	openSender    = sender.Open
)

// Init builds the server and every enabled service. On error the resources
// opened so far are released by Shutdown.
func (m *Manager) Init(ctx context.Context) error {
	opts, err := m.interceptors()
	if err != nil {
		return err
	}
	if m.opts.GRPCListener != nil || m.opts.HTTPListener != nil {
		opts = append(opts, server.WithListeners(m.opts.GRPCListener, m.opts.HTTPListener))
	}
	m.server = server.New(m.cfg.Server, m.opts.Logger, opts...)

	for _, s := range m.cfg.Services.Selected() {
		var err error
		switch s {
		case svcconfig.ServiceUserState:
			err = m.initUserState(ctx)
		case svcconfig.ServiceMetadata:
			err = m.initMetadata(ctx)
		case svcconfig.ServiceNotification:
			err = m.initNotification(ctx)
		case svcconfig.ServiceCRM:
			err = m.initCRM()
		}
		if err != nil {
			return fmt.Errorf("init %s: %w", s, err)
		}
		m.logger.Info("Service initialized", "service", s)
	}
	return nil
}

// interceptors guards the orchestrator methods with the drain check, token auth
// and then a per-caller rate limit. Collaborator methods stay open to the orchestrator.
func (m *Manager) interceptors() ([]server.Option, error) {
	if !m.cfg.Services.CRM {
		return nil, nil
	}

	var (
		unary  = []grpc.UnaryServerInterceptor{m.refuseWhileDraining}
		stream []grpc.StreamServerInterceptor
	)
	if m.cfg.Auth.Enabled {
		v, err := auth.LoadVerifier(m.cfg.Auth.PublicKeyFile, m.cfg.Auth.Issuer, m.cfg.Auth.Audience)
		if err != nil {
			return nil, fmt.Errorf("load auth key: %w", err)
		}
		gate := auth.NewGate(v, CRMMethodPrefix)
		unary = append(unary, gate.UnaryInterceptor())
		stream = append(stream, gate.StreamInterceptor())
	} else {
		m.logger.Warn("Authentication disabled, campaign methods are open")
	}

	if m.cfg.Server.RateLimit.Enabled {
		m.limiter = ratelimit.NewMemoryLimiter(m.cfg.Server.RateLimit)
		unary = append(unary, ratelimit.UnaryInterceptor(m.limiter, callerKey, CRMMethodPrefix))
	}

	return []server.Option{
		server.WithUnaryInterceptors(unary...),
		server.WithStreamInterceptors(stream...),
	}, nil
}

// refuseWhileDraining turns campaign calls away once Shutdown has begun, so no
// campaign is accepted that the drain would not wait for.
func (m *Manager) refuseWhileDraining(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if m.draining.Load() && strings.HasPrefix(info.FullMethod, CRMMethodPrefix) {
		return nil, status.Error(codes.Unavailable, "crm is shutting down")
	}
	return handler(ctx, req)
}

// callerKey limits authenticated callers by identity and everyone else by address.
func callerKey(ctx context.Context) string {
	if id, ok := auth.FromContext(ctx); ok && id.Email != "" {
		return "user:" + id.Email
	}
	return "peer:" + ratelimit.PeerKey(ctx)
}

func (m *Manager) register(desc *grpc.ServiceDesc, impl interface{}) {
	m.server.RegisterGRPCService(desc, impl)
	m.serving = append(m.serving, desc.ServiceName)
}

func (m *Manager) initUserState(ctx context.Context) error {
	st, err := openUserStore(ctx, m.cfg.UserState)
	if err != nil {
		return err
	}
	m.addCloser("user store", closeFunc(func() error { return st.Close(context.Background()) }))
	m.register(&userstatev1.UserStats_ServiceDesc, userstate.NewServer(st, m.cfg.UserState.Store, m.opts.Logger))
	return nil
}

func (m *Manager) initMetadata(ctx context.Context) error {
	cat, closeCat, err := openCatalog(ctx, m.cfg.Metadata, m.opts.Logger)
	if err != nil {
		return err
	}
	m.addCloser("content catalog", closeFunc(closeCat))
	m.register(&metadatav1.Metadata_ServiceDesc, metadata.NewServer(cat, m.cfg.Metadata.RelayCapacity, m.opts.Logger))
	return nil
}

func (m *Manager) initNotification(ctx context.Context) error {
	snd, err := openSender(ctx, m.cfg.Notification, m.opts.Logger)
	if err != nil {
		return err
	}
	m.addCloser("notification sender", snd)
	m.register(&notificationv1.Notification_ServiceDesc, notification.NewServer(snd, m.cfg.Notification.RelayCapacity, m.opts.Logger))
	return nil
}

func (m *Manager) initCRM() error {
	clients, err := crm.Dial(m.cfg.CRM, m.opts.DialOptions...)
	if err != nil {
		return err
	}
	m.addCloser("collaborator clients", clients)

	orch, err := crm.New(m.cfg.CRM, clients.Users, clients.Content, clients.Notification, crm.NewSupervisor(m.opts.Logger), m.opts.Logger)
	if err != nil {
		return err
	}
	m.orch = orch
	m.register(&crmv1.Crm_ServiceDesc, crm.NewServer(orch, m.opts.Logger))
	return nil
}
