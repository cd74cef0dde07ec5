package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/auth"
	"github.com/syntrixbase/crm/internal/config"
	"github.com/syntrixbase/crm/internal/metadata"
	"github.com/syntrixbase/crm/internal/metadata/catalog"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/notification/sender"
	"github.com/syntrixbase/crm/internal/pubsub"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/userstate/store/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufAddr = "passthrough:///bufnet"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	cfg    *config.Config
	lis    *bufconn.Listener
	opts   Options
	pub    *pubsub.MemoryPublisher
	signer *auth.Signer
}

func (h *harness) dialer() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return h.lis.DialContext(ctx) })
}

// newHarness configures an all-in-one process on an in-memory listener, with
// the stores swapped for in-memory versions seeded with users.
func newHarness(t *testing.T, users ...userstate.User) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.Logging.File.Enabled = false
	cfg.CRM.UserStateAddr = bufAddr
	cfg.CRM.MetadataAddr = bufAddr
	cfg.CRM.NotificationAddr = bufAddr

	keys := t.TempDir()
	privPath, pubPath, err := auth.WriteKeyPair(keys)
	require.NoError(t, err)
	cfg.Auth.PublicKeyFile = pubPath
	cfg.Auth.PrivateKeyFile = privPath
	require.NoError(t, config.ApplyServiceConfigs(filepath.Dir(keys),
		&cfg.Services, &cfg.Server, &cfg.Auth, &cfg.CRM, &cfg.UserState, &cfg.Metadata, &cfg.Notification))

	signer, err := auth.LoadSigner(privPath, cfg.Auth.Issuer, cfg.Auth.Audience, time.Hour)
	require.NoError(t, err)

	h := &harness{cfg: cfg, lis: bufconn.Listen(1 << 20), pub: pubsub.NewMemoryPublisher(""), signer: signer}

	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	h.opts = Options{
		Logger:       discard,
		GRPCListener: h.lis,
		HTTPListener: httpLis,
		DialOptions:  []grpc.DialOption{h.dialer()},
	}

	swap(t, &openUserStore, func(ctx context.Context, _ userstate.Config) (userstate.Store, error) {
		st, err := memory.New()
		if err != nil {
			return nil, err
		}
		return st, st.Insert(ctx, users...)
	})
	swap(t, &openCatalog, func(context.Context, metadata.Config, *slog.Logger) (catalog.Catalog, func() error, error) {
		return catalog.NewGenerated(nil, 100), func() error { return nil }, nil
	})
	swap(t, &openSender, func(context.Context, notification.Config, *slog.Logger) (notification.Sender, error) {
		return sender.NewPublish(h.pub, nil), nil
	})
	return h
}

func swap[T any](t *testing.T, target *T, v T) {
	t.Helper()
	orig := *target
	*target = v
	t.Cleanup(func() { *target = orig })
}

func (h *harness) start(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(h.cfg, h.opts)
	require.NoError(t, m.Init(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	t.Cleanup(func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		m.Shutdown(sctx)
		cancel()
	})
	return m
}

func (h *harness) conn(t *testing.T, opts ...grpc.DialOption) *grpc.ClientConn {
	t.Helper()
	opts = append([]grpc.DialOption{h.dialer(), grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	cc, err := grpc.NewClient(bufAddr, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { cc.Close() })
	return cc
}

func (h *harness) token(t *testing.T) grpc.DialOption {
	t.Helper()
	tok, err := h.signer.Sign(auth.Identity{ID: 1, Email: "ops@example.com"})
	require.NoError(t, err)
	return grpc.WithPerRPCCredentials(auth.TokenCredentials{Token: tok, Insecure: true})
}

func (h *harness) envelopes(t *testing.T) []notification.Envelope {
	t.Helper()
	var out []notification.Envelope
	for _, m := range h.pub.Messages() {
		var env notification.Envelope
		require.NoError(t, json.Unmarshal(m.Data, &env))
		out = append(out, env)
	}
	return out
}

func TestManager_InitSelectsServices(t *testing.T) {
	h := newHarness(t)
	h.cfg.Services.CRM = false
	h.cfg.Services.Notification = false

	m := NewManager(h.cfg, h.opts)
	require.NoError(t, m.Init(context.Background()))
	defer m.Shutdown(context.Background())

	assert.Equal(t, []string{"crm.userstate.v1.UserStats", "crm.metadata.v1.Metadata"}, m.serving)
	assert.Nil(t, m.Orchestrator())
	assert.Nil(t, m.limiter)
}

func TestManager_InitErrors(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		h := newHarness(t)
		swap(t, &openUserStore, func(context.Context, userstate.Config) (userstate.Store, error) {
			return nil, errors.New("mongo down")
		})
		m := NewManager(h.cfg, h.opts)
		err := m.Init(context.Background())
		assert.ErrorContains(t, err, "init user_state: mongo down")
		m.Shutdown(context.Background())
	})

	t.Run("auth key", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Auth.PublicKeyFile = filepath.Join(t.TempDir(), "missing.pem")
		m := NewManager(h.cfg, h.opts)
		assert.ErrorContains(t, m.Init(context.Background()), "load auth key")
	})
}

func TestManager_StartBeforeInit(t *testing.T) {
	m := NewManager(config.Default(), Options{Logger: discard})
	assert.Error(t, m.Start(context.Background()))
}

func TestManager_ShutdownClosesInReverse(t *testing.T) {
	m := NewManager(config.Default(), Options{Logger: discard})
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		m.addCloser(name, closeFunc(func() error {
			order = append(order, name)
			return nil
		}))
	}
	m.Shutdown(context.Background())
	m.Shutdown(context.Background())
	assert.Equal(t, []string{"c", "b", "a"}, order)
}
