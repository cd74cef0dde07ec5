package crm_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	crmv1 "github.com/syntrixbase/crm/api/crm/v1"
	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"github.com/syntrixbase/crm/internal/crm"
	"github.com/syntrixbase/crm/internal/metadata"
	"github.com/syntrixbase/crm/internal/metadata/catalog"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/notification/sender"
	"github.com/syntrixbase/crm/internal/pubsub"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/userstate/store/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type deployment struct {
	client crmv1.CrmClient
	orch   *crm.Orchestrator
	pub    *pubsub.MemoryPublisher
}

// startAll serves the three collaborators and the Crm service on one
// in-memory listener, with the orchestrator dialing back into it.
func startAll(t *testing.T, users ...userstate.User) *deployment {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := memory.New()
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), users...))

	pub := pubsub.NewMemoryPublisher("")
	lis := bufconn.Listen(1 << 20)
	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) })

	const addr = "passthrough:///bufnet"
	cfg := crm.Config{UserStateAddr: addr, MetadataAddr: addr, NotificationAddr: addr}
	clients, err := crm.Dial(cfg, dialer)
	require.NoError(t, err)

	orch, err := crm.New(cfg, clients.Users, clients.Content, clients.Notification, crm.NewSupervisor(logger), logger)
	require.NoError(t, err)

	srv := grpc.NewServer()
	userstatev1.RegisterUserStatsServer(srv, userstate.NewServer(store, userstate.StoreMemory, logger))
	metadatav1.RegisterMetadataServer(srv, metadata.NewServer(catalog.NewGenerated(nil, 100), 8, logger))
	notificationv1.RegisterNotificationServer(srv, notification.NewServer(sender.NewPublish(pub, nil), 8, logger))
	crmv1.RegisterCrmServer(srv, crm.NewServer(orch, logger))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient(addr, dialer, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = orch.Supervisor().Shutdown(ctx)
		conn.Close()
		clients.Close()
		srv.Stop()
	})
	return &deployment{client: crmv1.NewCrmClient(conn), orch: orch, pub: pub}
}

func drain(t *testing.T, d *deployment) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.orch.Supervisor().Shutdown(ctx))
}

func TestCrm_Welcome(t *testing.T) {
	now := time.Now().UTC()
	d := startAll(t,
		userstate.User{Email: "ada@example.com", Name: "Ada", CreatedAt: now.Add(-2 * 24 * time.Hour)},
		userstate.User{Email: "bob@example.com", Name: "Bob", CreatedAt: now.Add(-2 * 24 * time.Hour)},
		userstate.User{Email: "cy@example.com", Name: "Cy", CreatedAt: now.Add(-2 * 24 * time.Hour)},
		userstate.User{Email: "old@example.com", CreatedAt: now.Add(-40 * 24 * time.Hour)},
	)

	resp, err := d.client.Welcome(context.Background(), &crmv1.WelcomeRequest{Id: "welcome-1", Interval: 2, ContentIds: []uint32{7, 9}})
	require.NoError(t, err)
	assert.Equal(t, "welcome-1", resp.GetId())
	drain(t, d)

	cat := catalog.NewGenerated(nil, 100)
	c7, err := cat.Get(context.Background(), 7)
	require.NoError(t, err)
	c9, err := cat.Get(context.Background(), 9)
	require.NoError(t, err)

	msgs := d.pub.Messages()
	require.Len(t, msgs, 3)
	recipients := make(map[string]bool)
	for _, m := range msgs {
		assert.Equal(t, string(notification.KindEmail), m.Subject)
		var env notification.Envelope
		require.NoError(t, json.Unmarshal(m.Data, &env))
		assert.NotEmpty(t, env.MessageID)
		assert.Equal(t, "Welcome", env.Subject)
		assert.Contains(t, env.Body, "* "+c7.GetName()+" by ")
		assert.Contains(t, env.Body, "* "+c9.GetName()+" by ")
		assert.Contains(t, env.Body, c7.GetUrl())
		require.Len(t, env.Recipients, 1)
		recipients[env.Recipients[0]] = true
	}
	assert.Equal(t, map[string]bool{"ada@example.com": true, "bob@example.com": true, "cy@example.com": true}, recipients)
}

func TestCrm_Remind(t *testing.T) {
	now := time.Now().UTC()
	d := startAll(t,
		userstate.User{Email: "gone@example.com", LastVisitedAt: now.Add(-30 * 24 * time.Hour)},
		userstate.User{Email: "here@example.com", LastVisitedAt: now},
	)

	resp, err := d.client.Remind(context.Background(), &crmv1.RemindRequest{LastVisitInterval: 14})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.GetId())
	drain(t, d)

	msgs := d.pub.Messages()
	require.Len(t, msgs, 1)
	var env notification.Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Data, &env))
	assert.Equal(t, []string{"gone@example.com"}, env.Recipients)
	assert.Equal(t, crm.RemindBody, env.Body)
}

func TestCrm_InvalidContent(t *testing.T) {
	d := startAll(t, userstate.User{Email: "a@example.com", LastVisitedAt: time.Now().Add(-48 * time.Hour)})

	_, err := d.client.Recall(context.Background(), &crmv1.RecallRequest{LastVisitInterval: 1, ContentIds: []uint32{0}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	drain(t, d)
	assert.Empty(t, d.pub.Messages())
}
