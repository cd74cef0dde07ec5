package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	crmv1 "github.com/syntrixbase/crm/api/crm/v1"
	"github.com/syntrixbase/crm/internal/metadata/catalog"
	"github.com/syntrixbase/crm/internal/userstate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestManager_WelcomeEndToEnd(t *testing.T) {
	created := time.Now().UTC().Add(-24 * time.Hour)
	h := newHarness(t,
		userstate.User{Email: "ada@example.com", Name: "Ada", CreatedAt: created},
		userstate.User{Email: "bob@example.com", Name: "Bob", CreatedAt: created},
	)
	m := h.start(t)

	client := crmv1.NewCrmClient(h.conn(t, h.token(t)))
	resp, err := client.Welcome(context.Background(), &crmv1.WelcomeRequest{Id: "w-1", Interval: 1, ContentIds: []uint32{3}})
	require.NoError(t, err)
	assert.Equal(t, "w-1", resp.GetId())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Orchestrator().Supervisor().Shutdown(ctx))

	content, err := catalog.NewGenerated(nil, 100).Get(context.Background(), 3)
	require.NoError(t, err)

	envs := h.envelopes(t)
	require.Len(t, envs, 2)
	for _, env := range envs {
		assert.Equal(t, "Welcome", env.Subject)
		assert.Contains(t, env.Body, "* "+content.GetName()+" by ")
		assert.Contains(t, env.Body, content.GetDescription())
	}
}

func TestManager_RequiresToken(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	client := crmv1.NewCrmClient(h.conn(t))
	_, err := client.Remind(context.Background(), &crmv1.RemindRequest{LastVisitInterval: 3})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Empty(t, h.pub.Messages())
}

func TestManager_RateLimit(t *testing.T) {
	h := newHarness(t)
	h.cfg.Server.RateLimit.Requests = 2
	h.start(t)

	client := crmv1.NewCrmClient(h.conn(t, h.token(t)))
	for i := 0; i < 2; i++ {
		_, err := client.Remind(context.Background(), &crmv1.RemindRequest{LastVisitInterval: 3})
		require.NoError(t, err, "call %d", i)
	}
	_, err := client.Remind(context.Background(), &crmv1.RemindRequest{LastVisitInterval: 3})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestManager_Healthz(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	url := fmt.Sprintf("http://%s/healthz", h.opts.HTTPListener.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "ok"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestManager_RefusesCampaignsWhileDraining(t *testing.T) {
	h := newHarness(t, userstate.User{Email: "ada@example.com", LastVisitedAt: time.Now().Add(-30 * 24 * time.Hour)})
	m := h.start(t)
	m.draining.Store(true)

	client := crmv1.NewCrmClient(h.conn(t, h.token(t)))
	_, err := client.Remind(context.Background(), &crmv1.RemindRequest{LastVisitInterval: 3})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Empty(t, h.pub.Messages())
}

func TestManager_RefusesCampaignsAfterDispatchDrain(t *testing.T) {
	h := newHarness(t, userstate.User{Email: "ada@example.com", LastVisitedAt: time.Now().Add(-30 * 24 * time.Hour)})
	m := h.start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Orchestrator().Supervisor().Shutdown(ctx))

	client := crmv1.NewCrmClient(h.conn(t, h.token(t)))
	_, err := client.Remind(context.Background(), &crmv1.RemindRequest{LastVisitInterval: 3})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Empty(t, h.pub.Messages())
}
