package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher("crm.notifications")
	require.NoError(t, p.Publish(context.Background(), Message{Subject: "email", ID: "m-1", Data: []byte(`{"a":1}`)}))
	require.NoError(t, p.Publish(context.Background(), Message{Subject: "sms", ID: "m-2", Data: []byte(`{}`)}))

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "crm.notifications.email", msgs[0].Subject)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.JSONEq(t, `{"a":1}`, string(msgs[0].Data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, Message{Subject: "email"}), context.Canceled)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Subject: "email"}), ErrClosed)
}

func TestMemoryPublisher_DropsRepeatedIDs(t *testing.T) {
	p := NewMemoryPublisher("")
	require.NoError(t, p.Publish(context.Background(), Message{Subject: "email", ID: "m-1", Data: []byte("first")}))
	require.NoError(t, p.Publish(context.Background(), Message{Subject: "email", ID: "m-1", Data: []byte("retry")}))
	require.NoError(t, p.Publish(context.Background(), Message{Subject: "email", Data: []byte("anon")}))
	require.NoError(t, p.Publish(context.Background(), Message{Subject: "email", Data: []byte("anon")}))

	msgs := p.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", string(msgs[0].Data))
	assert.Equal(t, "email", msgs[0].Subject)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "email", Subject("", "email"))
	assert.Equal(t, "notifications.email", Subject("notifications", "email"))
}
