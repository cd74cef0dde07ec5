package notification_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/notification/sender"
	"github.com/syntrixbase/crm/internal/pubsub"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T, s notification.Sender) notificationv1.NotificationClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	notificationv1.RegisterNotificationServer(srv, notification.NewServer(s, 8, slog.New(slog.NewTextHandler(io.Discard, nil))))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})
	return notificationv1.NewNotificationClient(conn)
}

func TestSend(t *testing.T) {
	pub := pubsub.NewMemoryPublisher("")
	client := startServer(t, sender.NewPublish(pub, nil))

	stream, err := client.Send(context.Background())
	require.NoError(t, err)

	reqs := []*notificationv1.SendRequest{
		{Msg: &notificationv1.SendRequest_Email{Email: &notificationv1.EmailMessage{MessageId: "e1", Recipients: []string{"a@example.com"}}}},
		{},
		{Msg: &notificationv1.SendRequest_Sms{Sms: &notificationv1.SmsMessage{MessageId: "s1", Body: "hi"}}},
		{Msg: &notificationv1.SendRequest_InApp{InApp: &notificationv1.InAppMessage{DeviceId: "d1"}}},
	}
	for _, r := range reqs {
		require.NoError(t, stream.Send(r))
	}
	require.NoError(t, stream.CloseSend())

	var got []*notificationv1.SendResponse
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, resp)
	}
	require.Len(t, got, 4)

	assert.Equal(t, "e1", got[0].GetMessageId())
	assert.NotNil(t, got[0].GetTimestamp())
	assert.Nil(t, got[0].GetError())

	require.NotNil(t, got[1].GetError())
	assert.Equal(t, int32(codes.InvalidArgument), got[1].GetError().GetCode())
	assert.Contains(t, got[1].GetError().GetMessage(), "msg is required")

	assert.Equal(t, "s1", got[2].GetMessageId())
	assert.Nil(t, got[2].GetError())

	require.NotNil(t, got[3].GetError())
	assert.Equal(t, int32(codes.InvalidArgument), got[3].GetError().GetCode())

	msgs := pub.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "email", msgs[0].Subject)
	assert.Equal(t, "sms", msgs[1].Subject)
}

func TestSend_SenderClosed(t *testing.T) {
	s := sender.NewLog(1, 0, nil, nil)
	require.NoError(t, s.Close())
	client := startServer(t, s)

	stream, err := client.Send(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.Send(&notificationv1.SendRequest{
		Msg: &notificationv1.SendRequest_Email{Email: &notificationv1.EmailMessage{MessageId: "e1"}},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "e1", resp.GetMessageId())
	assert.Equal(t, int32(codes.Unavailable), resp.GetError().GetCode())
}

func TestFromRequest(t *testing.T) {
	_, err := notification.FromRequest(&notificationv1.SendRequest{})
	assert.ErrorIs(t, err, notification.ErrMissingMessage)

	m, err := notification.FromRequest(&notificationv1.SendRequest{
		Msg: &notificationv1.SendRequest_Sms{Sms: &notificationv1.SmsMessage{}},
	})
	assert.ErrorIs(t, err, notification.ErrMissingMessageID)
	assert.Equal(t, notification.KindSms, m.Kind)
}

func TestConfig_Validate(t *testing.T) {
	var cfg notification.Config
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024*100, cfg.Log.QueueSize)

	cfg.Sender = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}
