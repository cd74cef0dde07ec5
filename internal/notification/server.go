package notification

import (
	"context"
	"log/slog"

	"github.com/juju/clock"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	"github.com/syntrixbase/crm/internal/relay"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Server implements the Notification gRPC service.
type Server struct {
	notificationv1.UnimplementedNotificationServer

	sender   Sender
	capacity int
	clock    clock.Clock
	logger   *slog.Logger
}

func NewServer(sender Sender, capacity int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		sender:   sender,
		capacity: capacity,
		clock:    clock.WallClock,
		logger:   logger.With("component", "notification"),
	}
}

// Send answers every inbound message with an acknowledgement or an in-band
// error, in arrival order.
func (s *Server) Send(stream notificationv1.Notification_SendServer) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	results := relay.Start(ctx,
		relay.Recv(stream.Recv),
		s.send,
		relay.WithCapacity(s.capacity),
		relay.WithName("notification.send"),
		relay.WithLogger(s.logger),
	)
	return relay.Drain(ctx, results, func(r relay.Result[*notificationv1.SendResponse]) error {
		resp := r.Value
		if resp == nil {
			resp = &notificationv1.SendResponse{}
		}
		if r.Err != nil {
			resp.Error = rpcstatus.ItemError(r.Err)
		}
		return stream.Send(resp)
	})
}

func (s *Server) send(ctx context.Context, req *notificationv1.SendRequest) (*notificationv1.SendResponse, error) {
	m, err := FromRequest(req)
	resp := &notificationv1.SendResponse{MessageId: m.ID}
	if err != nil {
		return resp, err
	}
	if err := s.sender.Send(ctx, m); err != nil {
		s.logger.Warn("Failed to send message", "kind", m.Kind, "message_id", m.ID, "error", err)
		return resp, err
	}
	resp.Timestamp = timestamppb.New(s.clock.Now())
	return resp, nil
}
