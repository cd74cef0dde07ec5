package userstate

import (
	"fmt"
	"log/slog"

	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"github.com/syntrixbase/crm/internal/metrics"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"github.com/syntrixbase/crm/internal/windowquery"
)

// Server implements the UserStats gRPC service on top of a Store.
type Server struct {
	userstatev1.UnimplementedUserStatsServer

	store     Store
	storeKind string
	logger    *slog.Logger
}

func NewServer(store Store, storeKind string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     store,
		storeKind: storeKind,
		logger:    logger.With("component", "user-state"),
	}
}

// Query streams every user matching the request in store order.
func (s *Server) Query(req *userstatev1.QueryRequest, stream userstatev1.UserStats_QueryServer) error {
	ctx := stream.Context()

	filter, err := windowquery.FromProto(req)
	if err != nil {
		return rpcstatus.ToStatus(err)
	}
	if err := CheckFilter(filter); err != nil {
		return rpcstatus.ToStatus(err)
	}

	users, err := s.store.Query(ctx, filter)
	if err != nil {
		return rpcstatus.ToStatus(fmt.Errorf("query users: %w", err))
	}

	var n int
	for u, err := range users {
		if err != nil {
			s.logger.Error("User row failed", "error", err, "sent", n)
			return rpcstatus.ToStatus(fmt.Errorf("read user: %w", err))
		}
		if err := stream.Send(u.ToProto()); err != nil {
			return err
		}
		n++
		metrics.UsersStreamed.WithLabelValues(s.storeKind).Inc()
	}
	s.logger.Debug("Query finished", "fields", filter.Fields(), "users", n)
	return nil
}
