package metadata

import (
	"context"
	"fmt"
	"log/slog"

	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	"github.com/syntrixbase/crm/internal/metadata/catalog"
	"github.com/syntrixbase/crm/internal/relay"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

// Server implements the Metadata gRPC service.
type Server struct {
	metadatav1.UnimplementedMetadataServer

	catalog  catalog.Catalog
	capacity int
	logger   *slog.Logger
}

func NewServer(c catalog.Catalog, capacity int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog:  c,
		capacity: capacity,
		logger:   logger.With("component", "metadata"),
	}
}

// Materialize resolves each inbound id as it arrives. A bad id or a broken
// inbound stream yields an in-band error for that position only.
func (s *Server) Materialize(stream metadatav1.Metadata_MaterializeServer) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	results := relay.Start(ctx,
		relay.Recv(stream.Recv),
		s.materialize,
		relay.WithCapacity(s.capacity),
		relay.WithName("metadata.materialize"),
		relay.WithLogger(s.logger),
	)
	return relay.Drain(ctx, results, func(r relay.Result[*metadatav1.Content]) error {
		if r.Err != nil {
			return stream.Send(&metadatav1.MaterializeResponse{Error: rpcstatus.ItemError(r.Err)})
		}
		return stream.Send(&metadatav1.MaterializeResponse{Content: r.Value})
	})
}

func (s *Server) materialize(ctx context.Context, req *metadatav1.MaterializeRequest) (*metadatav1.Content, error) {
	content, err := s.catalog.Get(ctx, req.GetId())
	if err != nil {
		s.logger.Warn("Materialize failed", "id", req.GetId(), "error", err)
		return nil, fmt.Errorf("materialize %d: %w", req.GetId(), err)
	}
	return content, nil
}
