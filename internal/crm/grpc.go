package crm

import (
	"context"
	"log/slog"

	crmv1 "github.com/syntrixbase/crm/api/crm/v1"
	"github.com/syntrixbase/crm/internal/auth"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

// Server exposes the orchestrator as the Crm gRPC service.
type Server struct {
	crmv1.UnimplementedCrmServer
	orch   *Orchestrator
	logger *slog.Logger
}

func NewServer(orch *Orchestrator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{orch: orch, logger: logger.With("component", "crm.grpc")}
}

func (s *Server) Welcome(ctx context.Context, req *crmv1.WelcomeRequest) (*crmv1.WelcomeResponse, error) {
	id, err := s.invoke(ctx, Campaign{
		ID:         req.GetId(),
		Workflow:   WorkflowWelcome,
		Days:       req.GetInterval(),
		ContentIDs: req.GetContentIds(),
	})
	if err != nil {
		return nil, err
	}
	return &crmv1.WelcomeResponse{Id: id}, nil
}

func (s *Server) Recall(ctx context.Context, req *crmv1.RecallRequest) (*crmv1.RecallResponse, error) {
	id, err := s.invoke(ctx, Campaign{
		ID:         req.GetId(),
		Workflow:   WorkflowRecall,
		Days:       req.GetLastVisitInterval(),
		ContentIDs: req.GetContentIds(),
	})
	if err != nil {
		return nil, err
	}
	return &crmv1.RecallResponse{Id: id}, nil
}

func (s *Server) Remind(ctx context.Context, req *crmv1.RemindRequest) (*crmv1.RemindResponse, error) {
	id, err := s.invoke(ctx, Campaign{
		ID:       req.GetId(),
		Workflow: WorkflowRemind,
		Days:     req.GetLastVisitInterval(),
	})
	if err != nil {
		return nil, err
	}
	return &crmv1.RemindResponse{Id: id}, nil
}

func (s *Server) invoke(ctx context.Context, c Campaign) (string, error) {
	if ident, ok := auth.FromContext(ctx); ok {
		s.logger.Debug("Campaign requested", "workflow", string(c.Workflow), "user_id", ident.ID, "email", ident.Email)
	}
	id, err := s.orch.Run(ctx, c)
	return id, rpcstatus.ToStatus(err)
}
