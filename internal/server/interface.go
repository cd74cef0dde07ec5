package server

import (
	"context"
	"net/http"

	"google.golang.org/grpc"
)

// Service is the unified interface for the network layer.
type Service interface {
	// Start starts the HTTP and gRPC listeners and blocks until a fatal error
	// occurs or ctx is canceled.
	Start(ctx context.Context) error

	// Stop gracefully shuts both servers down, forcing the gRPC server once
	// ctx expires.
	Stop(ctx context.Context) error

	// RegisterHTTPHandler must be called before Start.
	RegisterHTTPHandler(pattern string, handler http.Handler)

	// RegisterGRPCService must be called before Start.
	RegisterGRPCService(desc *grpc.ServiceDesc, impl interface{})

	// SetServing flips the health status reported for a gRPC service name.
	SetServing(service string, serving bool)
}
