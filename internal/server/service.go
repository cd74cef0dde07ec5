package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type serverImpl struct {
	cfg    Config
	logger *slog.Logger

	httpMux    *http.ServeMux
	httpServer *http.Server
	httpLis    net.Listener

	grpcServer *grpc.Server
	grpcLis    net.Listener
	health     *health.Server

	mu      sync.Mutex
	started bool
}

// Option customises a server built by New.
type Option func(*options)

type options struct {
	unary   []grpc.UnaryServerInterceptor
	stream  []grpc.StreamServerInterceptor
	grpcLis net.Listener
	httpLis net.Listener
}

// WithUnaryInterceptors appends interceptors after recovery and logging.
func WithUnaryInterceptors(ics ...grpc.UnaryServerInterceptor) Option {
	return func(o *options) { o.unary = append(o.unary, ics...) }
}

// WithStreamInterceptors appends interceptors after recovery and logging.
func WithStreamInterceptors(ics ...grpc.StreamServerInterceptor) Option {
	return func(o *options) { o.stream = append(o.stream, ics...) }
}

// WithListeners serves on pre-opened listeners instead of dialing the
// configured ports. Either may be nil.
func WithListeners(grpcLis, httpLis net.Listener) Option {
	return func(o *options) {
		o.grpcLis = grpcLis
		o.httpLis = httpLis
	}
}

// New creates a new Service instance.
func New(cfg Config, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &serverImpl{
		cfg:     cfg,
		logger:  logger.With("component", "server"),
		httpMux: http.NewServeMux(),
		grpcLis: o.grpcLis,
		httpLis: o.httpLis,
		health:  health.NewServer(),
	}

	unary := append([]grpc.UnaryServerInterceptor{
		s.recoveryUnaryInterceptor,
		s.requestIDUnaryInterceptor,
		s.loggingUnaryInterceptor,
	}, o.unary...)
	stream := append([]grpc.StreamServerInterceptor{
		s.recoveryStreamInterceptor,
		s.requestIDStreamInterceptor,
		s.loggingStreamInterceptor,
	}, o.stream...)

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	}
	if cfg.GRPCMaxConcurrent > 0 {
		serverOpts = append(serverOpts, grpc.MaxConcurrentStreams(uint32(cfg.GRPCMaxConcurrent)))
	}
	s.grpcServer = grpc.NewServer(serverOpts...)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)

	s.httpMux.Handle("/metrics", promhttp.Handler())
	s.httpMux.HandleFunc("/healthz", s.handleHealth)

	return s
}

func (s *serverImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	s.started = true
	s.initHTTPServer()
	s.mu.Unlock()

	errChan := make(chan error, 2)
	go s.runHTTPServer(errChan)
	go s.runGRPCServer(errChan)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (s *serverImpl) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.health.Shutdown()

	var wg sync.WaitGroup
	errChan := make(chan error, 1)

	if s.httpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.logger.Info("Stopping HTTP server")
			if err := s.httpServer.Shutdown(ctx); err != nil {
				errChan <- fmt.Errorf("http shutdown error: %w", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("Stopping gRPC server")

		done := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			s.logger.Warn("Context deadline exceeded, forcing gRPC stop")
			s.grpcServer.Stop()
		}
	}()

	wg.Wait()
	close(errChan)
	return <-errChan
}

func (s *serverImpl) RegisterHTTPHandler(pattern string, handler http.Handler) {
	s.httpMux.Handle(pattern, handler)
}

func (s *serverImpl) RegisterGRPCService(desc *grpc.ServiceDesc, impl interface{}) {
	s.grpcServer.RegisterService(desc, impl)
	s.health.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

func (s *serverImpl) SetServing(service string, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, st)
}

func (s *serverImpl) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := s.health.Check(r.Context(), &healthpb.HealthCheckRequest{})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		writeError(w, http.StatusServiceUnavailable, "NOT_SERVING", "service is not serving")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
