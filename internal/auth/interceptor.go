package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/syntrixbase/crm/internal/rpcstatus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const authorizationKey = "authorization"

// Gate rejects unauthenticated calls to the protected methods and attaches the
// verified claims to the context of the rest.
type Gate struct {
	verifier *Verifier
	prefixes []string
	logger   *slog.Logger
}

// NewGate protects every method whose full name starts with one of prefixes,
// e.g. "/crm.v1.Crm/". With no prefixes every method is protected.
func NewGate(v *Verifier, prefixes ...string) *Gate {
	return &Gate{
		verifier: v,
		prefixes: prefixes,
		logger:   slog.Default().With("component", "auth"),
	}
}

func (g *Gate) protects(method string) bool {
	if len(g.prefixes) == 0 {
		return true
	}
	for _, p := range g.prefixes {
		if strings.HasPrefix(method, p) {
			return true
		}
	}
	return false
}

// Authenticate verifies the token carried in the incoming metadata.
func (g *Gate) Authenticate(ctx context.Context) (context.Context, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get(authorizationKey)
	if len(values) == 0 {
		return nil, ErrMissingToken
	}
	claims, err := g.verifier.Verify(values[0])
	if err != nil {
		return nil, err
	}
	return WithIdentity(ctx, claims), nil
}

// UnaryInterceptor authenticates unary calls.
func (g *Gate) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !g.protects(info.FullMethod) {
			return handler(ctx, req)
		}
		authed, err := g.Authenticate(ctx)
		if err != nil {
			g.logger.Warn("Rejected call", "method", info.FullMethod, "error", err)
			return nil, rpcstatus.ToStatus(err)
		}
		return handler(authed, req)
	}
}

// StreamInterceptor authenticates streaming calls.
func (g *Gate) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if !g.protects(info.FullMethod) {
			return handler(srv, ss)
		}
		authed, err := g.Authenticate(ss.Context())
		if err != nil {
			g.logger.Warn("Rejected stream", "method", info.FullMethod, "error", err)
			return rpcstatus.ToStatus(err)
		}
		return handler(srv, &authedStream{ServerStream: ss, ctx: authed})
	}
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authedStream) Context() context.Context {
	return s.ctx
}

// TokenCredentials attaches a bearer token to every outgoing call.
type TokenCredentials struct {
	Token    string
	Insecure bool
}

func (c TokenCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{authorizationKey: "Bearer " + c.Token}, nil
}

func (c TokenCredentials) RequireTransportSecurity() bool {
	return !c.Insecure
}
