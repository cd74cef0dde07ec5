package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newPair(t *testing.T, issuer, audience string) (*Signer, *Verifier) {
	t.Helper()
	priv, pub, err := GenerateKeyPair()
	require.NoError(t, err)
	s, err := NewSigner(priv, issuer, audience, time.Hour)
	require.NoError(t, err)
	v, err := NewVerifier(pub, DefaultIssuer, DefaultAudience)
	require.NoError(t, err)
	return s, v
}

var alice = Identity{ID: 1, WsID: 2, Fullname: "Alice", Email: "alice@example.com", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

func TestSignVerify(t *testing.T) {
	s, v := newPair(t, DefaultIssuer, DefaultAudience)
	token, err := s.Sign(alice)
	require.NoError(t, err)

	claims, err := v.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.Identity())

	claims, err = v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestVerify_Rejects(t *testing.T) {
	s, v := newPair(t, DefaultIssuer, DefaultAudience)

	_, err := v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = v.Verify("Bearer not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIss, _ := newPair(t, "someone_else", DefaultAudience)
	token, err := wrongIss.Sign(alice)
	require.NoError(t, err)
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "signed by another key and issuer")

	other, err := NewSigner(mustPrivate(t), DefaultIssuer, "mobile", time.Hour)
	require.NoError(t, err)
	token, err = other.Sign(alice)
	require.NoError(t, err)
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	good, err := s.Sign(alice)
	require.NoError(t, err)
	_, err = v.Verify(good[:len(good)-4] + "AAAA")
	assert.ErrorIs(t, err, rpcstatus.ErrUnauthenticated)
}

func mustPrivate(t *testing.T) []byte {
	priv, _, err := GenerateKeyPair()
	require.NoError(t, err)
	return priv
}

func TestWriteKeyPair(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")
	privPath, pubPath, err := WriteKeyPair(dir)
	require.NoError(t, err)

	s, err := LoadSigner(privPath, DefaultIssuer, DefaultAudience, 0)
	require.NoError(t, err)
	v, err := LoadVerifier(pubPath, DefaultIssuer, DefaultAudience)
	require.NoError(t, err)

	token, err := s.Sign(alice)
	require.NoError(t, err)
	_, err = v.Verify(token)
	assert.NoError(t, err)

	info, err := os.Stat(privPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, _, err = WriteKeyPair(dir)
	assert.Error(t, err)
}

func TestGate_Unary(t *testing.T) {
	s, v := newPair(t, DefaultIssuer, DefaultAudience)
	gate := NewGate(v, "/crm.v1.Crm/")
	interceptor := gate.UnaryInterceptor()

	var seen Identity
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = FromContext(ctx)
		return "ok", nil
	}
	protected := &grpc.UnaryServerInfo{FullMethod: "/crm.v1.Crm/Welcome"}

	_, err := interceptor(context.Background(), nil, protected, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := s.Sign(alice)
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	resp, err := interceptor(ctx, nil, protected, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, alice.Email, seen.Email)

	open := &grpc.UnaryServerInfo{FullMethod: "/crm.metadata.v1.Metadata/Materialize"}
	_, err = interceptor(context.Background(), nil, open, handler)
	assert.NoError(t, err)
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func TestGate_Stream(t *testing.T) {
	s, v := newPair(t, DefaultIssuer, DefaultAudience)
	interceptor := NewGate(v).StreamInterceptor()
	info := &grpc.StreamServerInfo{FullMethod: "/crm.notification.v1.Notification/Send"}

	var authed bool
	handler := func(srv interface{}, ss grpc.ServerStream) error {
		_, authed = FromContext(ss.Context())
		return nil
	}

	err := interceptor(nil, &fakeStream{ctx: context.Background()}, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := s.Sign(alice)
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", token))
	require.NoError(t, interceptor(nil, &fakeStream{ctx: ctx}, info, handler))
	assert.True(t, authed)
}

func TestTokenCredentials(t *testing.T) {
	md, err := TokenCredentials{Token: "abc", Insecure: true}.GetRequestMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", md["authorization"])
	assert.False(t, TokenCredentials{Insecure: true}.RequireTransportSecurity())
}

func TestConfig_Lifecycle(t *testing.T) {
	var cfg Config
	cfg.Enabled = true
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultIssuer, cfg.Issuer)
	assert.Equal(t, DefaultAudience, cfg.Audience)

	cfg.ResolvePaths("/etc/crm")
	assert.Equal(t, "/etc/crm/keys/decoding.pem", cfg.PublicKeyFile)
	assert.Equal(t, "/etc/crm/keys/encoding.pem", cfg.PrivateKeyFile)
	require.NoError(t, cfg.Validate())

	cfg.PublicKeyFile = ""
	assert.Error(t, cfg.Validate())

	t.Setenv("CRM_AUTH_DISABLED", "true")
	cfg.ApplyEnvOverrides()
	assert.False(t, cfg.Enabled)
	assert.NoError(t, cfg.Validate())
}
