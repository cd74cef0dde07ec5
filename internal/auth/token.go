package auth

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

var (
	ErrMissingToken = fmt.Errorf("%w: missing token", rpcstatus.ErrUnauthenticated)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", rpcstatus.ErrUnauthenticated)
)

const (
	DefaultIssuer   = "chat_server"
	DefaultAudience = "chat_web"

	PrivateKeyFile = "encoding.pem"
	PublicKeyFile  = "decoding.pem"
)

// Verifier checks EdDSA signed tokens against a public key.
type Verifier struct {
	key      crypto.PublicKey
	issuer   string
	audience string
	leeway   time.Duration
}

// NewVerifier parses a PEM encoded Ed25519 public key.
func NewVerifier(publicPEM []byte, issuer, audience string) (*Verifier, error) {
	key, err := jwt.ParseEdPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return &Verifier{
		key:      key,
		issuer:   issuer,
		audience: audience,
		leeway:   5 * time.Second,
	}, nil
}

// LoadVerifier reads the public key from path.
func LoadVerifier(path, issuer, audience string) (*Verifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	return NewVerifier(data, issuer, audience)
}

// Verify parses token and validates its signature, issuer and audience.
// A leading "Bearer " is accepted.
func (v *Verifier) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Signer issues tokens. It is used by the client tool and by tests; the
// services themselves only verify.
type Signer struct {
	key      crypto.PrivateKey
	issuer   string
	audience string
	ttl      time.Duration
}

// NewSigner parses a PEM encoded Ed25519 private key.
func NewSigner(privatePEM []byte, issuer, audience string, ttl time.Duration) (*Signer, error) {
	key, err := jwt.ParseEdPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Signer{key: key, issuer: issuer, audience: audience, ttl: ttl}, nil
}

// LoadSigner reads the private key from path.
func LoadSigner(path, issuer, audience string, ttl time.Duration) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return NewSigner(data, issuer, audience, ttl)
}

// Sign issues a token for id.
func (s *Signer) Sign(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    id.ID,
		WsID:      id.WsID,
		Fullname:  id.Fullname,
		Email:     id.Email,
		CreatedAt: id.CreatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   fmt.Sprint(id.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.key)
}

// GenerateKeyPair returns a fresh Ed25519 key pair as PKCS8 and PKIX PEM blocks.
func GenerateKeyPair() (privatePEM, publicPEM []byte, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, nil, err
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privatePEM, publicPEM, nil
}

// WriteKeyPair generates a key pair into dir. Existing files are not overwritten.
func WriteKeyPair(dir string) (privatePath, publicPath string, err error) {
	privatePath = filepath.Join(dir, PrivateKeyFile)
	publicPath = filepath.Join(dir, PublicKeyFile)
	for _, p := range []string{privatePath, publicPath} {
		if _, err := os.Stat(p); err == nil {
			return "", "", fmt.Errorf("refusing to overwrite %s", p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}
	}

	priv, pub, err := GenerateKeyPair()
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(privatePath, priv, 0600); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(publicPath, pub, 0644); err != nil {
		return "", "", err
	}
	return privatePath, publicPath, nil
}
