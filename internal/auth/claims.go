package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/syntrixbase/crm/internal/ctxkeys"
)

// Identity is the authenticated caller.
type Identity struct {
	ID        int64     `json:"id"`
	WsID      int64     `json:"ws_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Claims is the token payload: the identity plus the registered claims.
type Claims struct {
	UserID    int64     `json:"id"`
	WsID      int64     `json:"ws_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	jwt.RegisteredClaims
}

// Identity extracts the caller from the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		ID:        c.UserID,
		WsID:      c.WsID,
		Fullname:  c.Fullname,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

// WithIdentity stores the verified claims in ctx.
func WithIdentity(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxkeys.KeyClaims, c)
}

// FromContext returns the caller identity attached by the interceptors.
func FromContext(ctx context.Context) (Identity, bool) {
	c, ok := ctx.Value(ctxkeys.KeyClaims).(*Claims)
	if !ok || c == nil {
		return Identity{}, false
	}
	return c.Identity(), true
}
