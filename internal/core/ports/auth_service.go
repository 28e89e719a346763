package ports

import (
	"context"
	"time"

	"github.com/facturapp/billing-system/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	TokenType string
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, name, email, password, roleID string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
}

// TokenDenylist records revoked token ids until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
