package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturapp/billing-system/internal/core/domain"
	"github.com/facturapp/billing-system/internal/core/ports"
)

// AuthService implements registration, login and token revocation.
type AuthService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, roles: roles, denylist: denylist, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, roleID string) (*domain.User, error) {
	if name == "" || email == "" || password == "" || roleID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleName:     role.Name,
		RoleID:       role.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		Token:     token,
		TokenType: domain.DefaultTokenType,
		User:      user,
	}, nil
}

// Logout revokes the token until its natural expiry. Only tokens we issued
// are accepted; everything else maps to invalid credentials.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.ErrInvalidCredentials
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return domain.ErrInvalidCredentials
	}

	ttl := s.tokenTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		// Already expired; nothing to revoke.
		return nil
	}

	if err := s.denylist.Revoke(ctx, jti, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// generateToken issues the HS256 bearer token whose payload carries the
// identity claims the console decodes client-side (sub, name, role, rolId).
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"role":  user.RoleName,
		"rolId": user.RoleID,
		"jti":   newTokenID(),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
