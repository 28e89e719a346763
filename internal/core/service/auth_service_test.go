package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturapp/billing-system/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by email
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = "u-" + strconv.Itoa(r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubRoleRepo struct {
	roles      map[string]*domain.Role
	privileges map[string]*domain.PrivilegeSet
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{
		roles:      make(map[string]*domain.Role),
		privileges: make(map[string]*domain.PrivilegeSet),
	}
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	created := &domain.Role{ID: "r-" + role.Name, Name: role.Name}
	r.roles[created.ID] = created
	r.privileges[created.ID] = &domain.PrivilegeSet{RoleID: created.ID, RoleName: created.Name, Grants: map[string]bool{}}
	return created, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := r.roles[id]; ok {
		return role, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) List(context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	delete(r.privileges, id)
	return nil
}

func (r *stubRoleRepo) GetPrivileges(_ context.Context, roleID string) (*domain.PrivilegeSet, error) {
	if set, ok := r.privileges[roleID]; ok {
		return set, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) SavePrivileges(_ context.Context, set *domain.PrivilegeSet) error {
	if _, ok := r.roles[set.RoleID]; !ok {
		return domain.ErrRoleNotFound
	}
	r.privileges[set.RoleID] = set
	return nil
}

type stubDenylist struct {
	revoked map[string]time.Duration
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.revoked[jti] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := d.revoked[jti]
	return ok, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubRoleRepo, *stubDenylist) {
	t.Helper()
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	denylist := newStubDenylist()
	if _, err := roles.Create(context.Background(), &domain.Role{Name: "ADMIN"}); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return NewAuthService(users, roles, denylist, "secret", time.Hour), users, roles, denylist
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123", "r-ADMIN")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	// Role name is resolved from the repository, not trusted from input.
	if user.RoleName != "ADMIN" || user.RoleID != "r-ADMIN" {
		t.Fatalf("unexpected role fields: %+v", user)
	}
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass", "r-missing"); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "", "a@example.com", "pass", "r-ADMIN"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_IssuesIdentityClaims(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret", "r-ADMIN")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.TokenType != domain.DefaultTokenType {
		t.Fatalf("unexpected token type: %q", result.TokenType)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != registered.ID || claims["name"] != "Carol" {
		t.Fatalf("identity claims wrong: %v", claims)
	}
	if claims["role"] != "ADMIN" || claims["rolId"] != "r-ADMIN" {
		t.Fatalf("role claims wrong: %v", claims)
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatalf("expected jti claim")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	if _, err := svc.Register(context.Background(), "Dave", "dave@example.com", "right", "r-ADMIN"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dave@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc, _, _, denylist := newAuthFixture(t)
	if _, err := svc.Register(context.Background(), "Erin", "erin@example.com", "pw", "r-ADMIN"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	result, err := svc.Login(context.Background(), "erin@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(denylist.revoked) != 1 {
		t.Fatalf("expected one revoked jti, got %d", len(denylist.revoked))
	}
	for _, ttl := range denylist.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected revocation ttl: %v", ttl)
		}
	}
}

func TestAuthService_Logout_RejectsForeignToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"jti": "x"}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := svc.Logout(context.Background(), forged); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
