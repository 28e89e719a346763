package ports

import (
	"context"

	"github.com/facturapp/billing-system/internal/core/domain"
)

type RoleService interface {
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	DeleteRole(ctx context.Context, id string) error

	GetPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error)
	UpdatePrivileges(ctx context.Context, roleID string, set *domain.PrivilegeSet) (*domain.PrivilegeSet, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
