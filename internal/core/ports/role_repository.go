package ports

import (
	"context"

	"github.com/facturapp/billing-system/internal/core/domain"
)

// RoleRepository defines the persistence interface for roles and their
// permission matrices. A role always has exactly one matrix; creating a role
// seeds an all-false one.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Delete(ctx context.Context, id string) error

	GetPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error)
	SavePrivileges(ctx context.Context, set *domain.PrivilegeSet) error
}
