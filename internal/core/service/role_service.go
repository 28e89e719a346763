package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/facturapp/billing-system/internal/core/domain"
	"github.com/facturapp/billing-system/internal/core/ports"
)

// RoleService manages roles and their permission matrices.
type RoleService struct {
	roles  ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, logger: logger}
}

func (s *RoleService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidRoleName
	}

	role, err := s.roles.Create(ctx, &domain.Role{Name: name})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("rol_id", role.ID).Str("name", role.Name).Msg("role created")
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("rol_id", id).Msg("role deleted")
	return nil
}

func (s *RoleService) GetPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error) {
	return s.roles.GetPrivileges(ctx, roleID)
}

// UpdatePrivileges replaces the matrix wholesale. The role reference comes
// from the URL, never from the body, and unknown grant keys were already
// dropped on decode.
func (s *RoleService) UpdatePrivileges(ctx context.Context, roleID string, set *domain.PrivilegeSet) (*domain.PrivilegeSet, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	set.RoleID = role.ID
	set.RoleName = role.Name
	if set.Grants == nil {
		set.Grants = map[string]bool{}
	}

	if err := s.roles.SavePrivileges(ctx, set); err != nil {
		return nil, err
	}

	s.logger.Info().Str("rol_id", role.ID).Int("grants", len(set.Grants)).Msg("privileges updated")
	return set, nil
}
