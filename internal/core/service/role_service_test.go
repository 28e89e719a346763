package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/facturapp/billing-system/internal/core/domain"
)

func newRoleFixture() (*RoleService, *stubRoleRepo) {
	repo := newStubRoleRepo()
	return NewRoleService(repo, zerolog.Nop()), repo
}

func TestRoleService_CreateRole_SeedsEmptyMatrix(t *testing.T) {
	svc, _ := newRoleFixture()

	role, err := svc.CreateRole(context.Background(), " CAJERO ")
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if role.Name != "CAJERO" {
		t.Fatalf("name not trimmed: %q", role.Name)
	}

	set, err := svc.GetPrivileges(context.Background(), role.ID)
	if err != nil {
		t.Fatalf("get privileges: %v", err)
	}
	for _, name := range domain.PermissionNames {
		if set.Allows(name) {
			t.Fatalf("fresh role must grant nothing, got %s", name)
		}
	}
}

func TestRoleService_CreateRole_Validation(t *testing.T) {
	svc, _ := newRoleFixture()

	if _, err := svc.CreateRole(context.Background(), "  "); err != domain.ErrInvalidRoleName {
		t.Fatalf("expected ErrInvalidRoleName, got %v", err)
	}

	if _, err := svc.CreateRole(context.Background(), "ADMIN"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateRole(context.Background(), "ADMIN"); err != domain.ErrRoleExists {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
}

func TestRoleService_UpdatePrivileges_ReplacesWholesale(t *testing.T) {
	svc, _ := newRoleFixture()
	role, err := svc.CreateRole(context.Background(), "VENDEDOR")
	if err != nil {
		t.Fatalf("create role: %v", err)
	}

	first := &domain.PrivilegeSet{Grants: map[string]bool{
		domain.PermCreateBill: true,
		domain.PermPrintBill:  true,
	}}
	if _, err := svc.UpdatePrivileges(context.Background(), role.ID, first); err != nil {
		t.Fatalf("update privileges: %v", err)
	}

	// Second update replaces, never merges.
	second := &domain.PrivilegeSet{Grants: map[string]bool{domain.PermViewHistory: true}}
	updated, err := svc.UpdatePrivileges(context.Background(), role.ID, second)
	if err != nil {
		t.Fatalf("update privileges: %v", err)
	}
	if updated.RoleID != role.ID || updated.RoleName != "VENDEDOR" {
		t.Fatalf("role reference not enforced: %+v", updated)
	}

	set, err := svc.GetPrivileges(context.Background(), role.ID)
	if err != nil {
		t.Fatalf("get privileges: %v", err)
	}
	if set.Allows(domain.PermCreateBill) || set.Allows(domain.PermPrintBill) {
		t.Fatalf("old grants survived the replace: %+v", set.Grants)
	}
	if !set.Allows(domain.PermViewHistory) {
		t.Fatalf("new grant missing: %+v", set.Grants)
	}
}

func TestRoleService_UpdatePrivileges_UnknownRole(t *testing.T) {
	svc, _ := newRoleFixture()

	set := &domain.PrivilegeSet{Grants: map[string]bool{domain.PermCreateBill: true}}
	if _, err := svc.UpdatePrivileges(context.Background(), "r-missing", set); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRoleService_DeleteRole(t *testing.T) {
	svc, _ := newRoleFixture()
	role, err := svc.CreateRole(context.Background(), "TEMP")
	if err != nil {
		t.Fatalf("create role: %v", err)
	}

	if err := svc.DeleteRole(context.Background(), role.ID); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	if _, err := svc.GetPrivileges(context.Background(), role.ID); err != domain.ErrRoleNotFound {
		t.Fatalf("expected matrix gone with role, got %v", err)
	}
}
