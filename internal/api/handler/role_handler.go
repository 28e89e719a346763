package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facturapp/billing-system/internal/api/metrics"
	"github.com/facturapp/billing-system/internal/core/domain"
	"github.com/facturapp/billing-system/internal/core/ports"
)

type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type createRoleRequest struct {
	Name string `json:"name" validate:"required"`
}

// List returns every role.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200  {array}  domain.Role
// @Router       /users-rol [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roleService.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return c.JSON(http.StatusOK, roles)
}

// Create adds a role with an all-false permission matrix.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role name"
// @Success      201   {object}  domain.Role
// @Failure      409   {object}  map[string]string
// @Router       /users-rol [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Delete removes a role and its matrix.
//
// @Summary      Delete a role
// @Tags         roles
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users-rol/{roleId} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.roleService.DeleteRole(c.Request().Context(), c.Param("roleId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPrivileges returns the permission matrix for one role — the endpoint
// the console's privilege cache lives on.
//
// @Summary      Get a role's permission matrix
// @Tags         roles
// @Produce      json
// @Success      200  {object}  domain.PrivilegeSet
// @Failure      404  {object}  map[string]string
// @Router       /users-rol/{roleId}/privileges [get]
func (h *RoleHandler) GetPrivileges(c echo.Context) error {
	set, err := h.roleService.GetPrivileges(c.Request().Context(), c.Param("roleId"))
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			metrics.PrivilegeReadsTotal.WithLabelValues("miss").Inc()
		}
		return err
	}

	metrics.PrivilegeReadsTotal.WithLabelValues("hit").Inc()
	return c.JSON(http.StatusOK, set)
}

// UpdatePrivileges replaces the permission matrix for one role.
//
// @Summary      Replace a role's permission matrix
// @Tags         roles
// @Accept       json
// @Produce      json
// @Success      200  {object}  domain.PrivilegeSet
// @Failure      404  {object}  map[string]string
// @Router       /users-rol/{roleId}/privileges [put]
func (h *RoleHandler) UpdatePrivileges(c echo.Context) error {
	var set domain.PrivilegeSet
	if err := c.Bind(&set); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.roleService.UpdatePrivileges(c.Request().Context(), c.Param("roleId"), &set)
	if err != nil {
		return err
	}

	metrics.PrivilegeUpdatesTotal.Inc()
	return c.JSON(http.StatusOK, updated)
}
