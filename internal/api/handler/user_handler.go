package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facturapp/billing-system/internal/core/domain"
	"github.com/facturapp/billing-system/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns every console account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Delete removes a console account. Deleting yourself is rejected so an
// administrator cannot lock the console empty by accident.
//
// @Summary      Delete a user
// @Tags         users
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	callerID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	targetID := c.Param("userId")
	if targetID == callerID {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot delete the current account")
	}

	if err := h.userService.DeleteUser(c.Request().Context(), targetID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
