package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facturapp/billing-system/internal/api/metrics"
	"github.com/facturapp/billing-system/internal/core/domain"
)

// PrivilegeReader is the slice of the role service the gate needs.
type PrivilegeReader interface {
	GetPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error)
}

// Permit enforces that the caller's role holds every named privilege. It
// runs after Auth, reading the rol_id claim from context; the privilege
// matrix is looked up per request so edits take effect without re-login.
func Permit(privileges PrivilegeReader, names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleID, _ := c.Get("rol_id").(string)
			if roleID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing role identity")
			}

			set, err := privileges.GetPrivileges(c.Request().Context(), roleID)
			if err != nil {
				if err == domain.ErrRoleNotFound {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
				return echo.NewHTTPError(http.StatusServiceUnavailable, "privilege lookup unavailable")
			}

			for _, name := range names {
				if !set.Allows(name) {
					metrics.PermissionDenialsTotal.WithLabelValues(name).Inc()
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			return next(c)
		}
	}
}
