package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both identities must
// be present, otherwise the JWT is structurally valid but operationally
// unusable — reject with 401.
func ctxClaims(c echo.Context) (userID, roleID string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roleID, _ = c.Get("rol_id").(string)
	if roleID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing role identity")
	}

	return userID, roleID, nil
}
