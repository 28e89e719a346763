package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/facturapp/billing-system/internal/core/ports"
)

// Auth validates the bearer JWT, rejects revoked tokens, and injects the
// identity claims into the echo context.
func Auth(jwtSecret string, denylist ports.TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if denylist != nil {
				jti, _ := claims["jti"].(string)
				if jti != "" {
					revoked, err := denylist.IsRevoked(c.Request().Context(), jti)
					if err != nil {
						return echo.NewHTTPError(http.StatusServiceUnavailable, "token verification unavailable")
					}
					if revoked {
						return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
					}
				}
			}

			c.Set("user_id", claims["sub"])
			c.Set("name", claims["name"])
			c.Set("role", claims["role"])
			c.Set("rol_id", claims["rolId"])

			return next(c)
		}
	}
}
