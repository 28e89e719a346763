package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/facturapp/billing-system/internal/api/handler"
	"github.com/facturapp/billing-system/internal/api/middleware"
	"github.com/facturapp/billing-system/internal/core/domain"
	"github.com/facturapp/billing-system/internal/core/ports"
	"github.com/facturapp/billing-system/pkg/logger"
)

// RouterDeps bundles everything the router needs to register routes.
type RouterDeps struct {
	JWTSecret   string
	Auth        ports.AuthService
	Roles       ports.RoleService
	Users       ports.UserService
	Privileges  middleware.PrivilegeReader
	Denylist    ports.TokenDenylist
	MongoDB     *mongo.Database
	RedisClient *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echoprometheus.NewMiddleware("billing"))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.MongoDB, deps.RedisClient)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	authHandler := handler.NewAuthHandler(deps.Auth)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	userHandler := handler.NewUserHandler(deps.Users)

	// --- Public auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)

	// --- Authenticated routes ---
	authed := e.Group("", middleware.Auth(deps.JWTSecret, deps.Denylist))
	authed.POST("/auth/logout", authHandler.Logout)

	// Role management and the privilege matrix.
	authed.GET("/users-rol", roleHandler.List)
	authed.POST("/users-rol", roleHandler.Create,
		middleware.Permit(deps.Privileges, domain.PermCreateRol))
	authed.DELETE("/users-rol/:roleId", roleHandler.Delete,
		middleware.Permit(deps.Privileges, domain.PermDeleteRol))
	authed.GET("/users-rol/:roleId/privileges", roleHandler.GetPrivileges)
	authed.PUT("/users-rol/:roleId/privileges", roleHandler.UpdatePrivileges,
		middleware.Permit(deps.Privileges, domain.PermCreateRol))

	// User management.
	authed.GET("/users", userHandler.List)
	authed.POST("/users", authHandler.Register,
		middleware.Permit(deps.Privileges, domain.PermCreateUser))
	authed.DELETE("/users/:userId", userHandler.Delete,
		middleware.Permit(deps.Privileges, domain.PermDeleteUser))

	return e
}
