package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facturapp/billing-system/internal/api"
	"github.com/facturapp/billing-system/internal/core/service"
	"github.com/facturapp/billing-system/internal/infrastructure/config"
	"github.com/facturapp/billing-system/internal/infrastructure/db/mongo"
	"github.com/facturapp/billing-system/internal/infrastructure/db/redis"
	"github.com/facturapp/billing-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index setup failed")
	}

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongo.NewUserRepository(db)
	roleRepo := mongo.NewRoleRepository(db)
	denylist := redis.NewTokenDenylist(redisClient)

	authService := service.NewAuthService(userRepo, roleRepo, denylist, cfg.JWTSecret, cfg.TokenTTL)
	roleService := service.NewRoleService(roleRepo, logger.Component("roles"))
	userService := service.NewUserService(userRepo, logger.Component("users"))

	e := api.NewRouter(api.RouterDeps{
		JWTSecret:   cfg.JWTSecret,
		Auth:        authService,
		Roles:       roleService,
		Users:       userService,
		Privileges:  roleService,
		Denylist:    denylist,
		MongoDB:     db,
		RedisClient: redisClient,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting billing API")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
