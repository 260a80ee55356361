// @title           Identity Accounts API
// @version         1.0
// @description     Account registration, login with lockout, and account administration.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
package main

//go:generate swag init -d ../../ -g cmd/accounts/main.go -o ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/identity-system/internal/api"
	"github.com/99minutos/identity-system/internal/infrastructure/config"
	mongostore "github.com/99minutos/identity-system/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/identity-system/internal/infrastructure/db/redis"
	"github.com/99minutos/identity-system/internal/infrastructure/queue"
	"github.com/99minutos/identity-system/internal/infrastructure/security"
	"github.com/99minutos/identity-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts",
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("accounts service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	store, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	accounts := mongostore.NewAccountRepository(store.DB)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return err
	}
	events := mongostore.NewEventRepository(store.DB)
	if err := events.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	tokens, err := security.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}

	audit := queue.NewDispatcher(cfg.AuditWorkers, events, logger.Component("audit"))
	audit.Start(ctx)

	e := api.NewRouter(api.Deps{
		Config: cfg,
		Mongo:  store,
		Redis:  rdb,
		Tokens: tokens,
		Hasher: security.NewBcryptHasher(bcrypt.DefaultCost),
		Audit:  audit,
		Log:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("accounts service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
