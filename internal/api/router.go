package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/identity-system/docs"
	"github.com/99minutos/identity-system/internal/api/handler"
	"github.com/99minutos/identity-system/internal/api/middleware"
	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
	"github.com/99minutos/identity-system/internal/core/service"
	"github.com/99minutos/identity-system/internal/infrastructure/config"
	mongostore "github.com/99minutos/identity-system/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/identity-system/internal/infrastructure/db/redis"
	"github.com/99minutos/identity-system/internal/infrastructure/http/handlers"
	"github.com/99minutos/identity-system/internal/infrastructure/security"
)

// Deps are the connections and collaborators the accounts service is built from.
type Deps struct {
	Config *config.Config
	Mongo  *mongostore.Store
	Redis  *goredis.Client
	Tokens *security.JWTService
	Hasher ports.PasswordHasher
	Audit  ports.AuthEventPublisher
	Log    zerolog.Logger

	// Registry receives the HTTP request metrics and backs /metrics.
	// Nil uses the process-wide default registry.
	Registry *prometheus.Registry
}

// MetricsMiddlewareConfig labels request metrics with subsystem and registers
// them on reg, or on the default registerer when reg is nil.
func MetricsMiddlewareConfig(subsystem string, reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: subsystem}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

// MetricsHandlerConfig serves reg, or the default gatherer when reg is nil.
func MetricsHandlerConfig(reg *prometheus.Registry) echoprometheus.HandlerConfig {
	var cfg echoprometheus.HandlerConfig
	if reg != nil {
		cfg.Gatherer = reg
	}
	return cfg
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(MetricsMiddlewareConfig("accounts", deps.Registry)))

	// --- Dependencies ---
	accountRepo := mongostore.NewAccountRepository(deps.Mongo.DB)
	authService := service.NewAuthService(accountRepo, deps.Hasher, deps.Tokens, deps.Log,
		service.WithEventPublisher(deps.Audit),
		service.WithAdminRegistration(deps.Config.AllowAdminRegistration),
	)
	accountService := service.NewAccountService(accountRepo, deps.Audit, deps.Log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)

	throttle := func(scope string) echo.MiddlewareFunc {
		limiter := redisstore.NewAttemptLimiter(deps.Redis, scope, deps.Config.Throttle.Limit, deps.Config.Throttle.Window)
		return middleware.Throttle(limiter, deps.Log)
	}

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, throttle("register"))
	e.POST("/auth/login", authHandler.Login, throttle("login"))

	// --- Account routes: token + still-active account ---
	accounts := e.Group("/accounts",
		middleware.Auth(deps.Tokens),
		middleware.ActiveAccount(accountRepo),
	)
	accounts.GET("/:id/status", accountHandler.Status)

	admin := accounts.Group("", middleware.RBAC(domain.RoleAdmin))
	admin.PUT("/:id/unlock", accountHandler.Unlock)
	admin.PUT("/:id/activate", accountHandler.Activate)
	admin.PUT("/:id/deactivate", accountHandler.Deactivate)
	admin.GET("/locked", accountHandler.ListLocked)
	admin.GET("/active", accountHandler.ListActive)
	admin.GET("/inactive", accountHandler.ListInactive)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readyHandler := handlers.NewReadinessHandler(
		handlers.Probe{Name: "mongodb", Check: deps.Mongo.Ping},
		handlers.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}},
	)

	e.GET("/health", healthHandler.Liveness)       // liveness
	e.GET("/health/ready", readyHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(MetricsHandlerConfig(deps.Registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
