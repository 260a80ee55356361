package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Server holds the settings shared by both services.
type Server struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`
	JWTIssuer string `env:"JWT_ISSUER, default=identity-system"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (s Server) IsDevelopment() bool {
	return s.Env == "development"
}

// Config is the configuration of the owning accounts service.
type Config struct {
	Server

	AllowAdminRegistration bool `env:"ALLOW_ADMIN_REGISTRATION, default=false"`
	AuditWorkers           int  `env:"AUDIT_WORKERS,            default=4"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Throttle ThrottleConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type ThrottleConfig struct {
	Limit  int           `env:"LOGIN_THROTTLE_LIMIT,  default=20"`
	Window time.Duration `env:"LOGIN_THROTTLE_WINDOW, default=1m"`
}

// SupplierConfig is the configuration of the dependent service that gates
// requests on the owning service's account status.
type SupplierConfig struct {
	Server

	AccountServiceURL     string        `env:"ACCOUNT_SERVICE_URL,     required"`
	AccountServiceTimeout time.Duration `env:"ACCOUNT_SERVICE_TIMEOUT, default=3s"`
}

// Load reads the accounts service configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Throttle.Limit <= 0 || cfg.Throttle.Window <= 0 {
		return nil, fmt.Errorf("load config: throttle limit and window must be positive")
	}
	return &cfg, nil
}

// LoadSupplier reads the dependent service configuration.
func LoadSupplier(ctx context.Context) (*SupplierConfig, error) {
	var cfg SupplierConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load supplier config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}
