package router

import (
	"fmt"

	"github.com/oksasatya/go-auth-api/config"
	"github.com/oksasatya/go-auth-api/internal/application"
	"github.com/oksasatya/go-auth-api/internal/container"
	repo "github.com/oksasatya/go-auth-api/internal/domain/repository"
	"github.com/oksasatya/go-auth-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-auth-api/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/go-auth-api/internal/infrastructure/redis"
	handlers "github.com/oksasatya/go-auth-api/internal/interface/http"
	"github.com/oksasatya/go-auth-api/internal/router/modules"
)

type AuthModuleDeps struct {
	Accounts repo.AccountRepository
	Tokens   repo.TokenRepository
	Service  *application.Service
	Handler  *handlers.AuthHandler
}

// NewAccountRepository picks the account store for driver.
func NewAccountRepository(driver string) (repo.AccountRepository, error) {
	switch driver {
	case config.DriverPostgres:
		if container.GetPGPool() == nil {
			return nil, fmt.Errorf("storage driver %q: postgres pool not initialized", driver)
		}
		return pginfra.NewAccountRepository(container.GetPGPool()), nil
	case config.DriverMemory:
		return memory.NewAccountRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// NewTokenRepository picks the token store for driver.
func NewTokenRepository(driver string) (repo.TokenRepository, error) {
	switch driver {
	case config.DriverPostgres:
		if container.GetPGPool() == nil {
			return nil, fmt.Errorf("token store %q: postgres pool not initialized", driver)
		}
		return pginfra.NewTokenRepository(container.GetPGPool()), nil
	case config.DriverRedis:
		if container.GetRedis() == nil {
			return nil, fmt.Errorf("token store %q: redis client not initialized", driver)
		}
		return redisinfra.NewTokenRepository(container.GetRedis()), nil
	case config.DriverMemory:
		return memory.NewTokenRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", driver)
	}
}

func buildAuthDeps() (AuthModuleDeps, error) {
	cfg := container.GetConfig()

	accounts, err := NewAccountRepository(cfg.StorageDriver)
	if err != nil {
		return AuthModuleDeps{}, err
	}
	tokens, err := NewTokenRepository(cfg.TokenDriver())
	if err != nil {
		return AuthModuleDeps{}, err
	}

	opts := []application.Option{application.WithTokenTTL(cfg.TokenTTL)}
	// both stores in postgres: sign-up writes share one transaction
	if cfg.StorageDriver == config.DriverPostgres && cfg.TokenDriver() == config.DriverPostgres {
		opts = append(opts, application.WithTransactor(pginfra.NewTransactor(container.GetPGPool())))
	}

	service, err := application.NewService(
		accounts,
		tokens,
		container.GetHasher(),
		container.GetLogger(),
		opts...,
	)
	if err != nil {
		return AuthModuleDeps{}, err
	}

	handler := handlers.NewAuthHandler(service, container.GetLogger())

	return AuthModuleDeps{
		Accounts: accounts,
		Tokens:   tokens,
		Service:  service,
		Handler:  handler,
	}, nil
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) error {
	authDeps, err := buildAuthDeps()
	if err != nil {
		return err
	}
	r.Add(modules.NewAuthModule(authDeps.Handler, authDeps.Service, container.GetLogger()))

	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return nil
}
