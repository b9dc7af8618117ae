package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-api/config"
	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-auth-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-auth-api/pkg/helpers"
)

// Seeds SEED_USERS customer accounts (load_user_<i>@example.com) sharing
// SEED_PASSWORD, for load tests. Re-running skips accounts that exist.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 4})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	hasher := helpers.NewBcryptHasher(cfg.BcryptCost)
	created, skipped, err := seedAccounts(ctx, pginfra.NewAccountRepository(pool), hasher, cfg.SeedUsers, cfg.SeedPassword, logger)
	if err != nil {
		log.Fatalf("failed to seed accounts: %v", err)
	}
	logger.WithFields(logrus.Fields{"created": created, "skipped": skipped}).Info("seeding finished")
}

func seedEmail(i int) string {
	return fmt.Sprintf("load_user_%d@example.com", i)
}

// seedAccounts hashes password once and inserts n customers with it.
func seedAccounts(ctx context.Context, accounts repo.AccountRepository, hasher *helpers.BcryptHasher, n int, password string, logger *logrus.Logger) (created, skipped int, err error) {
	if n <= 0 {
		return 0, 0, nil
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return 0, 0, fmt.Errorf("hash seed password: %w", err)
	}

	for i := 1; i <= n; i++ {
		acc := entity.NewCustomer(fmt.Sprintf("Load User %d", i), seedEmail(i), hash)
		if err := accounts.Insert(ctx, acc); err != nil {
			if errors.Is(err, repo.ErrDuplicateEmail) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("insert %s: %w", acc.Email, err)
		}
		created++
		logger.WithField("email", acc.Email).Debug("seeded account")
	}
	return created, skipped, nil
}
