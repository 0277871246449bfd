// Package infrastructure selects the account table backend from configuration.
package infrastructure

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/config"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/internal/infrastructure/csvstore"
	"github.com/oksasatya/account-ledger/internal/infrastructure/gcsstore"
	"github.com/oksasatya/account-ledger/internal/infrastructure/postgres"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

// OpenGateway returns the configured AccountGateway and a release func that
// closes any client it opened. Postgres migrations run before the pool is
// handed out.
func OpenGateway(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repo.AccountGateway, func(), error) {
	switch cfg.LedgerStore {
	case "", "csv":
		logger.WithField("path", cfg.LedgerFile).Info("ledger store: csv file")
		return csvstore.NewFileGateway(cfg.LedgerFile), func() {}, nil

	case "postgres":
		if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:             cfg.PostgresDSN(),
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		logger.Info("ledger store: postgres")
		return postgres.NewAccountGateway(pool), pool.Close, nil

	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, nil, fmt.Errorf("gcs: GCS_BUCKET is required")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs: %w", err)
		}
		logger.WithFields(logrus.Fields{"bucket": cfg.GCSBucket, "object": cfg.GCSLedgerObject}).Info("ledger store: gcs object")
		return gcsstore.NewGateway(client, cfg.GCSBucket, cfg.GCSLedgerObject), func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown LEDGER_STORE %q", cfg.LedgerStore)
}
