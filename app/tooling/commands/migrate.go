package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/infrastructure/sqlitedb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Migrate brings the schema of the store selected by driver up to date.
// Connection settings come from the environment under prefix, the same
// variables the service reads.
func Migrate(ctx context.Context, log *logger.Logger, prefix, driver string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	log.InfoContext(ctx, "migration started", "driver", driver)

	switch driver {
	case "postgres":
		pool, err := postgresdb.NewFromEnv(prefix, postgresdb.WithLogger(log.Logger))
		if err != nil {
			return fmt.Errorf("configuring postgres support: %w", err)
		}
		defer pool.Close()

		if err := postgresdb.StatusCheck(ctx, pool); err != nil {
			return fmt.Errorf("database status check failed: %w", err)
		}
		if err := postgresdb.Migrate(ctx, pool, log.Logger); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

	case "sqlite":
		db, err := sqlitedb.NewFromEnv(prefix)
		if err != nil {
			return fmt.Errorf("configuring sqlite support: %w", err)
		}
		defer db.Close()

		if err := sqlitedb.Migrate(ctx, db, log.Logger); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

	default:
		return fmt.Errorf("unknown driver %q, expected sqlite or postgres", driver)
	}

	log.InfoContext(ctx, "migrations completed successfully", "driver", driver)
	return nil
}
