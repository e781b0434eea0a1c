package main

import (
	"context"
	"fmt"

	"github.com/jrazmi/taskboard/app/taskboard/config"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo/stores/userssqlitestore"
	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/infrastructure/sqlitedb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// datastores is what the configured driver hands back.
type datastores struct {
	tasks       tasksrepo.Storer
	users       usersrepo.Storer
	healthCheck func(ctx context.Context) error
	close       func()
}

func openStores(ctx context.Context, log *logger.Logger, cfg config.Store) (datastores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log.Logger))
		if err != nil {
			return datastores{}, fmt.Errorf("configuring postgres support: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgresdb.Migrate(ctx, pg, log.Logger); err != nil {
				pg.Close()
				return datastores{}, fmt.Errorf("migrating postgres: %w", err)
			}
		}
		log.InfoContext(ctx, "init", "service", "postgres")
		return datastores{
			tasks: taskspgxstore.NewStore(log, pg),
			users: userspgxstore.NewStore(log, pg),
			healthCheck: func(ctx context.Context) error {
				return postgresdb.StatusCheck(ctx, pg)
			},
			close: pg.Close,
		}, nil

	default:
		db, err := sqlitedb.NewFromEnv(appName)
		if err != nil {
			return datastores{}, fmt.Errorf("configuring sqlite support: %w", err)
		}
		if cfg.AutoMigrate {
			if err := sqlitedb.Migrate(ctx, db, log.Logger); err != nil {
				db.Close()
				return datastores{}, fmt.Errorf("migrating sqlite: %w", err)
			}
		}
		log.InfoContext(ctx, "init", "service", "sqlite")
		return datastores{
			tasks: taskssqlitestore.NewStore(log, db),
			users: userssqlitestore.NewStore(log, db),
			healthCheck: func(ctx context.Context) error {
				return sqlitedb.StatusCheck(ctx, db)
			},
			close: func() { db.Close() },
		}, nil
	}
}
