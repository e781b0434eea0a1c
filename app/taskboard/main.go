package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/taskboard/app/taskboard/api"
	"github.com/jrazmi/taskboard/app/taskboard/config"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo"
	"github.com/jrazmi/taskboard/core/services/credentials"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/telemetry"
)

var build = "develop"
var appName = "TASKBOARD"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("loading env:", err)
		os.Exit(1)
	}

	tel := telemetry.NewTelemetry()
	log, err := logger.NewFromEnv(appName,
		logger.WithService(appName),
		logger.WithTraceID(tel.GetTraceID),
	)
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, tel); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// :*: START DATABASES :*:
	storeCfg, err := config.LoadStore(appName)
	if err != nil {
		return err
	}
	locale, err := storeCfg.Locale()
	if err != nil {
		return err
	}

	stores, err := openStores(ctx, log, storeCfg)
	if err != nil {
		return err
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		stores.close()
	}()
	// END DATABASES //

	// REPOSITORIES //
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	tasks := tasksrepo.NewRepository(log, stores.tasks, tasksrepo.WithEngine(tasksrepo.NewEngine(locale)))
	users := usersrepo.NewRepository(log, stores.users)

	credCfg, err := credentials.LoadConfig(appName)
	if err != nil {
		return err
	}
	creds, err := credentials.NewService(log, users, credCfg)
	if err != nil {
		return err
	}
	// END REPOSITORIES //

	var webCfg web.HandlerOptions
	if err := environment.ParseEnvTags(appName, &webCfg); err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}

	siteCfg := config.Taskboard{
		Build:     build,
		Logger:    log,
		Telemetry: tel,
		Repositories: config.Repositories{
			Tasks: tasks,
		},
		Services: config.Services{
			Credentials: creds,
		},
		CORSOrigins: webCfg.CORSOrigins,
		HealthCheck: stores.healthCheck,
	}

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(api.Handler(siteCfg)),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
	if err := server.Run(ctx); err != nil {
		return err
	}
	log.InfoContext(ctx, "shutdown", "status", "shutdown complete")
	return nil
}
