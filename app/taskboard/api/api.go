// Package api assembles the taskboard HTTP surface.
package api

import (
	"context"
	"expvar"
	"net/http"

	"github.com/jrazmi/taskboard/app/taskboard/config"
	"github.com/jrazmi/taskboard/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/bridge/scaffolding/mid"
	"github.com/jrazmi/taskboard/bridge/services/credentialsbridge"
	"github.com/jrazmi/taskboard/infrastructure/web"
)

// Handler builds the full route tree for cfg.
func Handler(cfg config.Taskboard) *web.WebHandler {
	wh := web.NewWebHandler(web.HandlerOptions{},
		web.WithLogging(cfg.Logger.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithCORS(cfg.CORSOrigins),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger),
			mid.Errors(cfg.Logger),
			mid.Metrics(),
			mid.Panics(cfg.Logger),
		),
	)

	wh.GET("/healthz", health(cfg.HealthCheck))
	wh.HandleRaw("GET /debug/vars", expvar.Handler())

	api := wh.Group("/" + config.ApiRoute)

	credentialsbridge.AddHttpRoutes(api, credentialsbridge.Config{
		Log:     cfg.Logger,
		Service: cfg.Services.Credentials,
	})

	tasksrepobridge.AddHttpRoutes(api, tasksrepobridge.Config{
		Log:        cfg.Logger,
		Repository: cfg.Repositories.Tasks,
		Middleware: []web.Middleware{mid.Authenticate(cfg.Services.Credentials)},
	})

	return wh
}

type status struct {
	Status string `json:"status"`
}

func health(check func(ctx context.Context) error) web.HandlerFunc {
	return func(ctx context.Context, r *http.Request) web.Encoder {
		if check != nil {
			if err := check(ctx); err != nil {
				return errs.Newf(errs.Internal, "datastore unavailable")
			}
		}
		return web.NewJSONResponse(status{Status: "ok"})
	}
}
