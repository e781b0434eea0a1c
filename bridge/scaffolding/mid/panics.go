package mid

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported in Metrics and handled in Errors.
func Panics(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) (resp web.Encoder) {
			defer func() {
				if rec := recover(); rec != nil {
					log.ErrorContext(ctx, "panic recovered", "panic", rec, "stack", string(debug.Stack()))
					metrics.AddPanics(ctx)
					resp = errs.Newf(errs.InternalOnlyLog, "PANIC [%v]", rec)
				}
			}()

			return next(ctx, r)
		}
	}
}
