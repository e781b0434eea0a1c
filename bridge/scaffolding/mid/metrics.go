package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskboard/infrastructure/web"
)

// Metrics updates program counters, including rejected bearer tokens.
func Metrics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = metrics.Set(ctx)

			resp := next(ctx, r)

			n := metrics.AddRequests(ctx)

			if n%1000 == 0 {
				metrics.AddGoroutines(ctx)
			}

			if err := isError(resp); err != nil {
				metrics.AddErrors(ctx)

				var appErr *errs.Error
				if errors.As(err, &appErr) && appErr.Code == errs.Unauthenticated {
					metrics.AddAuthFailures(ctx)
				}
			}

			return resp
		}
	}
}
