// Package metrics constructs the metrics the application will track and
// publishes them through expvar.
package metrics

import (
	"context"
	"expvar"
	"runtime"
	"sync"
)

// Counter names as they appear under /debug/vars.
const (
	Goroutines = "goroutines"
	Requests   = "requests"
	Errors     = "errors"
	Panics     = "panics"

	// AuthFailures counts task requests turned away for a missing or bad token.
	AuthFailures = "auth_failures"
)

type metrics struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
	authFails  *expvar.Int
}

var (
	m    *metrics
	once sync.Once
)

// get publishes the counters on first use; expvar panics on duplicate
// names, so this must happen once per process.
func get() *metrics {
	once.Do(func() {
		m = &metrics{
			goroutines: expvar.NewInt(Goroutines),
			requests:   expvar.NewInt(Requests),
			errors:     expvar.NewInt(Errors),
			panics:     expvar.NewInt(Panics),
			authFails:  expvar.NewInt(AuthFailures),
		}
	})
	return m
}

type ctxKey int

const key ctxKey = 1

// Set sets the metrics data into the context.
func Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, get())
}

func from(ctx context.Context) *metrics {
	if v, ok := ctx.Value(key).(*metrics); ok {
		return v
	}
	return get()
}

// AddGoroutines refreshes the goroutine metric.
func AddGoroutines(ctx context.Context) int64 {
	g := int64(runtime.NumGoroutine())
	from(ctx).goroutines.Set(g)
	return g
}

// AddRequests increments the request metric by 1.
func AddRequests(ctx context.Context) int64 {
	v := from(ctx)
	v.requests.Add(1)
	return v.requests.Value()
}

// AddErrors increments the errors metric by 1.
func AddErrors(ctx context.Context) int64 {
	v := from(ctx)
	v.errors.Add(1)
	return v.errors.Value()
}

// AddPanics increments the panics metric by 1.
func AddPanics(ctx context.Context) int64 {
	v := from(ctx)
	v.panics.Add(1)
	return v.panics.Value()
}

// AddAuthFailures increments the rejected token metric by 1.
func AddAuthFailures(ctx context.Context) int64 {
	v := from(ctx)
	v.authFails.Add(1)
	return v.authFails.Value()
}
