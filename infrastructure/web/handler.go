package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jrazmi/taskboard/sdk/environment"
)

// WebHandler routes requests to HandlerFuncs through the global middleware.
type WebHandler struct {
	mux       *http.ServeMux
	log       *slog.Logger
	telemetry Telemetry

	corsOrigins    []string
	defaultHeaders map[string]string

	globalMiddleware []Middleware
}

// HandlerOptions is the exportable configuration struct. An empty origin
// list disables CORS handling.
type HandlerOptions struct {
	CORSOrigins    []string          `env:"CORS_ORIGINS" default:"" separator:","`
	DefaultHeaders map[string]string
}

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	log              *slog.Logger
	telemetry        Telemetry
	corsOrigins      []string
	defaultHeaders   map[string]string
	globalMiddleware []Middleware
}

// WithLogging sets the logger
func WithLogging(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.log = log
	}
}

// WithTelemetry sets the telemetry provider
func WithTelemetry(tel Telemetry) HandlerOption {
	return func(o *handlerOptions) {
		o.telemetry = tel
	}
}

// WithCORS sets CORS origins
func WithCORS(origins []string) HandlerOption {
	return func(o *handlerOptions) {
		o.corsOrigins = origins
	}
}

// WithDefaultHeaders sets headers written on every routed response.
func WithDefaultHeaders(headers map[string]string) HandlerOption {
	return func(o *handlerOptions) {
		if o.defaultHeaders == nil {
			o.defaultHeaders = make(map[string]string)
		}
		for k, v := range headers {
			o.defaultHeaders[k] = v
		}
	}
}

// WithGlobalMiddleware adds global middleware, outermost first.
func WithGlobalMiddleware(middleware ...Middleware) HandlerOption {
	return func(o *handlerOptions) {
		o.globalMiddleware = append(o.globalMiddleware, middleware...)
	}
}

// NewWebHandlerFromEnv creates a new WebHandler from environment variables
func NewWebHandlerFromEnv(prefix string, opts ...HandlerOption) (*WebHandler, error) {
	var options HandlerOptions
	if err := environment.ParseEnvTags(prefix, &options); err != nil {
		return nil, fmt.Errorf("parsing webhandler config: %w", err)
	}
	return NewWebHandler(options, opts...), nil
}

// NewWebHandler creates a WebHandler from cfg; opts override cfg.
func NewWebHandler(cfg HandlerOptions, opts ...HandlerOption) *WebHandler {
	o := &handlerOptions{
		corsOrigins:    cleanOrigins(cfg.CORSOrigins),
		defaultHeaders: make(map[string]string),
	}
	for k, v := range cfg.DefaultHeaders {
		o.defaultHeaders[k] = v
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}

	wh := &WebHandler{
		mux:              http.NewServeMux(),
		log:              o.log,
		telemetry:        o.telemetry,
		corsOrigins:      cleanOrigins(o.corsOrigins),
		defaultHeaders:   o.defaultHeaders,
		globalMiddleware: o.globalMiddleware,
	}

	// CORS runs before every other middleware, and preflight requests need a
	// route of their own or the mux answers them with 405.
	if len(wh.corsOrigins) > 0 {
		wh.globalMiddleware = append([]Middleware{wh.corsMiddleware()}, wh.globalMiddleware...)
		wh.Handle(http.MethodOptions, "/{path...}", preflight)
	}

	return wh
}

// Handle registers handler for method and path behind the global and the
// given middleware.
func (wh *WebHandler) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	final := wh.buildHandlerChain(handler, middleware...)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wh.telemetry != nil {
			ctx = wh.telemetry.SetTraceID(ctx)
		}
		ctx = setWriter(ctx, w)
		for k, v := range wh.defaultHeaders {
			w.Header().Set(k, v)
		}

		resp := final(ctx, r)

		if err := Respond(ctx, w, resp); err != nil {
			wh.log.ErrorContext(ctx, "respond error", "error", err)
		}
	}

	pattern := fmt.Sprintf("%s %s", strings.ToUpper(method), path)
	wh.mux.HandleFunc(pattern, h)
}

// HandleRaw registers a plain http.Handler. Global middleware is not applied.
func (wh *WebHandler) HandleRaw(pattern string, handler http.Handler) {
	wh.mux.Handle(pattern, handler)
}

func (wh *WebHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wh.mux.ServeHTTP(w, r)
}

func cleanOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
