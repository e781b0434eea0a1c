// Package credentialsbridge exposes signup and signin over HTTP.
package credentialsbridge

import (
	"context"

	"github.com/jrazmi/taskboard/core/services/credentials"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Service is the credential service as seen by the bridge.
type Service interface {
	Register(ctx context.Context, username, password string) (credentials.Credential, error)
	Authenticate(ctx context.Context, username, password string) (credentials.Credential, error)
}

// Config holds configuration for the credentials bridge
type Config struct {
	Log        *logger.Logger
	Service    Service
	Middleware []web.Middleware
}

// AddHttpRoutes registers the public signup and signin routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Service)

	group.POST("/signup", b.httpSignup, cfg.Middleware...)
	group.POST("/signin", b.httpSignin, cfg.Middleware...)
}
