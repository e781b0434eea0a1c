// Package tasksrepobridge exposes the task repository over HTTP. Every route
// is scoped to the user resolved by the authentication middleware.
package tasksrepobridge

import (
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Config holds configuration for the Task bridge
type Config struct {
	Log        *logger.Logger
	Repository *tasksrepo.Repository
	// Middleware runs on every task route; it must include authentication.
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Task
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)
	tasks := group.Group("/tasks", cfg.Middleware...)

	tasks.GET("", b.httpList)
	tasks.POST("", b.httpCreate)
	tasks.GET("/categories", b.httpCategories)
	tasks.GET("/summary", b.httpSummary)
	tasks.POST("/clear-completed", b.httpClearCompleted)
	tasks.PUT("/order", b.httpReorder)
	tasks.GET("/{task_id}", b.httpGetByID)
	tasks.PATCH("/{task_id}", b.httpUpdate)
	tasks.DELETE("/{task_id}", b.httpDelete)
}
