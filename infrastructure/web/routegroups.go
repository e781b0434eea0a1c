package web

import "strings"

// RouteGroup registers routes under a shared prefix and middleware.
type RouteGroup struct {
	webHandler *WebHandler
	prefix     string
	middleware []Middleware
}

func (wh *WebHandler) Group(prefix string, middleware ...Middleware) *RouteGroup {
	return &RouteGroup{
		webHandler: wh,
		prefix:     strings.TrimSuffix(prefix, "/"),
		middleware: middleware,
	}
}

func (g *RouteGroup) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	g.webHandler.Handle(method, g.prefix+path, handler, g.with(middleware)...)
}

func (g *RouteGroup) Group(prefix string, middleware ...Middleware) *RouteGroup {
	return &RouteGroup{
		webHandler: g.webHandler,
		prefix:     g.prefix + strings.TrimSuffix(prefix, "/"),
		middleware: g.with(middleware),
	}
}

// with copies so sibling routes never share a backing array.
func (g *RouteGroup) with(middleware []Middleware) []Middleware {
	out := make([]Middleware, 0, len(g.middleware)+len(middleware))
	out = append(out, g.middleware...)
	return append(out, middleware...)
}
