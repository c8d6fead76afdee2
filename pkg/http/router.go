package xhttp

import (
	"github.com/fasthttp/router"
)

type Router = router.Router
type Group = router.Group

// NewRouter returns a new Router
func NewRouter() *Router {
	return router.New()
}

// CreateDefaultRouter returns a router answering unknown routes and methods
// with JSON errors. Static segments win over parameters, so /analytics is
// matched before /{id}.
func CreateDefaultRouter() *Router {
	r := NewRouter()
	r.RedirectFixedPath = true
	r.RedirectTrailingSlash = true
	r.SaveMatchedRoutePath = true
	r.NotFound = NotFoundHandler
	r.MethodNotAllowed = MethodNotAllowedHandler
	r.HandleOPTIONS = false
	r.HandleMethodNotAllowed = true
	return r
}

// NotFoundHandler is the default 404 handler
func NotFoundHandler(ctx *RequestCtx) {
	WriteJSONError(ctx, StatusNotFound, "Route not found")
}

func MethodNotAllowedHandler(ctx *RequestCtx) {
	WriteJSONError(ctx, StatusMethodNotAllowed, StatusText(StatusMethodNotAllowed))
}
