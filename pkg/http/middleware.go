package xhttp

import (
	"context"
	"strings"
	"time"

	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

const slowThreshold = 500 * time.Millisecond

var skipPaths = []string{"/api/health", "/metrics"}

type MiddlewareFunc func(next RequestHandler) RequestHandler
type RequestCtx = fasthttp.RequestCtx
type RequestHandler = fasthttp.RequestHandler

const requestContextKey = "xhttp.requestContext"

// Context returns the context bound to the request deadline set by
// TimeoutMiddleware, or ctx itself when no deadline was attached.
func Context(ctx *RequestCtx) context.Context {
	if c, ok := ctx.UserValue(requestContextKey).(context.Context); ok {
		return c
	}
	return ctx
}

// TimeoutMiddleware answers 408 with a JSON body once timeout elapses. The
// handler keeps running in its goroutine, its response is discarded and the
// context returned by Context is cancelled so pending queries abort.
func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		if timeout <= 0 {
			return next
		}
		return func(ctx *RequestCtx) {
			reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			ctx.SetUserValue(requestContextKey, reqCtx)

			done := make(chan struct{})
			go func() {
				defer close(done)
				next(ctx)
			}()

			select {
			case <-done:
			case <-reqCtx.Done():
				resp := &fasthttp.Response{}
				resp.SetStatusCode(StatusRequestTimeout)
				resp.Header.Set("Content-Type", contentTypeJSON)
				resp.SetBodyString(`{"success":false,"message":"Request timeout"}`)
				ctx.TimeoutErrorWithResponse(resp)
			}
		}
	}
}

func CompressMiddleware(level int) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return fasthttp.CompressHandlerBrotliLevel(next, level, level)
	}
}

func RecoverMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[xhttp] panic recovered", "error", err, "path", string(ctx.Path()))
				ctx.Response.Reset()
				WriteJSONError(ctx, StatusInternalServerError, "Server error")
			}
		}()
		next(ctx)
	}
}

// CORSMiddleware allows origin (use "*" for any) and short-circuits preflight
// requests with 204.
func CORSMiddleware(origin string) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return func(ctx *RequestCtx) {
			h := &ctx.Response.Header
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-Request-Id")
			if origin != "*" {
				h.Set("Vary", "Origin")
			}

			if ctx.IsOptions() {
				ctx.SetStatusCode(StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}

func RequestLoggerMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		if shouldSkip(path) {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		latency := time.Since(start)
		status := ctx.Response.StatusCode()
		fields := []interface{}{
			"status", status,
			"method", string(ctx.Method()),
			"path", path,
			"latency", latency.String(),
			"bytes_in", len(ctx.PostBody()),
			"bytes_out", len(ctx.Response.Body()),
			"ip", ctx.RemoteIP().String(),
			"ua", string(ctx.Request.Header.UserAgent()),
			"request_id", requestID(ctx),
		}

		lg := logger.GetLogger()

		// choose level
		switch {
		case status >= 500:
			lg.Error("http_request", fields...)
		case status >= 400 || latency > slowThreshold:
			lg.Warn("http_request", fields...)
		default:
			lg.Info("http_request", fields...)
		}
	}
}

func shouldSkip(p string) bool {
	for _, sp := range skipPaths {
		if strings.HasPrefix(p, sp) {
			return true
		}
	}
	return false
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if v := ctx.Request.Header.Peek("X-Request-Id"); len(v) > 0 {
		return string(v)
	}
	return ""
}
