package handlers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/internal/services"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/pkg/errors"
)

const identityKey = "identity"

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.Identity, error)
}

// AuthMiddleware resolves the bearer token to the caller identity and stores
// it on the request. Requests without a valid token never reach next.
func AuthMiddleware(a Authenticator) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			header := string(ctx.Request.Header.Peek("Authorization"))
			raw, ok := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if !ok || raw == "" {
				writeError(ctx, xhttp.StatusUnauthorized, "Not authorized, no token")
				return
			}

			identity, err := a.Authenticate(xhttp.Context(ctx), raw)
			if err != nil {
				if errors.Is(err, services.ErrNotAuthorized) {
					writeError(ctx, xhttp.StatusUnauthorized, "Not authorized, token failed")
					return
				}
				logger.Error("authentication failed", "error", err)
				writeError(ctx, xhttp.StatusInternalServerError, "Server error")
				return
			}

			ctx.SetUserValue(identityKey, identity)
			next(ctx)
		}
	}
}

func identityFrom(ctx *xhttp.RequestCtx) (*model.Identity, bool) {
	identity, ok := ctx.UserValue(identityKey).(*model.Identity)
	return identity, ok && identity != nil
}

// callerID answers 401 itself when the request carries no identity.
func callerID(ctx *xhttp.RequestCtx) (uuid.UUID, bool) {
	identity, ok := identityFrom(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusUnauthorized, "Not authorized, no token")
		return uuid.Nil, false
	}
	return identity.UserID, true
}
