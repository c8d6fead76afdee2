package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
)

type HealthService interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

type healthView struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	checks, healthy := h.svc.Check(xhttp.Context(ctx))
	if !healthy {
		writeJSON(ctx, xhttp.StatusServiceUnavailable, response{
			Success: false,
			Message: "Service unavailable",
			Data:    healthView{Status: "degraded", Checks: checks},
		})
		return
	}
	writeData(ctx, xhttp.StatusOK, healthView{Status: "ok", Checks: checks})
}
