package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/internal/services"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
)

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, req model.LoginRequest) (*services.AuthResult, error)
}

type AuthHandler struct {
	svc AuthService
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler, auth xhttp.MiddlewareFunc) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.GET("/auth/me", auth(h.Me))
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(ctx *xhttp.RequestCtx) {
	var req registerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeServiceError(ctx, err, "")
		return
	}

	res, err := h.svc.Register(xhttp.Context(ctx), model.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(ctx, err, "")
		return
	}
	writeData(ctx, xhttp.StatusCreated, res)
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeServiceError(ctx, err, "")
		return
	}

	res, err := h.svc.Login(xhttp.Context(ctx), model.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		writeServiceError(ctx, err, "")
		return
	}
	writeData(ctx, xhttp.StatusOK, res)
}

func (h *AuthHandler) Me(ctx *xhttp.RequestCtx) {
	identity, ok := identityFrom(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusUnauthorized, "Not authorized, no token")
		return
	}
	writeData(ctx, xhttp.StatusOK, identity)
}
