package handlers

import (
	xhttp "github.com/nimasrn/bizledger/pkg/http"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Transactions *TransactionHandler
	Debtors      *DebtorHandler
}

// RegisterRoutes mounts every endpoint under /api. auth guards all routes
// except health, register and login.
func RegisterRoutes(r *xhttp.Router, h Handlers, auth xhttp.MiddlewareFunc) {
	g := r.Group("/api")
	RegisterHealthRoutes(g, h.Health)
	RegisterAuthRoutes(g, h.Auth, auth)
	RegisterTransactionRoutes(g, h.Transactions, auth)
	RegisterDebtorRoutes(g, h.Debtors, auth)
}
