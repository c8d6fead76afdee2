package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/analytics"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/internal/services"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
	"github.com/shopspring/decimal"
)

const transactionNotFound = "Transaction not found"

type TransactionService interface {
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, model.Pagination, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*model.Transaction, error)
	Create(ctx context.Context, owner uuid.UUID, req model.TransactionCreateRequest) (*model.Transaction, error)
	Update(ctx context.Context, owner, id uuid.UUID, req model.TransactionUpdateRequest) (*model.Transaction, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Analytics(ctx context.Context, owner uuid.UUID, q services.AnalyticsQuery) (analytics.TransactionReport, error)
}

type TransactionHandler struct {
	svc TransactionService
	loc *time.Location
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler, auth xhttp.MiddlewareFunc) {
	e.GET("/transactions", auth(h.ListTransactions))
	e.GET("/transactions/analytics", auth(h.GetAnalytics))
	e.GET("/transactions/{id}", auth(h.GetTransaction))
	e.POST("/transactions", auth(h.CreateTransaction))
	e.PUT("/transactions/{id}", auth(h.UpdateTransaction))
	e.DELETE("/transactions/{id}", auth(h.DeleteTransaction))
}

// NewTransactionHandler builds the handler. Date-only query and body values
// are read as midnight in loc.
func NewTransactionHandler(svc TransactionService, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{svc: svc, loc: loc}
}

type createTransactionRequest struct {
	Type            string           `json:"type" validate:"required,oneof=sale delivery_fee expense"`
	Category        string           `json:"category"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	Description     string           `json:"description" validate:"max=200"`
	TransactionDate string           `json:"transactionDate"`
}

type updateTransactionRequest struct {
	Type            *string          `json:"type" validate:"omitempty,oneof=sale delivery_fee expense"`
	Category        *string          `json:"category"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description" validate:"omitempty,max=200"`
	TransactionDate *string          `json:"transactionDate"`
}

type transactionView struct {
	*model.Transaction
	FormattedAmount string `json:"formattedAmount"`
}

func newTransactionView(t *model.Transaction) transactionView {
	return transactionView{Transaction: t, FormattedAmount: formatAmount(t.Amount)}
}

/* --------------------------------- Routes ----------------------------------- */

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	v := &model.ValidationError{}
	f := model.TransactionFilter{Owner: owner}
	if raw := query(ctx, "type"); raw != "" {
		t := model.TransactionType(raw)
		if !t.Valid() {
			v.Add("type", "type must be one of sale, delivery_fee, expense")
		}
		f.Type = &t
	}
	if raw := query(ctx, "startDate"); raw != "" {
		if t, err := parseTime(raw, h.loc); err != nil {
			v.Add("startDate", "startDate must be a date")
		} else {
			f.From = &t
		}
	}
	if raw := query(ctx, "endDate"); raw != "" {
		if t, err := parseEndTime(raw, h.loc); err != nil {
			v.Add("endDate", "endDate must be a date")
		} else {
			f.To = &t
		}
	}
	f.Page = parsePage(ctx, v)
	if !v.Empty() {
		writeValidation(ctx, v)
		return
	}

	items, pagination, err := h.svc.List(xhttp.Context(ctx), f)
	if err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}

	views := make([]transactionView, len(items))
	for i, t := range items {
		views[i] = newTransactionView(t)
	}
	writeJSON(ctx, xhttp.StatusOK, response{Success: true, Data: views, Pagination: &pagination})
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	txn, err := h.svc.Get(xhttp.Context(ctx), owner, id)
	if err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, newTransactionView(txn))
}

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}

	p := model.TransactionCreateRequest{
		Type:        model.TransactionType(req.Type),
		Category:    model.ExpenseCategory(req.Category),
		Amount:      *req.Amount,
		Description: req.Description,
	}
	if req.TransactionDate != "" {
		t, err := parseTime(req.TransactionDate, h.loc)
		if err != nil {
			writeValidation(ctx, model.NewValidationError("transactionDate", "transactionDate must be a date"))
			return
		}
		p.TransactionDate = &t
	}

	txn, err := h.svc.Create(xhttp.Context(ctx), owner, p)
	if err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}
	writeData(ctx, xhttp.StatusCreated, newTransactionView(txn))
}

func (h *TransactionHandler) UpdateTransaction(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req updateTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}

	p := model.TransactionUpdateRequest{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Type != nil {
		t := model.TransactionType(*req.Type)
		p.Type = &t
	}
	if req.Category != nil {
		c := model.ExpenseCategory(*req.Category)
		p.Category = &c
	}
	if req.TransactionDate != nil {
		t, err := parseTime(*req.TransactionDate, h.loc)
		if err != nil {
			writeValidation(ctx, model.NewValidationError("transactionDate", "transactionDate must be a date"))
			return
		}
		p.TransactionDate = &t
	}

	txn, err := h.svc.Update(xhttp.Context(ctx), owner, id, p)
	if err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, newTransactionView(txn))
}

func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(xhttp.Context(ctx), owner, id); err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, response{Success: true, Message: "Transaction deleted"})
}

// GetAnalytics takes either period or an explicit startDate/endDate pair;
// the pair wins when both are given.
func (h *TransactionHandler) GetAnalytics(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	v := &model.ValidationError{}
	var q services.AnalyticsQuery

	rawStart, rawEnd := query(ctx, "startDate"), query(ctx, "endDate")
	switch {
	case rawStart != "" && rawEnd != "":
		start, err := parseTime(rawStart, h.loc)
		if err != nil {
			v.Add("startDate", "startDate must be a date")
		}
		end, err := parseEndTime(rawEnd, h.loc)
		if err != nil {
			v.Add("endDate", "endDate must be a date")
		}
		q.Range = &analytics.Range{Start: start, End: end}
	case rawStart != "":
		v.Add("endDate", "endDate is required with startDate")
	case rawEnd != "":
		v.Add("startDate", "startDate is required with endDate")
	default:
		period, err := analytics.ParsePeriod(query(ctx, "period"))
		if err != nil {
			v.Add("period", err.Error())
		}
		q.Period = period
	}
	if !v.Empty() {
		writeValidation(ctx, v)
		return
	}

	report, err := h.svc.Analytics(xhttp.Context(ctx), owner, q)
	if err != nil {
		writeServiceError(ctx, err, transactionNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, report)
}
