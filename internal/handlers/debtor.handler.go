package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/analytics"
	"github.com/nimasrn/bizledger/internal/model"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
	"github.com/shopspring/decimal"
)

const debtorNotFound = "Debtor not found"

type DebtorService interface {
	Now() time.Time
	List(ctx context.Context, f model.DebtorFilter) ([]*model.Debtor, model.Pagination, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*model.Debtor, error)
	Create(ctx context.Context, owner uuid.UUID, req model.DebtorCreateRequest) (*model.Debtor, error)
	Update(ctx context.Context, owner, id uuid.UUID, req model.DebtorUpdateRequest) (*model.Debtor, error)
	MarkPaid(ctx context.Context, owner, id uuid.UUID) (*model.Debtor, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Analytics(ctx context.Context, owner uuid.UUID) (analytics.DebtorReport, error)
}

type DebtorHandler struct {
	svc DebtorService
	loc *time.Location
}

func RegisterDebtorRoutes(e *router.Group, h *DebtorHandler, auth xhttp.MiddlewareFunc) {
	e.GET("/debtors", auth(h.ListDebtors))
	e.GET("/debtors/analytics", auth(h.GetAnalytics))
	e.GET("/debtors/{id}", auth(h.GetDebtor))
	e.POST("/debtors", auth(h.CreateDebtor))
	e.PUT("/debtors/{id}", auth(h.UpdateDebtor))
	e.PATCH("/debtors/{id}/mark-paid", auth(h.MarkPaid))
	e.DELETE("/debtors/{id}", auth(h.DeleteDebtor))
}

func NewDebtorHandler(svc DebtorService, loc *time.Location) *DebtorHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DebtorHandler{svc: svc, loc: loc}
}

type createDebtorRequest struct {
	ClientName      string           `json:"clientName" validate:"required,max=100"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	DueDate         string           `json:"dueDate" validate:"required"`
	TransactionDate string           `json:"transactionDate"`
}

type updateDebtorRequest struct {
	ClientName      *string          `json:"clientName" validate:"omitempty,max=100"`
	Amount          *decimal.Decimal `json:"amount"`
	DueDate         *string          `json:"dueDate"`
	TransactionDate *string          `json:"transactionDate"`
}

// debtorView adds the fields derived from the current time.
type debtorView struct {
	*model.Debtor
	IsOverdue       bool   `json:"isOverdue"`
	DaysOverdue     int    `json:"daysOverdue"`
	FormattedAmount string `json:"formattedAmount"`
}

func newDebtorView(d *model.Debtor, now time.Time) debtorView {
	return debtorView{
		Debtor:          d,
		IsOverdue:       d.IsOverdue(now),
		DaysOverdue:     d.DaysOverdue(now),
		FormattedAmount: formatAmount(d.Amount),
	}
}

func newDebtorViews(items []*model.Debtor, now time.Time) []debtorView {
	views := make([]debtorView, len(items))
	for i, d := range items {
		views[i] = newDebtorView(d, now)
	}
	return views
}

type debtorReportView struct {
	Summary         analytics.DebtorSummary    `json:"summary"`
	StatusBreakdown map[model.DebtorStatus]int `json:"statusBreakdown"`
	OverdueDebtors  []debtorView               `json:"overdueDebtors"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *DebtorHandler) ListDebtors(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	v := &model.ValidationError{}
	f := model.DebtorFilter{Owner: owner, Now: h.svc.Now()}
	if raw := query(ctx, "status"); raw != "" {
		s := model.DebtorStatus(raw)
		if !s.Valid() {
			v.Add("status", "status must be one of unpaid, paid")
		}
		f.Status = &s
	}
	switch query(ctx, "overdue") {
	case "", "false":
	case "true":
		f.Overdue = true
	default:
		v.Add("overdue", "overdue must be true or false")
	}
	f.Search = query(ctx, "search")
	f.Page = parsePage(ctx, v)
	if !v.Empty() {
		writeValidation(ctx, v)
		return
	}

	items, pagination, err := h.svc.List(xhttp.Context(ctx), f)
	if err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, response{
		Success:    true,
		Data:       newDebtorViews(items, f.Now),
		Pagination: &pagination,
	})
}

func (h *DebtorHandler) GetDebtor(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	d, err := h.svc.Get(xhttp.Context(ctx), owner, id)
	if err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, newDebtorView(d, h.svc.Now()))
}

func (h *DebtorHandler) CreateDebtor(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	var req createDebtorRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}

	v := &model.ValidationError{}
	p := model.DebtorCreateRequest{
		ClientName: req.ClientName,
		Amount:     *req.Amount,
	}
	due, err := parseTime(req.DueDate, h.loc)
	if err != nil {
		v.Add("dueDate", "dueDate must be a date")
	}
	p.DueDate = due
	if req.TransactionDate != "" {
		t, err := parseTime(req.TransactionDate, h.loc)
		if err != nil {
			v.Add("transactionDate", "transactionDate must be a date")
		}
		p.TransactionDate = &t
	}
	if !v.Empty() {
		writeValidation(ctx, v)
		return
	}

	d, err := h.svc.Create(xhttp.Context(ctx), owner, p)
	if err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeData(ctx, xhttp.StatusCreated, newDebtorView(d, h.svc.Now()))
}

func (h *DebtorHandler) UpdateDebtor(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req updateDebtorRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}

	v := &model.ValidationError{}
	p := model.DebtorUpdateRequest{
		ClientName: req.ClientName,
		Amount:     req.Amount,
	}
	if req.DueDate != nil {
		t, err := parseTime(*req.DueDate, h.loc)
		if err != nil {
			v.Add("dueDate", "dueDate must be a date")
		}
		p.DueDate = &t
	}
	if req.TransactionDate != nil {
		t, err := parseTime(*req.TransactionDate, h.loc)
		if err != nil {
			v.Add("transactionDate", "transactionDate must be a date")
		}
		p.TransactionDate = &t
	}
	if !v.Empty() {
		writeValidation(ctx, v)
		return
	}

	d, err := h.svc.Update(xhttp.Context(ctx), owner, id, p)
	if err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, newDebtorView(d, h.svc.Now()))
}

func (h *DebtorHandler) MarkPaid(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	d, err := h.svc.MarkPaid(xhttp.Context(ctx), owner, id)
	if err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, newDebtorView(d, h.svc.Now()))
}

func (h *DebtorHandler) DeleteDebtor(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(xhttp.Context(ctx), owner, id); err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, response{Success: true, Message: "Debtor deleted"})
}

func (h *DebtorHandler) GetAnalytics(ctx *xhttp.RequestCtx) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	report, err := h.svc.Analytics(xhttp.Context(ctx), owner)
	if err != nil {
		writeServiceError(ctx, err, debtorNotFound)
		return
	}
	writeData(ctx, xhttp.StatusOK, debtorReportView{
		Summary:         report.Summary,
		StatusBreakdown: report.StatusBreakdown,
		OverdueDebtors:  newDebtorViews(report.OverdueDebtors, h.svc.Now()),
	})
}
