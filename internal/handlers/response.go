package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/internal/services"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/nimasrn/bizledger/pkg/prom"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// response is the envelope every endpoint answers with.
type response struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Message    string            `json:"message,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	xhttp.WriteJSON(ctx, status, v)
}

func writeData(ctx *xhttp.RequestCtx, status int, data any) {
	writeJSON(ctx, status, response{Success: true, Data: data})
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	xhttp.WriteJSONError(ctx, status, msg)
}

func writeValidation(ctx *xhttp.RequestCtx, ve *model.ValidationError) {
	writeJSON(ctx, xhttp.StatusBadRequest, response{
		Success: false,
		Message: ve.Message(),
		Errors:  ve.Fields,
	})
}

// writeServiceError maps service errors to status codes. notFound is the
// message used when the record does not exist.
func writeServiceError(ctx *xhttp.RequestCtx, err error, notFound string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeValidation(ctx, ve)
	case errors.Is(err, services.ErrNotFound):
		writeError(ctx, xhttp.StatusNotFound, notFound)
	case errors.Is(err, services.ErrNotAuthorized):
		writeError(ctx, xhttp.StatusUnauthorized, "Not authorized")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(ctx, xhttp.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		writeError(ctx, xhttp.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrTooManyAttempts):
		writeError(ctx, xhttp.StatusTooManyRequests, "Too many login attempts, try again later")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger.Warn("request abandoned", "path", string(ctx.Path()), "error", err)
		writeError(ctx, xhttp.StatusRequestTimeout, "Request timeout")
	default:
		logger.Error("request failed",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"error", err,
		)
		prom.IncServerError()
		writeError(ctx, xhttp.StatusInternalServerError, "Server error")
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return strings.TrimSpace(string(ctx.QueryArgs().Peek(key)))
}

// parseID reads the {id} route parameter, answering 400 when it is not a uuid.
func parseID(ctx *xhttp.RequestCtx) (uuid.UUID, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads page and limit; clamping happens in model.NewPage.
func parsePage(ctx *xhttp.RequestCtx, v *model.ValidationError) model.Page {
	var p model.Page
	for key, dst := range map[string]*int{"page": &p.Number, "limit": &p.Limit} {
		raw := query(ctx, key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			v.Add(key, key+" must be a positive integer")
			continue
		}
		*dst = n
	}
	return model.NewPage(p.Number, p.Limit)
}

func parseDate(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = time.ParseInLocation(dateLayout, s, loc)
	return t, true, err
}

// parseTime accepts RFC3339 or YYYY-MM-DD, the latter at midnight in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	t, _, err := parseDate(s, loc)
	return t, err
}

// parseEndTime is parseTime with a date-only value covering the whole day.
func parseEndTime(s string, loc *time.Location) (time.Time, error) {
	t, dateOnly, err := parseDate(s, loc)
	if err == nil && dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, err
}

// formatAmount renders a USD style amount, e.g. $1,234.50.
func formatAmount(d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(model.AmountScale), ".")
	n, _ := strconv.ParseInt(whole, 10, 64)
	s := "$" + humanize.Comma(n) + "." + frac
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}
