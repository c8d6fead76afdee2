package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DebtorStatus string

const (
	DebtorStatusUnpaid DebtorStatus = "unpaid"
	DebtorStatusPaid   DebtorStatus = "paid"
)

func (s DebtorStatus) Valid() bool {
	return s == DebtorStatusUnpaid || s == DebtorStatusPaid
}

const MaxClientNameLength = 100

type Debtor struct {
	ID              uuid.UUID       `json:"id"`
	ClientName      string          `json:"clientName"`
	Amount          decimal.Decimal `json:"amount"`
	DueDate         time.Time       `json:"dueDate"`
	TransactionDate time.Time       `json:"transactionDate"`
	Status          DebtorStatus    `json:"status"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	EntryDate       time.Time       `json:"entryDate"`
	Owner           uuid.UUID       `json:"owner"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (d *Debtor) Normalize() {
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.Amount = roundAmount(d.Amount)
	if d.Status == "" {
		d.Status = DebtorStatusUnpaid
	}
}

func (d *Debtor) Validate() error {
	v := &ValidationError{}
	if d.ClientName == "" {
		v.Add("clientName", "Client name is required")
	} else if utf8.RuneCountInString(d.ClientName) > MaxClientNameLength {
		v.Add("clientName", "Client name cannot be more than 100 characters")
	}
	checkAmount(v, d.Amount)
	if d.DueDate.IsZero() {
		v.Add("dueDate", "Due date is required")
	}
	if d.TransactionDate.IsZero() {
		v.Add("transactionDate", "Transaction date is required")
	}
	if !d.Status.Valid() {
		v.Add("status", "Status must be one of unpaid, paid")
	}
	if d.Owner == uuid.Nil {
		v.Add("owner", "Owner is required")
	}
	return v.Err()
}

// IsOverdue is true for an unpaid debt whose due date has passed.
func (d *Debtor) IsOverdue(now time.Time) bool {
	return d.Status == DebtorStatusUnpaid && d.DueDate.Before(now)
}

// DaysOverdue counts started days past the due date, 0 when not overdue.
func (d *Debtor) DaysOverdue(now time.Time) int {
	if !d.IsOverdue(now) {
		return 0
	}
	const day = 24 * time.Hour
	late := now.Sub(d.DueDate)
	days := int(late / day)
	if late%day != 0 {
		days++
	}
	return days
}

// MarkPaid moves the debt to paid. Repeating it keeps the first paidAt.
func (d *Debtor) MarkPaid(now time.Time) {
	if d.Status == DebtorStatusPaid {
		return
	}
	d.Status = DebtorStatusPaid
	paidAt := now
	d.PaidAt = &paidAt
}

type DebtorCreateRequest struct {
	ClientName      string
	Amount          decimal.Decimal
	DueDate         time.Time
	TransactionDate *time.Time
}

// DebtorUpdateRequest never touches status; that only changes through MarkPaid.
type DebtorUpdateRequest struct {
	ClientName      *string
	Amount          *decimal.Decimal
	DueDate         *time.Time
	TransactionDate *time.Time
}

func (r DebtorUpdateRequest) Apply(d *Debtor) {
	if r.ClientName != nil {
		d.ClientName = *r.ClientName
	}
	if r.Amount != nil {
		d.Amount = *r.Amount
	}
	if r.DueDate != nil {
		d.DueDate = *r.DueDate
	}
	if r.TransactionDate != nil {
		d.TransactionDate = *r.TransactionDate
	}
}

// DebtorFilter controls List queries. Overdue is evaluated against Now.
type DebtorFilter struct {
	Owner   uuid.UUID
	Status  *DebtorStatus
	Overdue bool
	Search  string
	Now     time.Time
	Page    Page
}
