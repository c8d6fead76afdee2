package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeSale        TransactionType = "sale"
	TransactionTypeDeliveryFee TransactionType = "delivery_fee"
	TransactionTypeExpense     TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeDeliveryFee, TransactionTypeExpense:
		return true
	}
	return false
}

// IsIncome reports whether the type counts toward income in analytics.
func (t TransactionType) IsIncome() bool {
	return t == TransactionTypeSale || t == TransactionTypeDeliveryFee
}

// RequiresCategory is true only for expenses; no other type may carry one.
func (t TransactionType) RequiresCategory() bool {
	return t == TransactionTypeExpense
}

type ExpenseCategory string

const (
	CategoryFuel          ExpenseCategory = "fuel"
	CategoryDriver        ExpenseCategory = "driver"
	CategoryCarOwner      ExpenseCategory = "car_owner"
	CategoryTurniBoys     ExpenseCategory = "turni_boys"
	CategoryRepairs       ExpenseCategory = "repairs"
	CategoryMiscellaneous ExpenseCategory = "miscellaneous"
	CategoryTrafficFines  ExpenseCategory = "traffic_fines"
)

var ExpenseCategories = []ExpenseCategory{
	CategoryFuel,
	CategoryDriver,
	CategoryCarOwner,
	CategoryTurniBoys,
	CategoryRepairs,
	CategoryMiscellaneous,
	CategoryTrafficFines,
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

const MaxDescriptionLength = 200

type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	Type            TransactionType `json:"type"`
	Category        ExpenseCategory `json:"category,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`
	EntryDate       time.Time       `json:"entryDate"`
	Owner           uuid.UUID       `json:"owner"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Normalize trims free text, rounds the amount and drops a category on
// non-expense records.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Amount = roundAmount(t.Amount)
	if !t.Type.RequiresCategory() {
		t.Category = ""
	}
}

func (t *Transaction) Validate() error {
	v := &ValidationError{}
	if !t.Type.Valid() {
		v.Add("type", "Transaction type must be one of sale, delivery_fee, expense")
	}
	if t.Type.RequiresCategory() && !t.Category.Valid() {
		v.Add("category", "Category is required for expenses")
	}
	checkAmount(v, t.Amount)
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		v.Add("description", "Description cannot be more than 200 characters")
	}
	if t.TransactionDate.IsZero() {
		v.Add("transactionDate", "Transaction date is required")
	}
	if t.Owner == uuid.Nil {
		v.Add("owner", "Owner is required")
	}
	return v.Err()
}

// TransactionCreateRequest is the input for recording a transaction.
type TransactionCreateRequest struct {
	Type            TransactionType
	Category        ExpenseCategory
	Amount          decimal.Decimal
	Description     string
	TransactionDate *time.Time
}

// TransactionUpdateRequest carries the fields to overwrite; nil means keep.
type TransactionUpdateRequest struct {
	Type            *TransactionType
	Category        *ExpenseCategory
	Amount          *decimal.Decimal
	Description     *string
	TransactionDate *time.Time
}

func (r TransactionUpdateRequest) Apply(t *Transaction) {
	if r.Type != nil {
		t.Type = *r.Type
	}
	if r.Category != nil {
		t.Category = *r.Category
	}
	if r.Amount != nil {
		t.Amount = *r.Amount
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.TransactionDate != nil {
		t.TransactionDate = *r.TransactionDate
	}
}

// TransactionFilter controls List queries. Owner is mandatory.
type TransactionFilter struct {
	Owner uuid.UUID
	Type  *TransactionType
	From  *time.Time // inclusive
	To    *time.Time // inclusive
	Page  Page
}
