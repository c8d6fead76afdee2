package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// AmountScale is the number of fractional digits kept for stored amounts.
const AmountScale = 2

// MaxAmount is the largest amount a numeric(14,2) column holds.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// checkAmount adds a field error when d is negative or too large to store.
func checkAmount(v *ValidationError, d decimal.Decimal) {
	switch {
	case d.IsNegative():
		v.Add("amount", "Amount cannot be negative")
	case d.GreaterThan(MaxAmount):
		v.Add("amount", "Amount cannot be more than 999,999,999,999.99")
	}
}

func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}
