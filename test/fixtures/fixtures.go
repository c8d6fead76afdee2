package fixtures

import (
	"time"

	"github.com/nimasrn/bizledger/internal/model"
	"github.com/shopspring/decimal"
)

const (
	TestUserEmail    = "owner@example.com"
	TestUserPassword = "secret123"
	OtherUserEmail   = "other@example.com"
)

// Now is the reference instant used across fixtures: mid-March 2024, UTC.
var Now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func NewTestRegisterRequest(name, email string) model.RegisterRequest {
	return model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: TestUserPassword,
	}
}

func NewTestSale(amount string, at time.Time) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		Type:            model.TransactionTypeSale,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: &at,
	}
}

func NewTestExpense(category model.ExpenseCategory, amount string, at time.Time) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		Type:            model.TransactionTypeExpense,
		Category:        category,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: &at,
	}
}

func NewTestDebtor(clientName, amount string, due time.Time) model.DebtorCreateRequest {
	return model.DebtorCreateRequest{
		ClientName: clientName,
		Amount:     decimal.RequireFromString(amount),
		DueDate:    due,
	}
}

// MonthExample is a sale of 500 and two expenses, fuel 100 and driver 50,
// all inside the month of Now.
func MonthExample() []model.TransactionCreateRequest {
	return []model.TransactionCreateRequest{
		NewTestSale("500", Now.AddDate(0, 0, -10)),
		NewTestExpense(model.CategoryFuel, "100", Now.AddDate(0, 0, -9)),
		NewTestExpense(model.CategoryDriver, "50", Now.AddDate(0, 0, -9)),
	}
}
