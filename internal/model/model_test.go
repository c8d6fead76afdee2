package model

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() *Transaction {
	return &Transaction{
		Type:            TransactionTypeSale,
		Amount:          decimal.NewFromInt(500),
		TransactionDate: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Owner:           uuid.New(),
	}
}

func TestTransaction_Validate(t *testing.T) {
	t.Run("expense requires category", func(t *testing.T) {
		txn := validTransaction()
		txn.Type = TransactionTypeExpense
		txn.Normalize()

		err := txn.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Category is required for expenses", ve.Fields["category"])
		assert.Equal(t, "Category is required for expenses", ve.Message())
	})

	t.Run("expense rejects unknown category", func(t *testing.T) {
		txn := validTransaction()
		txn.Type = TransactionTypeExpense
		txn.Category = "snacks"
		assert.Error(t, txn.Validate())
	})

	t.Run("category dropped for income", func(t *testing.T) {
		txn := validTransaction()
		txn.Category = "nonsense"
		txn.Normalize()

		assert.NoError(t, txn.Validate())
		assert.Empty(t, txn.Category)
	})

	t.Run("negative amount", func(t *testing.T) {
		txn := validTransaction()
		txn.Amount = decimal.NewFromInt(-1)
		var ve *ValidationError
		require.ErrorAs(t, txn.Validate(), &ve)
		assert.Contains(t, ve.Fields, "amount")
	})

	t.Run("amount too large to store", func(t *testing.T) {
		txn := validTransaction()
		txn.Amount = MaxAmount
		assert.NoError(t, txn.Validate())

		txn.Amount = decimal.RequireFromString("1e20")
		txn.Normalize()
		var ve *ValidationError
		require.ErrorAs(t, txn.Validate(), &ve)
		assert.Equal(t, "Amount cannot be more than 999,999,999,999.99", ve.Fields["amount"])
	})

	t.Run("description length counts runes", func(t *testing.T) {
		txn := validTransaction()
		txn.Description = strings.Repeat("é", MaxDescriptionLength)
		assert.NoError(t, txn.Validate())

		txn.Description += "x"
		assert.Error(t, txn.Validate())
	})

	t.Run("several failures", func(t *testing.T) {
		txn := &Transaction{Type: "gift", Amount: decimal.NewFromInt(-5)}
		var ve *ValidationError
		require.ErrorAs(t, txn.Validate(), &ve)
		assert.Equal(t, "Validation failed", ve.Message())
		assert.Len(t, ve.Fields, 4)
	})
}

func TestTransactionUpdateRequest_Apply(t *testing.T) {
	txn := validTransaction()
	owner := txn.Owner
	expense := TransactionTypeExpense
	amount := decimal.RequireFromString("12.5")

	TransactionUpdateRequest{Type: &expense, Amount: &amount}.Apply(txn)
	txn.Normalize()

	assert.Equal(t, TransactionTypeExpense, txn.Type)
	assert.True(t, amount.Equal(txn.Amount))
	assert.Equal(t, owner, txn.Owner)
	assert.Error(t, txn.Validate())
}

func TestDebtor_Overdue(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	t.Run("ten days overdue", func(t *testing.T) {
		d := &Debtor{Status: DebtorStatusUnpaid, DueDate: now.AddDate(0, 0, -10)}
		assert.True(t, d.IsOverdue(now))
		assert.Equal(t, 10, d.DaysOverdue(now))
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		d := &Debtor{Status: DebtorStatusUnpaid, DueDate: now.Add(-25 * time.Hour)}
		assert.Equal(t, 2, d.DaysOverdue(now))
	})

	t.Run("paid is never overdue", func(t *testing.T) {
		d := &Debtor{Status: DebtorStatusPaid, DueDate: now.AddDate(0, 0, -10)}
		assert.False(t, d.IsOverdue(now))
		assert.Zero(t, d.DaysOverdue(now))
	})

	t.Run("due in the future", func(t *testing.T) {
		d := &Debtor{Status: DebtorStatusUnpaid, DueDate: now.Add(time.Hour)}
		assert.False(t, d.IsOverdue(now))
		assert.Zero(t, d.DaysOverdue(now))
	})
}

func TestDebtor_MarkPaidIdempotent(t *testing.T) {
	first := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	d := &Debtor{Status: DebtorStatusUnpaid}

	d.MarkPaid(first)
	d.MarkPaid(first.Add(48 * time.Hour))

	assert.Equal(t, DebtorStatusPaid, d.Status)
	require.NotNil(t, d.PaidAt)
	assert.Equal(t, first, *d.PaidAt)
}

func TestDebtor_Validate(t *testing.T) {
	d := &Debtor{
		ClientName:      "  Acme  ",
		Amount:          decimal.NewFromInt(100),
		DueDate:         time.Now(),
		TransactionDate: time.Now(),
		Owner:           uuid.New(),
	}
	d.Normalize()
	require.NoError(t, d.Validate())
	assert.Equal(t, "Acme", d.ClientName)
	assert.Equal(t, DebtorStatusUnpaid, d.Status)

	d.ClientName = strings.Repeat("a", MaxClientNameLength+1)
	assert.Error(t, d.Validate())

	d.ClientName = "Acme"
	d.Amount = MaxAmount.Add(decimal.RequireFromString("0.01"))
	var ve *ValidationError
	require.ErrorAs(t, d.Validate(), &ve)
	assert.Contains(t, ve.Fields, "amount")
}

func TestRegisterRequest_Validate(t *testing.T) {
	assert.NoError(t, RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret"}.Validate())

	var ve *ValidationError
	require.ErrorAs(t, RegisterRequest{Email: "nope", Password: "123"}.Validate(), &ve)
	assert.Len(t, ve.Fields, 3)
}

func TestPagination(t *testing.T) {
	cases := []struct {
		name          string
		page, limit   int
		total         int64
		expectedPage  Page
		expectedPages int
	}{
		{"defaults", 0, 0, 25, Page{Number: 1, Limit: 10}, 3},
		{"exact multiple", 2, 5, 10, Page{Number: 2, Limit: 5}, 2},
		{"capped limit", 1, 500, 250, Page{Number: 1, Limit: 100}, 3},
		{"empty", 3, 10, 0, Page{Number: 3, Limit: 10}, 0},
		{"capped page", math.MaxInt, 10, 3, Page{Number: MaxPageNumber, Limit: 10}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage(tc.page, tc.limit)
			assert.Equal(t, tc.expectedPage, p)
			pg := NewPagination(p, tc.total)
			assert.Equal(t, tc.expectedPages, pg.Pages)
			assert.Equal(t, tc.total, pg.Total)
		})
	}

	assert.Equal(t, 20, NewPage(3, 10).Offset())
	assert.Positive(t, NewPage(math.MaxInt, MaxPageLimit).Offset())
}

func TestDecimalRendersAsNumber(t *testing.T) {
	b, err := json.Marshal(map[string]decimal.Decimal{"amount": decimal.RequireFromString("1234.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":1234.5}`, string(b))
}
