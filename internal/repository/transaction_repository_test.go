package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(owner uuid.UUID, typ model.TransactionType, category model.ExpenseCategory, amount int64, at time.Time) *model.Transaction {
	return &model.Transaction{
		Type:            typ,
		Category:        category,
		Amount:          decimal.NewFromInt(amount),
		TransactionDate: at,
		EntryDate:       at,
		Owner:           owner,
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	owner := uuid.New()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create expense", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestTransaction(owner, model.TransactionTypeExpense, model.CategoryFuel, 100, at))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, model.CategoryFuel, created.Category)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, found.Owner)
		assert.Equal(t, model.CategoryFuel, found.Category)
		assert.True(t, decimal.NewFromInt(100).Equal(found.Amount))
		assert.True(t, at.Equal(found.TransactionDate))
	})

	t.Run("sale stores no category", func(t *testing.T) {
		created, err := repo.Create(ctx, newTestTransaction(owner, model.TransactionTypeSale, "", 500, at))
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Category)
	})

	t.Run("owner is required", func(t *testing.T) {
		_, err := repo.Create(ctx, newTestTransaction(uuid.Nil, model.TransactionTypeSale, "", 1, at))
		assert.ErrorIs(t, err, ErrOwnerRequired)
	})
}

func TestTransactionRepository_FindByID_NotFound(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestTransactionRepository_List(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, newTestTransaction(owner, model.TransactionTypeSale, "", int64(100+i), base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, newTestTransaction(owner, model.TransactionTypeExpense, model.CategoryRepairs, 10, base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newTestTransaction(other, model.TransactionTypeSale, "", 999, base))
	require.NoError(t, err)

	t.Run("scoped to owner, newest first", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Owner: owner, Page: model.NewPage(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		require.Len(t, items, 7)
		for _, item := range items {
			assert.Equal(t, owner, item.Owner)
		}
		for i := 1; i < len(items); i++ {
			assert.False(t, items[i].TransactionDate.After(items[i-1].TransactionDate))
		}
	})

	t.Run("type filter", func(t *testing.T) {
		expense := model.TransactionTypeExpense
		items, total, err := repo.List(ctx, model.TransactionFilter{Owner: owner, Type: &expense, Page: model.NewPage(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		to := base.AddDate(0, 0, 3)
		sale := model.TransactionTypeSale
		items, total, err := repo.List(ctx, model.TransactionFilter{Owner: owner, Type: &sale, From: &from, To: &to, Page: model.NewPage(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 3)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Owner: owner, Page: model.NewPage(2, 3)})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Len(t, items, 3)

		items, total, err = repo.List(ctx, model.TransactionFilter{Owner: owner, Page: model.NewPage(9, 3)})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Empty(t, items)
	})

	t.Run("huge page is past the end", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.TransactionFilter{Owner: owner, Page: model.NewPage(math.MaxInt, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Empty(t, items)
	})

	t.Run("owner is required", func(t *testing.T) {
		_, _, err := repo.List(ctx, model.TransactionFilter{})
		assert.ErrorIs(t, err, ErrOwnerRequired)
	})
}

func TestTransactionRepository_ListBetween(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, d := range []int{-20, -5, 0} {
		_, err := repo.Create(ctx, newTestTransaction(owner, model.TransactionTypeSale, "", 1, base.AddDate(0, 0, d)))
		require.NoError(t, err)
	}

	items, err := repo.ListBetween(ctx, owner, base.AddDate(0, 0, -7), base)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestTransactionRepository_UpdateAndDelete(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	owner := uuid.New()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, newTestTransaction(owner, model.TransactionTypeExpense, model.CategoryFuel, 100, at))
	require.NoError(t, err)

	t.Run("update clears category when type changes", func(t *testing.T) {
		created.Type = model.TransactionTypeSale
		created.Category = ""
		created.Amount = decimal.RequireFromString("250.75")
		created.Description = "weekly sale"

		updated, err := repo.Update(ctx, owner, created)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeSale, updated.Type)
		assert.Empty(t, updated.Category)
		assert.True(t, decimal.RequireFromString("250.75").Equal(updated.Amount))
		assert.Equal(t, "weekly sale", updated.Description)
		assert.Equal(t, owner, updated.Owner)
	})

	t.Run("foreign owner cannot update or delete", func(t *testing.T) {
		_, err := repo.Update(ctx, uuid.New(), created)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), created.ID), ErrRecordNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, owner, created.ID))
		_, err := repo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, owner, created.ID), ErrRecordNotFound)
	})
}
