package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/shopspring/decimal"
)

type TransactionEntity struct {
	pg.Model
	Type            string          `db:"type"             gorm:"column:type;not null"`
	Category        *string         `db:"category"         gorm:"column:category"`
	Amount          decimal.Decimal `db:"amount"           gorm:"column:amount;type:numeric(14,2);not null"`
	Description     string          `db:"description"      gorm:"column:description;not null"`
	TransactionDate time.Time       `db:"transaction_date" gorm:"column:transaction_date;not null;index"`
	EntryDate       time.Time       `db:"entry_date"       gorm:"column:entry_date;not null"`
	OwnerID         uuid.UUID       `db:"owner_id"         gorm:"column:owner_id;type:uuid;not null;index"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	var category *string
	if m.Category != "" {
		c := string(m.Category)
		category = &c
	}
	return &TransactionEntity{
		Model:           pg.Model{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Type:            string(m.Type),
		Category:        category,
		Amount:          m.Amount,
		Description:     m.Description,
		TransactionDate: m.TransactionDate.UTC(),
		EntryDate:       m.EntryDate.UTC(),
		OwnerID:         m.Owner,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	m := &model.Transaction{
		ID:              e.ID,
		Type:            model.TransactionType(e.Type),
		Amount:          e.Amount,
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		EntryDate:       e.EntryDate,
		Owner:           e.OwnerID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Category != nil {
		m.Category = model.ExpenseCategory(*e.Category)
	}
	return m
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
