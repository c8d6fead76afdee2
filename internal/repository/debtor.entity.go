package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/shopspring/decimal"
)

type DebtorEntity struct {
	pg.Model
	ClientName      string          `db:"client_name"      gorm:"column:client_name;not null"`
	Amount          decimal.Decimal `db:"amount"           gorm:"column:amount;type:numeric(14,2);not null"`
	DueDate         time.Time       `db:"due_date"         gorm:"column:due_date;not null;index"`
	TransactionDate time.Time       `db:"transaction_date" gorm:"column:transaction_date;not null"`
	Status          string          `db:"status"           gorm:"column:status;not null"`
	PaidAt          *time.Time      `db:"paid_at"          gorm:"column:paid_at"`
	EntryDate       time.Time       `db:"entry_date"       gorm:"column:entry_date;not null"`
	OwnerID         uuid.UUID       `db:"owner_id"         gorm:"column:owner_id;type:uuid;not null;index"`
}

func (DebtorEntity) TableName() string {
	return "debtors"
}

func toDebtorEntity(m *model.Debtor) *DebtorEntity {
	if m == nil {
		return nil
	}
	var paidAt *time.Time
	if m.PaidAt != nil {
		t := m.PaidAt.UTC()
		paidAt = &t
	}
	return &DebtorEntity{
		Model:           pg.Model{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ClientName:      m.ClientName,
		Amount:          m.Amount,
		DueDate:         m.DueDate.UTC(),
		TransactionDate: m.TransactionDate.UTC(),
		Status:          string(m.Status),
		PaidAt:          paidAt,
		EntryDate:       m.EntryDate.UTC(),
		OwnerID:         m.Owner,
	}
}

func toDebtorModel(e *DebtorEntity) *model.Debtor {
	if e == nil {
		return nil
	}
	return &model.Debtor{
		ID:              e.ID,
		ClientName:      e.ClientName,
		Amount:          e.Amount,
		DueDate:         e.DueDate,
		TransactionDate: e.TransactionDate,
		Status:          model.DebtorStatus(e.Status),
		PaidAt:          e.PaidAt,
		EntryDate:       e.EntryDate,
		Owner:           e.OwnerID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toDebtorModels(entities []*DebtorEntity) []*model.Debtor {
	models := make([]*model.Debtor, len(entities))
	for i, e := range entities {
		models[i] = toDebtorModel(e)
	}
	return models
}
