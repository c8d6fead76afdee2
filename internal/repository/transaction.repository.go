package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if txn.Owner == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, errors.Wrap(err, "create transaction")
	}

	return toTransactionModel(entity), nil
}

// FindByID looks a transaction up regardless of owner. Callers compare the
// returned owner to tell a missing record from a foreign one.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "find transaction")
	}
	return toTransactionModel(&entity), nil
}

func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	if f.Owner == uuid.Nil {
		return nil, 0, ErrOwnerRequired
	}
	q := r.Read(ctx).Model(&TransactionEntity{}).Where("owner_id = ?", f.Owner)

	if f.Type != nil {
		q = q.Where("type = ?", string(*f.Type))
	}
	if f.From != nil {
		q = q.Where("transaction_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("transaction_date <= ?", f.To.UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count transactions")
	}

	page := model.NewPage(f.Page.Number, f.Page.Limit)
	var entities []*TransactionEntity
	err := q.Order("transaction_date DESC").Order("id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&entities).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list transactions")
	}

	return toTransactionModels(entities), total, nil
}

// ListBetween returns every transaction of owner dated within [from, to].
func (r *TransactionRepository) ListBetween(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]*model.Transaction, error) {
	if owner == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	var entities []*TransactionEntity
	err := r.Read(ctx).
		Where("owner_id = ? AND transaction_date >= ? AND transaction_date <= ?", owner, from.UTC(), to.UTC()).
		Order("transaction_date ASC").
		Find(&entities).Error
	if err != nil {
		return nil, errors.Wrap(err, "list transactions in range")
	}
	return toTransactionModels(entities), nil
}

// Update overwrites the mutable columns of a transaction owned by owner.
func (r *TransactionRepository) Update(ctx context.Context, owner uuid.UUID, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	result := r.Write(ctx).Model(&TransactionEntity{}).
		Where("id = ? AND owner_id = ?", txn.ID, owner).
		Updates(map[string]interface{}{
			"type":             entity.Type,
			"category":         entity.Category,
			"amount":           entity.Amount,
			"description":      entity.Description,
			"transaction_date": entity.TransactionDate,
		})
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "update transaction")
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return r.FindByID(ctx, txn.ID)
}

func (r *TransactionRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result := r.Write(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&TransactionEntity{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete transaction")
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
