package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type DebtorRepository struct {
	*pg.DB
}

func NewDebtorRepository(db *pg.DB) *DebtorRepository {
	return &DebtorRepository{
		db,
	}
}

func (r *DebtorRepository) Create(ctx context.Context, d *model.Debtor) (*model.Debtor, error) {
	if d.Owner == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	entity := toDebtorEntity(d)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, errors.Wrap(err, "create debtor")
	}

	return toDebtorModel(entity), nil
}

// FindByID looks a debtor up regardless of owner.
func (r *DebtorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Debtor, error) {
	var entity DebtorEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "find debtor")
	}
	return toDebtorModel(&entity), nil
}

func (r *DebtorRepository) List(ctx context.Context, f model.DebtorFilter) ([]*model.Debtor, int64, error) {
	if f.Owner == uuid.Nil {
		return nil, 0, ErrOwnerRequired
	}
	q := r.Read(ctx).Model(&DebtorEntity{}).Where("owner_id = ?", f.Owner)

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Overdue {
		q = q.Where("status = ? AND due_date < ?", string(model.DebtorStatusUnpaid), f.Now.UTC())
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where(`LOWER(client_name) LIKE ? ESCAPE '\'`, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count debtors")
	}

	page := model.NewPage(f.Page.Number, f.Page.Limit)
	var entities []*DebtorEntity
	err := q.Order("due_date ASC").Order("id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&entities).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list debtors")
	}

	return toDebtorModels(entities), total, nil
}

// ListAll returns every debtor of owner ordered by due date.
func (r *DebtorRepository) ListAll(ctx context.Context, owner uuid.UUID) ([]*model.Debtor, error) {
	if owner == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	var entities []*DebtorEntity
	err := r.Read(ctx).
		Where("owner_id = ?", owner).
		Order("due_date ASC").
		Find(&entities).Error
	if err != nil {
		return nil, errors.Wrap(err, "list all debtors")
	}
	return toDebtorModels(entities), nil
}

// Update overwrites the mutable columns, status and paid_at included, of a
// debtor owned by owner.
func (r *DebtorRepository) Update(ctx context.Context, owner uuid.UUID, d *model.Debtor) (*model.Debtor, error) {
	entity := toDebtorEntity(d)

	result := r.Write(ctx).Model(&DebtorEntity{}).
		Where("id = ? AND owner_id = ?", d.ID, owner).
		Updates(map[string]interface{}{
			"client_name":      entity.ClientName,
			"amount":           entity.Amount,
			"due_date":         entity.DueDate,
			"transaction_date": entity.TransactionDate,
			"status":           entity.Status,
			"paid_at":          entity.PaidAt,
		})
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "update debtor")
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return r.FindByID(ctx, d.ID)
}

func (r *DebtorRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result := r.Write(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&DebtorEntity{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete debtor")
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
