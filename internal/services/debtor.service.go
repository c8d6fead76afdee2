package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/analytics"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/prom"
)

const kindDebtor = "debtor"

type DebtorRepository interface {
	Create(ctx context.Context, d *model.Debtor) (*model.Debtor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Debtor, error)
	List(ctx context.Context, f model.DebtorFilter) ([]*model.Debtor, int64, error)
	ListAll(ctx context.Context, owner uuid.UUID) ([]*model.Debtor, error)
	Update(ctx context.Context, owner uuid.UUID, d *model.Debtor) (*model.Debtor, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

type DebtorService struct {
	repo DebtorRepository
	now  Clock
}

func NewDebtorService(repo DebtorRepository) *DebtorService {
	return &DebtorService{
		repo: repo,
		now:  systemClock,
	}
}

func (s *DebtorService) WithClock(c Clock) *DebtorService {
	s.now = c
	return s
}

// Now is the instant overdue state is evaluated against.
func (s *DebtorService) Now() time.Time {
	return s.now()
}

func (s *DebtorService) List(ctx context.Context, f model.DebtorFilter) ([]*model.Debtor, model.Pagination, error) {
	f.Page = model.NewPage(f.Page.Number, f.Page.Limit)
	if f.Now.IsZero() {
		f.Now = s.now()
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, mapRepoErr(err, "list debtors")
	}
	return items, model.NewPagination(f.Page, total), nil
}

func (s *DebtorService) Get(ctx context.Context, owner, id uuid.UUID) (*model.Debtor, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "find debtor")
	}
	if d.Owner != owner {
		return nil, ErrNotAuthorized
	}
	return d, nil
}

func (s *DebtorService) Create(ctx context.Context, owner uuid.UUID, req model.DebtorCreateRequest) (*model.Debtor, error) {
	now := s.now()
	d := &model.Debtor{
		ClientName:      req.ClientName,
		Amount:          req.Amount,
		DueDate:         req.DueDate,
		TransactionDate: now,
		Status:          model.DebtorStatusUnpaid,
		EntryDate:       now,
		Owner:           owner,
	}
	if req.TransactionDate != nil {
		d.TransactionDate = *req.TransactionDate
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, mapRepoErr(err, "create debtor")
	}
	prom.IncRecordMutation(kindDebtor, "create")
	return created, nil
}

func (s *DebtorService) Update(ctx context.Context, owner, id uuid.UUID, req model.DebtorUpdateRequest) (*model.Debtor, error) {
	d, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	req.Apply(d)
	d.Normalize()
	if err = d.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, owner, d)
	if err != nil {
		return nil, mapRepoErr(err, "update debtor")
	}
	prom.IncRecordMutation(kindDebtor, "update")
	return updated, nil
}

// MarkPaid is idempotent; a debt that is already paid is returned unchanged.
func (s *DebtorService) MarkPaid(ctx context.Context, owner, id uuid.UUID) (*model.Debtor, error) {
	d, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if d.Status == model.DebtorStatusPaid {
		return d, nil
	}

	d.MarkPaid(s.now())
	updated, err := s.repo.Update(ctx, owner, d)
	if err != nil {
		return nil, mapRepoErr(err, "mark debtor paid")
	}
	prom.IncRecordMutation(kindDebtor, "mark_paid")
	return updated, nil
}

func (s *DebtorService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return mapRepoErr(err, "delete debtor")
	}
	prom.IncRecordMutation(kindDebtor, "delete")
	return nil
}

func (s *DebtorService) Analytics(ctx context.Context, owner uuid.UUID) (analytics.DebtorReport, error) {
	started := time.Now()
	debtors, err := s.repo.ListAll(ctx, owner)
	if err != nil {
		return analytics.DebtorReport{}, mapRepoErr(err, "load debtors for analytics")
	}
	report := analytics.SummarizeDebtors(debtors, s.now())
	prom.ObserveReportDuration(kindDebtor, time.Since(started).Seconds())
	return report, nil
}
