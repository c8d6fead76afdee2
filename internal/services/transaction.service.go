package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/analytics"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/prom"
)

const kindTransaction = "transaction"

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	ListBetween(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]*model.Transaction, error)
	Update(ctx context.Context, owner uuid.UUID, txn *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

type TransactionService struct {
	repo TransactionRepository
	loc  *time.Location
	now  Clock
}

func NewTransactionService(repo TransactionRepository, loc *time.Location) *TransactionService {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionService{
		repo: repo,
		loc:  loc,
		now:  systemClock,
	}
}

func (s *TransactionService) WithClock(c Clock) *TransactionService {
	s.now = c
	return s
}

func (s *TransactionService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, model.Pagination, error) {
	f.Page = model.NewPage(f.Page.Number, f.Page.Limit)
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, mapRepoErr(err, "list transactions")
	}
	return items, model.NewPagination(f.Page, total), nil
}

// Get returns the record only to its owner. A missing id is ErrNotFound, a
// foreign one ErrNotAuthorized.
func (s *TransactionService) Get(ctx context.Context, owner, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "find transaction")
	}
	if txn.Owner != owner {
		return nil, ErrNotAuthorized
	}
	return txn, nil
}

func (s *TransactionService) Create(ctx context.Context, owner uuid.UUID, req model.TransactionCreateRequest) (*model.Transaction, error) {
	now := s.now()
	txn := &model.Transaction{
		Type:            req.Type,
		Category:        req.Category,
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: now,
		EntryDate:       now,
		Owner:           owner,
	}
	if req.TransactionDate != nil {
		txn.TransactionDate = *req.TransactionDate
	}
	txn.Normalize()
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, txn)
	if err != nil {
		return nil, mapRepoErr(err, "create transaction")
	}
	prom.IncRecordMutation(kindTransaction, "create")
	return created, nil
}

// Update applies the partial request to the stored record and validates the
// merged result, so switching to expense without a category fails.
func (s *TransactionService) Update(ctx context.Context, owner, id uuid.UUID, req model.TransactionUpdateRequest) (*model.Transaction, error) {
	txn, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	req.Apply(txn)
	txn.Normalize()
	if err = txn.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, owner, txn)
	if err != nil {
		return nil, mapRepoErr(err, "update transaction")
	}
	prom.IncRecordMutation(kindTransaction, "update")
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return mapRepoErr(err, "delete transaction")
	}
	prom.IncRecordMutation(kindTransaction, "delete")
	return nil
}

// AnalyticsQuery selects the window: Range when set, otherwise Period.
type AnalyticsQuery struct {
	Period analytics.Period
	Range  *analytics.Range
}

func (s *TransactionService) Analytics(ctx context.Context, owner uuid.UUID, q AnalyticsQuery) (analytics.TransactionReport, error) {
	started := time.Now()

	r := analytics.PeriodRange(q.Period, s.now(), s.loc)
	if q.Range != nil {
		if q.Range.Start.After(q.Range.End) {
			return analytics.TransactionReport{}, model.NewValidationError("startDate", "startDate must not be after endDate")
		}
		r = *q.Range
	}

	txns, err := s.repo.ListBetween(ctx, owner, r.Start, r.End)
	if err != nil {
		return analytics.TransactionReport{}, mapRepoErr(err, "load transactions for analytics")
	}

	report := analytics.SummarizeTransactions(txns, r, s.loc)
	prom.ObserveReportDuration(kindTransaction, time.Since(started).Seconds())
	return report, nil
}
