package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/audit"
	"github.com/thirumala/cashbook/internal/config"
	"github.com/thirumala/cashbook/internal/database"
	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/query"
)

var ErrForbidden = errors.New("operation requires admin role")

const (
	DefaultPageSize = 50
	MaxPageSize     = fetcher.MaxRowsPerRequest
)

// LedgerRepository is the storage the cash book operations need.
type LedgerRepository interface {
	fetcher.Source
	Get(ctx context.Context, id string) (models.LedgerRow, error)
	Create(ctx context.Context, e models.LedgerRow) (models.LedgerRow, error)
	Mutate(ctx context.Context, id, actor, action string, allowLocked bool, fn database.Mutation) (models.LedgerRow, error)
	Delete(ctx context.Context, id, actor string, allowLocked bool) (models.LedgerRow, error)
	History(ctx context.Context, id string) ([]models.AuditRecord, error)
	Distinct(ctx context.Context, column string, p query.Predicate) ([]string, error)
}

// RowFetcher loads every row matching a predicate.
type RowFetcher interface {
	FetchAll(ctx context.Context, p query.Predicate, order []query.Order) (*fetcher.Result, error)
}

// EntryInput is the editable part of a cash book entry.
type EntryInput struct {
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	CompanyName    string          `json:"companyName" validate:"required,max=200"`
	AccountName    string          `json:"accountName" validate:"required,max=200"`
	SubAccountName string          `json:"subAccountName" validate:"max=200"`
	Particulars    string          `json:"particulars" validate:"max=1000"`
	Credit         decimal.Decimal `json:"credit" validate:"decimalgte0"`
	Debit          decimal.Decimal `json:"debit" validate:"decimalgte0"`
	Staff          string          `json:"staff" validate:"max=100"`
	AllowZero      bool            `json:"allowZero"`
}

// apply copies the input onto row. Names are trimmed so grouping and
// filters see one spelling.
func (in EntryInput) apply(row *models.LedgerRow) error {
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return err
	}
	row.Date = date
	row.CompanyName = strings.TrimSpace(in.CompanyName)
	row.AccountName = strings.TrimSpace(in.AccountName)
	row.SubAccountName = strings.TrimSpace(in.SubAccountName)
	row.Particulars = strings.TrimSpace(in.Particulars)
	row.Credit = in.Credit.Round(2)
	row.Debit = in.Debit.Round(2)
	row.Staff = strings.TrimSpace(in.Staff)
	return nil
}

// EntryPage is one page of the entry list.
type EntryPage struct {
	Entries []models.LedgerRow `json:"entries"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
}

type CashbookService struct {
	store   LedgerRepository
	fetcher RowFetcher
	idem    *IdempotencyStore
	audit   *audit.Logger
	logger  logrus.FieldLogger
}

func NewCashbookService(store LedgerRepository, f RowFetcher, idem *IdempotencyStore, auditLog *audit.Logger, logger logrus.FieldLogger) *CashbookService {
	return &CashbookService{
		store:   store,
		fetcher: f,
		idem:    idem,
		audit:   auditLog,
		logger:  logger,
	}
}

// Create inserts a new entry. With an idempotency key, a repeat of a
// completed request returns the row it created and replayed=true.
func (s *CashbookService) Create(ctx context.Context, actor models.Actor, idemKey string, in EntryInput) (row models.LedgerRow, replayed bool, err error) {
	existingID, claimed, err := s.idem.Claim(ctx, idemKey)
	if err != nil {
		return models.LedgerRow{}, false, err
	}
	if !claimed {
		existing, err := s.store.Get(ctx, existingID)
		return existing, err == nil, err
	}

	entry := models.LedgerRow{EnteredBy: actor.Label()}
	if err := in.apply(&entry); err != nil {
		s.idem.Release(ctx, idemKey)
		return models.LedgerRow{}, false, err
	}
	if entry.Staff == "" {
		entry.Staff = actor.Label()
	}

	created, err := s.store.Create(ctx, entry)
	if err != nil {
		s.idem.Release(ctx, idemKey)
		config.LogError(s.logger, "services", "CashbookService.Create", "insert entry", entry, err)
		return models.LedgerRow{}, false, err
	}
	if err := s.idem.Complete(ctx, idemKey, created.ID); err != nil {
		s.logger.WithError(err).WithField("entry_id", created.ID).Warn("failed to record idempotency key")
	}
	return created, false, nil
}

func (s *CashbookService) Get(ctx context.Context, id string) (models.LedgerRow, error) {
	return s.store.Get(ctx, id)
}

// List returns one page of the filtered entries, newest first.
func (s *CashbookService) List(ctx context.Context, f query.Filter, page, limit int) (*EntryPage, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)

	p := query.Build(f)
	total, err := s.store.Count(ctx, p)
	if err != nil {
		return nil, err
	}

	result := &EntryPage{Entries: []models.LedgerRow{}, Total: total, Page: page, Limit: limit}
	// compare page counts first so a huge page number cannot overflow the offset
	if pages := (total + limit - 1) / limit; page-1 >= pages {
		return result, nil
	}
	from := (page - 1) * limit
	entries, err := s.store.Range(ctx, p, nil, from, from+limit-1)
	if err != nil {
		return nil, err
	}
	result.Entries = entries
	return result, nil
}

// ListAll returns every filtered entry through the paginated fetcher.
func (s *CashbookService) ListAll(ctx context.Context, f query.Filter) (*fetcher.Result, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.fetcher.FetchAll(ctx, query.Build(f), nil)
}

// Update rewrites the editable fields. Only admins may edit locked rows.
func (s *CashbookService) Update(ctx context.Context, actor models.Actor, id string, in EntryInput) (models.LedgerRow, error) {
	return s.mutate(ctx, actor, id, models.AuditUpdate, actor.IsAdmin(), func(row *models.LedgerRow) error {
		next := *row
		if err := in.apply(&next); err != nil {
			return err
		}
		if next.SameValues(*row) {
			return database.ErrNoChange
		}
		next.Edited = true
		next.EditCount++
		*row = next
		return nil
	})
}

func (s *CashbookService) Lock(ctx context.Context, actor models.Actor, id string) (models.LedgerRow, error) {
	return s.setFlag(ctx, actor, id, models.AuditLock, func(r *models.LedgerRow) *bool { return &r.Locked }, true)
}

func (s *CashbookService) Unlock(ctx context.Context, actor models.Actor, id string) (models.LedgerRow, error) {
	return s.setFlag(ctx, actor, id, models.AuditUnlock, func(r *models.LedgerRow) *bool { return &r.Locked }, false)
}

// Approve marks an entry approved. It is audited but does not count as an
// edit.
func (s *CashbookService) Approve(ctx context.Context, actor models.Actor, id string) (models.LedgerRow, error) {
	return s.mutate(ctx, actor, id, models.AuditApprove, actor.IsAdmin(), func(row *models.LedgerRow) error {
		if row.Approved {
			return database.ErrNoChange
		}
		row.Approved = true
		return nil
	})
}

func (s *CashbookService) setFlag(ctx context.Context, actor models.Actor, id, action string, field func(*models.LedgerRow) *bool, value bool) (models.LedgerRow, error) {
	if !actor.IsAdmin() {
		s.audit.LogError(action, actor.Label(), id, ErrForbidden)
		return models.LedgerRow{}, ErrForbidden
	}
	return s.mutate(ctx, actor, id, action, true, func(row *models.LedgerRow) error {
		flag := field(row)
		if *flag == value {
			return database.ErrNoChange
		}
		*flag = value
		return nil
	})
}

func (s *CashbookService) mutate(ctx context.Context, actor models.Actor, id, action string, allowLocked bool, fn database.Mutation) (models.LedgerRow, error) {
	row, err := s.store.Mutate(ctx, id, actor.Label(), action, allowLocked, fn)
	switch {
	case err == nil:
		s.audit.LogMutation(action, actor.Label(), row, nil)
	case errors.Is(err, database.ErrNoChange), errors.Is(err, database.ErrNotFound):
	default:
		s.audit.LogError(action, actor.Label(), id, err)
	}
	return row, err
}

// Delete removes an unlocked entry. Admin only.
func (s *CashbookService) Delete(ctx context.Context, actor models.Actor, id string) (models.LedgerRow, error) {
	if !actor.IsAdmin() {
		s.audit.LogError(models.AuditDelete, actor.Label(), id, ErrForbidden)
		return models.LedgerRow{}, ErrForbidden
	}
	row, err := s.store.Delete(ctx, id, actor.Label(), false)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.audit.LogError(models.AuditDelete, actor.Label(), id, err)
		}
		return models.LedgerRow{}, err
	}
	s.audit.LogMutation(models.AuditDelete, actor.Label(), row, nil)
	return row, nil
}

// History returns the audit trail of an existing entry.
func (s *CashbookService) History(ctx context.Context, id string) ([]models.AuditRecord, error) {
	records, err := s.store.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", id, err)
	}
	return records, nil
}
