package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thirumala/cashbook/internal/database"
	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/query"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Count(ctx context.Context, p query.Predicate) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) Range(ctx context.Context, p query.Predicate, order []query.Order, from, to int) ([]models.LedgerRow, error) {
	args := m.Called(ctx, p, order, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) Get(ctx context.Context, id string) (models.LedgerRow, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.LedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) Create(ctx context.Context, e models.LedgerRow) (models.LedgerRow, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(models.LedgerRow), args.Error(1)
}

// Mutate behaves like the store: the first return value is the row as
// read, and locked rows are refused unless allowLocked is set.
func (m *MockLedgerRepository) Mutate(ctx context.Context, id, actor, action string, allowLocked bool, fn database.Mutation) (models.LedgerRow, error) {
	args := m.Called(ctx, id, actor, action, allowLocked)
	if err := args.Error(1); err != nil {
		return models.LedgerRow{}, err
	}
	row := args.Get(0).(models.LedgerRow)
	if row.Locked && !allowLocked {
		return models.LedgerRow{}, database.ErrLocked
	}
	if err := fn(&row); err != nil {
		return models.LedgerRow{}, err
	}
	return row, nil
}

func (m *MockLedgerRepository) Delete(ctx context.Context, id, actor string, allowLocked bool) (models.LedgerRow, error) {
	args := m.Called(ctx, id, actor, allowLocked)
	return args.Get(0).(models.LedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) History(ctx context.Context, id string) ([]models.AuditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditRecord), args.Error(1)
}

func (m *MockLedgerRepository) Distinct(ctx context.Context, column string, p query.Predicate) ([]string, error) {
	args := m.Called(ctx, column, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockRowFetcher struct {
	mock.Mock
}

func (m *MockRowFetcher) FetchAll(ctx context.Context, p query.Predicate, order []query.Order) (*fetcher.Result, error) {
	args := m.Called(ctx, p, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fetcher.Result), args.Error(1)
}
