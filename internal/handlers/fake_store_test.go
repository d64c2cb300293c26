package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/thirumala/cashbook/internal/database"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/query"
)

// memStore is an in-memory services.LedgerRepository with the same
// locking and audit rules as database.LedgerStore.
type memStore struct {
	mu       sync.Mutex
	rows     []models.LedgerRow
	history  []models.AuditRecord
	countErr error
	nextID   int
}

func (s *memStore) add(rows ...models.LedgerRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.nextID++
		if r.ID == "" {
			r.ID = fmt.Sprintf("e%d", s.nextID)
		}
		if r.SerialNumber == 0 {
			r.SerialNumber = int64(s.nextID)
		}
		s.rows = append(s.rows, r)
	}
}

func (s *memStore) matching(p query.Predicate) []models.LedgerRow {
	var out []models.LedgerRow
	for _, r := range s.rows {
		if p.Matches(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].SerialNumber > out[j].SerialNumber
	})
	return out
}

func (s *memStore) Count(_ context.Context, p query.Predicate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.matching(p)), nil
}

func (s *memStore) Range(_ context.Context, p query.Predicate, _ []query.Order, from, to int) ([]models.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.matching(p)
	if from >= len(rows) {
		return []models.LedgerRow{}, nil
	}
	end := min(to+1, len(rows))
	return append([]models.LedgerRow{}, rows[from:end]...), nil
}

func (s *memStore) find(id string) (int, bool) {
	for i, r := range s.rows {
		if r.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *memStore) Get(_ context.Context, id string) (models.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return models.LedgerRow{}, database.ErrNotFound
	}
	return s.rows[i], nil
}

func (s *memStore) Create(_ context.Context, e models.LedgerRow) (models.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxSerial int64
	for _, r := range s.rows {
		maxSerial = max(maxSerial, r.SerialNumber)
	}
	s.nextID++
	e.ID = fmt.Sprintf("e%d", s.nextID)
	e.SerialNumber = maxSerial + 1
	e.CreatedAt = time.Now()
	s.rows = append(s.rows, e)
	return e, nil
}

func (s *memStore) audit(id, action, actor string, before, after *models.LedgerRow) {
	old, _ := json.Marshal(before)
	rec := models.AuditRecord{
		ID:        fmt.Sprintf("h%d", len(s.history)+1),
		EntryID:   id,
		Action:    action,
		OldValues: old,
		Actor:     actor,
		CreatedAt: time.Now().Add(time.Duration(len(s.history)) * time.Second),
	}
	if after != nil {
		rec.NewValues, _ = json.Marshal(after)
	}
	s.history = append(s.history, rec)
}

func (s *memStore) Mutate(_ context.Context, id, actor, action string, allowLocked bool, fn database.Mutation) (models.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return models.LedgerRow{}, database.ErrNotFound
	}
	before := s.rows[i]
	if before.Locked && !allowLocked {
		return models.LedgerRow{}, database.ErrLocked
	}
	after := before
	if err := fn(&after); err != nil {
		return models.LedgerRow{}, err
	}
	s.rows[i] = after
	s.audit(id, action, actor, &before, &after)
	return after, nil
}

func (s *memStore) Delete(_ context.Context, id, actor string, allowLocked bool) (models.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return models.LedgerRow{}, database.ErrNotFound
	}
	before := s.rows[i]
	if before.Locked && !allowLocked {
		return models.LedgerRow{}, database.ErrLocked
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	s.audit(id, models.AuditDelete, actor, &before, nil)
	return before, nil
}

func (s *memStore) History(_ context.Context, id string) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AuditRecord{}
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].EntryID == id {
			out = append(out, s.history[i])
		}
	}
	return out, nil
}

func (s *memStore) Distinct(_ context.Context, column string, p query.Predicate) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	for _, r := range s.matching(p) {
		var v string
		switch column {
		case query.ColCompany:
			v = r.CompanyName
		case query.ColAccount:
			v = r.AccountName
		case query.ColSubAccount:
			v = r.SubAccountName
		default:
			return nil, errors.New("bad column")
		}
		if v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}
