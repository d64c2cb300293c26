package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/query"
)

var (
	ErrNotFound = errors.New("entry not found")
	ErrLocked   = errors.New("entry is locked")
	ErrNoChange = errors.New("no fields changed")
)

// serialLockKey serializes sl_no allocation across concurrent inserts.
const serialLockKey = 72_001

const ledgerColumns = `id, sl_no, date, company_name, account_name, sub_account_name, particulars,
	credit, debit, staff, entered_by, approved, edited, locked, edit_count, created_at, updated_at`

// LedgerStore reads and writes the cash_book table and its audit log. It
// implements fetcher.Source.
type LedgerStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ fetcher.Source = (*LedgerStore)(nil)

// Count returns how many rows match p.
func (s *LedgerStore) Count(ctx context.Context, p query.Predicate) (int, error) {
	where, args := p.SQL(1)
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cash_book WHERE "+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count cash_book: %w", err)
	}
	return total, nil
}

// Range returns rows [from, to] of the ordered result, never more than the
// per-request cap.
func (s *LedgerStore) Range(ctx context.Context, p query.Predicate, order []query.Order, from, to int) ([]models.LedgerRow, error) {
	if from < 0 || to < from {
		return nil, fmt.Errorf("invalid range [%d, %d]", from, to)
	}
	limit := min(to-from+1, fetcher.MaxRowsPerRequest)

	where, args := p.SQL(1)
	n := len(args)
	q := fmt.Sprintf("SELECT %s FROM cash_book WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		ledgerColumns, where, query.OrderSQL(order), n+1, n+2)
	args = append(args, limit, from)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("range cash_book [%d, %d]: %w", from, to, err)
	}
	defer rows.Close()

	entries := []models.LedgerRow{}
	for rows.Next() {
		e, err := scanLedgerRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanLedgerRow coerces NULL amounts to zero so nothing downstream sees them.
func scanLedgerRow(sc rowScanner) (models.LedgerRow, error) {
	var (
		e             models.LedgerRow
		credit, debit decimal.NullDecimal
	)
	err := sc.Scan(
		&e.ID, &e.SerialNumber, &e.Date, &e.CompanyName, &e.AccountName, &e.SubAccountName, &e.Particulars,
		&credit, &debit, &e.Staff, &e.EnteredBy, &e.Approved, &e.Edited, &e.Locked, &e.EditCount,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return models.LedgerRow{}, err
	}
	if credit.Valid {
		e.Credit = credit.Decimal
	}
	if debit.Valid {
		e.Debit = debit.Decimal
	}
	return e, nil
}

// Get returns one row by id.
func (s *LedgerStore) Get(ctx context.Context, id string) (models.LedgerRow, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+ledgerColumns+" FROM cash_book WHERE id = $1", id)
	e, err := scanLedgerRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LedgerRow{}, ErrNotFound
	}
	return e, err
}

// Create inserts e with a new id and the next serial number.
func (s *LedgerStore) Create(ctx context.Context, e models.LedgerRow) (models.LedgerRow, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.LedgerRow{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", serialLockKey); err != nil {
		return models.LedgerRow{}, fmt.Errorf("lock serial: %w", err)
	}
	var next int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(sl_no), 0) + 1 FROM cash_book").Scan(&next); err != nil {
		return models.LedgerRow{}, fmt.Errorf("next serial: %w", err)
	}

	now := s.now()
	e.ID = uuid.NewString()
	e.SerialNumber = next
	e.CreatedAt, e.UpdatedAt = now, now
	e.Edited, e.EditCount = false, 0

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cash_book (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		e.ID, e.SerialNumber, e.Date, e.CompanyName, e.AccountName, e.SubAccountName, e.Particulars,
		e.Credit, e.Debit, e.Staff, e.EnteredBy, e.Approved, e.Edited, e.Locked, e.EditCount,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return models.LedgerRow{}, fmt.Errorf("insert cash_book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.LedgerRow{}, err
	}
	return e, nil
}

// Mutation changes a locked-for-update row in place. Returning ErrNoChange
// aborts without writing.
type Mutation func(row *models.LedgerRow) error

// Mutate reads the row FOR UPDATE, applies fn, writes the row back and
// records the before/after snapshot in one transaction. Locked rows are
// refused unless allowLocked is set.
func (s *LedgerStore) Mutate(ctx context.Context, id, actor, action string, allowLocked bool, fn Mutation) (models.LedgerRow, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.LedgerRow{}, err
	}
	defer tx.Rollback()

	before, err := lockRow(ctx, tx, id)
	if err != nil {
		return models.LedgerRow{}, err
	}
	if before.Locked && !allowLocked {
		return models.LedgerRow{}, ErrLocked
	}

	after := before
	if err := fn(&after); err != nil {
		return models.LedgerRow{}, err
	}
	after.ID, after.SerialNumber, after.CreatedAt = before.ID, before.SerialNumber, before.CreatedAt
	after.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx, `
		UPDATE cash_book
		SET date = $1, company_name = $2, account_name = $3, sub_account_name = $4, particulars = $5,
			credit = $6, debit = $7, staff = $8, approved = $9, edited = $10, locked = $11,
			edit_count = $12, updated_at = $13
		WHERE id = $14`,
		after.Date, after.CompanyName, after.AccountName, after.SubAccountName, after.Particulars,
		after.Credit, after.Debit, after.Staff, after.Approved, after.Edited, after.Locked,
		after.EditCount, after.UpdatedAt, id)
	if err != nil {
		return models.LedgerRow{}, fmt.Errorf("update cash_book %s: %w", id, err)
	}

	if err := s.insertAudit(ctx, tx, id, action, actor, &before, &after); err != nil {
		return models.LedgerRow{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.LedgerRow{}, err
	}
	return after, nil
}

// Delete removes a row and keeps its last values in the audit log.
func (s *LedgerStore) Delete(ctx context.Context, id, actor string, allowLocked bool) (models.LedgerRow, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.LedgerRow{}, err
	}
	defer tx.Rollback()

	before, err := lockRow(ctx, tx, id)
	if err != nil {
		return models.LedgerRow{}, err
	}
	if before.Locked && !allowLocked {
		return models.LedgerRow{}, ErrLocked
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cash_book WHERE id = $1", id); err != nil {
		return models.LedgerRow{}, fmt.Errorf("delete cash_book %s: %w", id, err)
	}
	if err := s.insertAudit(ctx, tx, id, models.AuditDelete, actor, &before, nil); err != nil {
		return models.LedgerRow{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.LedgerRow{}, err
	}
	return before, nil
}

func lockRow(ctx context.Context, tx *sql.Tx, id string) (models.LedgerRow, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+ledgerColumns+" FROM cash_book WHERE id = $1 FOR UPDATE", id)
	e, err := scanLedgerRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LedgerRow{}, ErrNotFound
	}
	if err != nil {
		return models.LedgerRow{}, fmt.Errorf("lock cash_book %s: %w", id, err)
	}
	return e, nil
}

func (s *LedgerStore) insertAudit(ctx context.Context, tx *sql.Tx, id, action, actor string, before, after *models.LedgerRow) error {
	oldJSON, err := json.Marshal(before)
	if err != nil {
		return err
	}
	// lib/pq sends []byte as bytea, so JSONB values go over as text.
	oldValues := string(oldJSON)
	var newValues any
	if after != nil {
		newJSON, err := json.Marshal(after)
		if err != nil {
			return err
		}
		newValues = string(newJSON)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO edit_audit_log (id, cash_book_id, action, old_values, new_values, edited_by, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), id, action, oldValues, newValues, actor, s.now())
	if err != nil {
		return fmt.Errorf("insert audit for %s: %w", id, err)
	}
	return nil
}

// History returns the audit trail of a row, newest first.
func (s *LedgerStore) History(ctx context.Context, id string) ([]models.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cash_book_id, action, old_values, new_values, edited_by, edited_at
		FROM edit_audit_log
		WHERE cash_book_id = $1
		ORDER BY edited_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("audit history %s: %w", id, err)
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	for rows.Next() {
		var (
			rec       models.AuditRecord
			oldValues []byte
			newValues []byte
		)
		if err := rows.Scan(&rec.ID, &rec.EntryID, &rec.Action, &oldValues, &newValues, &rec.Actor, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.OldValues = oldValues
		if len(newValues) > 0 {
			rec.NewValues = newValues
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// distinctColumns are the master-data columns Distinct may list.
var distinctColumns = map[string]bool{
	query.ColCompany:    true,
	query.ColAccount:    true,
	query.ColSubAccount: true,
}

// Distinct lists the non-empty values of a classification column, narrowed by p.
func (s *LedgerStore) Distinct(ctx context.Context, column string, p query.Predicate) ([]string, error) {
	if !distinctColumns[column] {
		return nil, fmt.Errorf("column %q cannot be listed", column)
	}
	where, args := p.SQL(1)
	q := fmt.Sprintf("SELECT DISTINCT %[1]s FROM cash_book WHERE %[1]s <> '' AND %[2]s ORDER BY %[1]s", column, where)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
