package database

import (
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cash_book (
		id               TEXT PRIMARY KEY,
		sl_no            BIGINT NOT NULL UNIQUE,
		date             DATE NOT NULL,
		company_name     TEXT NOT NULL DEFAULT '',
		account_name     TEXT NOT NULL DEFAULT '',
		sub_account_name TEXT NOT NULL DEFAULT '',
		particulars      TEXT NOT NULL DEFAULT '',
		credit           NUMERIC(15,2) CHECK (credit >= 0),
		debit            NUMERIC(15,2) CHECK (debit >= 0),
		staff            TEXT NOT NULL DEFAULT '',
		entered_by       TEXT NOT NULL DEFAULT '',
		approved         BOOLEAN NOT NULL DEFAULT FALSE,
		edited           BOOLEAN NOT NULL DEFAULT FALSE,
		locked           BOOLEAN NOT NULL DEFAULT FALSE,
		edit_count       INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_book_date ON cash_book (date DESC, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_book_company ON cash_book (company_name)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_book_account ON cash_book (account_name)`,
	`CREATE TABLE IF NOT EXISTS edit_audit_log (
		id           TEXT PRIMARY KEY,
		cash_book_id TEXT NOT NULL,
		action       TEXT NOT NULL,
		old_values   JSONB NOT NULL,
		new_values   JSONB,
		edited_by    TEXT NOT NULL,
		edited_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_edit_audit_log_entry ON edit_audit_log (cash_book_id, edited_at DESC)`,
}

// Migrate creates the tables and indexes if they do not exist.
func Migrate(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
