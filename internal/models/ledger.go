package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of an accounting date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case string:
		parsed, err := ParseDate(v[:min(len(v), len(DateLayout))])
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// LedgerRow is one cash book entry.
type LedgerRow struct {
	ID             string          `json:"id" db:"id"`
	SerialNumber   int64           `json:"serialNumber" db:"sl_no"`
	Date           Date            `json:"date" db:"date"`
	CompanyName    string          `json:"companyName" db:"company_name"`
	AccountName    string          `json:"accountName" db:"account_name"`
	SubAccountName string          `json:"subAccountName" db:"sub_account_name"`
	Particulars    string          `json:"particulars" db:"particulars"`
	Credit         decimal.Decimal `json:"credit" db:"credit"`
	Debit          decimal.Decimal `json:"debit" db:"debit"`
	Staff          string          `json:"staff" db:"staff"`
	EnteredBy      string          `json:"enteredBy" db:"entered_by"`
	Approved       bool            `json:"approved" db:"approved"`
	Edited         bool            `json:"edited" db:"edited"`
	Locked         bool            `json:"locked" db:"locked"`
	EditCount      int             `json:"editCount" db:"edit_count"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// SameValues reports whether the user-editable fields of r and o match.
func (r LedgerRow) SameValues(o LedgerRow) bool {
	return r.Date.Equal(o.Date.Time) &&
		r.CompanyName == o.CompanyName &&
		r.AccountName == o.AccountName &&
		r.SubAccountName == o.SubAccountName &&
		r.Particulars == o.Particulars &&
		r.Credit.Equal(o.Credit) &&
		r.Debit.Equal(o.Debit) &&
		r.Staff == o.Staff
}

// Audit actions.
const (
	AuditUpdate  = "UPDATE"
	AuditLock    = "LOCK"
	AuditUnlock  = "UNLOCK"
	AuditApprove = "APPROVE"
	AuditDelete  = "DELETE"
)

// AuditRecord is an immutable before/after snapshot of a cash book row.
type AuditRecord struct {
	ID        string          `json:"id" db:"id"`
	EntryID   string          `json:"entryId" db:"cash_book_id"`
	Action    string          `json:"action" db:"action"`
	OldValues json.RawMessage `json:"oldValues" db:"old_values"`
	NewValues json.RawMessage `json:"newValues,omitempty" db:"new_values"`
	Actor     string          `json:"actor" db:"edited_by"`
	CreatedAt time.Time       `json:"createdAt" db:"edited_at"`
}
