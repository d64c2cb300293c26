// Package query turns report and list filters into predicates that can be
// rendered as SQL, evaluated against rows in memory, or signed for caching.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thirumala/cashbook/internal/models"
)

// Status filter values.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusLocked   = "locked"
	StatusUnlocked = "unlocked"
	StatusEdited   = "edited"
)

// KeyAll stands in for an unset field in cache signatures.
const KeyAll = "all"

var ErrInvalidFilter = errors.New("invalid filter")

// Filter holds the optional narrowing fields shared by every report, the
// entry list and the bulk edit view. Empty strings mean "no filter".
type Filter struct {
	CompanyName    string `json:"companyName"`
	AccountName    string `json:"accountName"`
	SubAccountName string `json:"subAccountName"`
	Status         string `json:"status"`
	FromDate       string `json:"fromDate"`
	ToDate         string `json:"toDate"`
	BetweenDates   bool   `json:"betweenDates"`
	// UntilDate is an inclusive upper bound applied on its own.
	UntilDate string `json:"untilDate"`
	Search    string `json:"search"`
}

// Normalize trims every text field.
func (f Filter) Normalize() Filter {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.AccountName = strings.TrimSpace(f.AccountName)
	f.SubAccountName = strings.TrimSpace(f.SubAccountName)
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.FromDate = strings.TrimSpace(f.FromDate)
	f.ToDate = strings.TrimSpace(f.ToDate)
	f.UntilDate = strings.TrimSpace(f.UntilDate)
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Validate checks date formats and the status vocabulary.
func (f Filter) Validate() error {
	f = f.Normalize()
	dates := []struct{ name, value string }{
		{"fromDate", f.FromDate},
		{"toDate", f.ToDate},
		{"untilDate", f.UntilDate},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d.value); err != nil {
			return fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidFilter, d.name)
		}
	}
	switch f.Status {
	case "", StatusApproved, StatusPending, StatusLocked, StatusUnlocked, StatusEdited:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
	}
	return nil
}

// DateRangeActive reports whether the between-dates range will be applied.
func (f Filter) DateRangeActive() bool {
	f = f.Normalize()
	return f.BetweenDates && f.FromDate != "" && f.ToDate != ""
}

// Key renders the canonical signature of the filter. Fields that impose no
// constraint render as "all", so filters that select the same rows share a key.
func (f Filter) Key() string {
	f = f.Normalize()
	from, to := KeyAll, KeyAll
	if f.DateRangeActive() {
		from, to = keyPart(f.FromDate), keyPart(f.ToDate)
	}
	parts := []string{
		keyPart(f.CompanyName),
		keyPart(f.AccountName),
		keyPart(f.SubAccountName),
		keyPart(f.Status),
		from,
		to,
		strconv.FormatBool(f.DateRangeActive()),
		keyPart(f.UntilDate),
		keyPart(strings.ToLower(f.Search)),
	}
	return strings.Join(parts, "_")
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, "_", `\_`)

// keyPart renders one key field. Separators inside values are escaped and a
// literal "all" is told apart from an unset field.
func keyPart(s string) string {
	if s == "" {
		return KeyAll
	}
	s = keyEscaper.Replace(s)
	if s == KeyAll {
		return `\` + s
	}
	return s
}
