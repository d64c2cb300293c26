// Package aggregate reduces ledger rows into per-key and grand totals.
package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/thirumala/cashbook/internal/models"
)

// KeyFunc extracts the grouping key of a row.
type KeyFunc func(models.LedgerRow) string

func ByAccount(r models.LedgerRow) string { return r.AccountName }
func ByCompany(r models.LedgerRow) string { return r.CompanyName }

// Sums holds credit and debit totals. Balance is credit minus debit, so a
// positive balance is a net credit.
type Sums struct {
	Credit  decimal.Decimal `json:"credit"`
	Debit   decimal.Decimal `json:"debit"`
	Balance decimal.Decimal `json:"balance"`
}

func (s *Sums) add(r models.LedgerRow) {
	s.Credit = s.Credit.Add(r.Credit)
	s.Debit = s.Debit.Add(r.Debit)
	s.Balance = s.Credit.Sub(s.Debit)
}

type Bucket struct {
	Key string `json:"key"`
	Sums
}

// Report is the outcome of one aggregation pass.
type Report struct {
	// Buckets are sorted by key.
	Buckets []Bucket `json:"buckets"`
	Totals  Sums     `json:"totals"`
	// Skipped accumulates rows whose key was empty. They are part of Totals.
	Skipped     Sums `json:"skipped"`
	SkippedRows int  `json:"skippedRows"`
	Rows        int  `json:"rows"`

	index map[string]int
}

// Bucket returns the bucket for key, if any row carried it.
func (r *Report) Bucket(key string) (Bucket, bool) {
	i, ok := r.index[strings.TrimSpace(key)]
	if !ok {
		return Bucket{}, false
	}
	return r.Buckets[i], true
}

// Aggregate groups rows by key. Keys are trimmed; a row with an empty key
// counts toward Totals but not toward any bucket. Every call starts from
// zero.
func Aggregate(rows []models.LedgerRow, key KeyFunc) *Report {
	sums := make(map[string]*Sums)
	rep := &Report{Rows: len(rows)}

	for _, row := range rows {
		rep.Totals.add(row)

		k := strings.TrimSpace(key(row))
		if k == "" {
			rep.Skipped.add(row)
			rep.SkippedRows++
			continue
		}
		s, ok := sums[k]
		if !ok {
			s = &Sums{}
			sums[k] = s
		}
		s.add(row)
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rep.Buckets = make([]Bucket, len(keys))
	rep.index = make(map[string]int, len(keys))
	for i, k := range keys {
		rep.Buckets[i] = Bucket{Key: k, Sums: *sums[k]}
		rep.index[k] = i
	}
	return rep
}

// Totals sums rows without grouping.
func Totals(rows []models.LedgerRow) Sums {
	var s Sums
	for _, row := range rows {
		s.add(row)
	}
	return s
}
