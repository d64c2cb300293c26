package query

import (
	"fmt"
	"strings"

	"github.com/thirumala/cashbook/internal/models"
)

// Op is a comparison kind.
type Op string

const (
	OpEq     Op = "eq"
	OpGte    Op = "gte"
	OpLte    Op = "lte"
	OpSearch Op = "search"
)

// Columns of cash_book that predicates may reference.
const (
	ColCompany     = "company_name"
	ColAccount     = "account_name"
	ColSubAccount  = "sub_account_name"
	ColParticulars = "particulars"
	ColDate        = "date"
	ColApproved    = "approved"
	ColLocked      = "locked"
	ColEdited      = "edited"
	ColCreatedAt   = "created_at"
	ColID          = "id"
)

// searchColumns are OR-ed by a search condition.
var searchColumns = []string{ColParticulars, ColAccount, ColCompany, ColSubAccount}

// Condition narrows a predicate by one column. Value is a string for text
// and date columns and a bool for status columns.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// Predicate is an AND of conditions. The zero value matches every row.
type Predicate struct {
	Conditions []Condition
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// DefaultOrder keeps results deterministic when dates tie.
var DefaultOrder = []Order{
	{Column: ColDate, Desc: true},
	{Column: ColCreatedAt, Desc: true},
	{Column: ColID, Desc: true},
}

// Build translates f into a predicate. Conditions are appended in a fixed
// order so equal filters yield equal predicates.
func Build(f Filter) Predicate {
	f = f.Normalize()
	var conds []Condition

	if f.CompanyName != "" {
		conds = append(conds, Condition{Column: ColCompany, Op: OpEq, Value: f.CompanyName})
	}
	if f.AccountName != "" {
		conds = append(conds, Condition{Column: ColAccount, Op: OpEq, Value: f.AccountName})
	}
	if f.SubAccountName != "" {
		conds = append(conds, Condition{Column: ColSubAccount, Op: OpEq, Value: f.SubAccountName})
	}

	switch f.Status {
	case StatusApproved:
		conds = append(conds, Condition{Column: ColApproved, Op: OpEq, Value: true})
	case StatusPending:
		conds = append(conds, Condition{Column: ColApproved, Op: OpEq, Value: false})
	case StatusLocked:
		conds = append(conds, Condition{Column: ColLocked, Op: OpEq, Value: true})
	case StatusUnlocked:
		conds = append(conds, Condition{Column: ColLocked, Op: OpEq, Value: false})
	case StatusEdited:
		conds = append(conds, Condition{Column: ColEdited, Op: OpEq, Value: true})
	}

	// Half a range is no range.
	if f.DateRangeActive() {
		conds = append(conds,
			Condition{Column: ColDate, Op: OpGte, Value: f.FromDate},
			Condition{Column: ColDate, Op: OpLte, Value: f.ToDate},
		)
	}
	if f.UntilDate != "" {
		conds = append(conds, Condition{Column: ColDate, Op: OpLte, Value: f.UntilDate})
	}
	if f.Search != "" {
		conds = append(conds, Condition{Op: OpSearch, Value: f.Search})
	}

	return Predicate{Conditions: conds}
}

// IsEmpty reports whether p imposes no constraint.
func (p Predicate) IsEmpty() bool {
	return len(p.Conditions) == 0
}

// And returns a new predicate with c appended.
func (p Predicate) And(c Condition) Predicate {
	conds := make([]Condition, 0, len(p.Conditions)+1)
	conds = append(conds, p.Conditions...)
	return Predicate{Conditions: append(conds, c)}
}

// SQL renders the predicate as a WHERE body using $n placeholders starting
// at firstArg. An empty predicate renders as "TRUE".
func (p Predicate) SQL(firstArg int) (string, []any) {
	if p.IsEmpty() {
		return "TRUE", nil
	}
	clauses := make([]string, 0, len(p.Conditions))
	args := make([]any, 0, len(p.Conditions))
	argIndex := firstArg

	for _, c := range p.Conditions {
		switch c.Op {
		case OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", c.Column, argIndex))
		case OpGte:
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", c.Column, argIndex))
		case OpLte:
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", c.Column, argIndex))
		case OpSearch:
			ors := make([]string, len(searchColumns))
			for i, col := range searchColumns {
				ors[i] = fmt.Sprintf("%s ILIKE $%d", col, argIndex)
			}
			clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
			args = append(args, "%"+escapeLike(fmt.Sprint(c.Value))+"%")
			argIndex++
			continue
		default:
			continue
		}
		if c.Column == ColDate {
			clauses[len(clauses)-1] += "::date"
		}
		args = append(args, c.Value)
		argIndex++
	}
	return strings.Join(clauses, " AND "), args
}

// OrderSQL renders an ORDER BY list.
func OrderSQL(order []Order) string {
	if len(order) == 0 {
		order = DefaultOrder
	}
	terms := make([]string, len(order))
	for i, o := range order {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms[i] = o.Column + " " + dir
	}
	return strings.Join(terms, ", ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Matches evaluates p against a row in memory with the same semantics as
// the rendered SQL.
func (p Predicate) Matches(row models.LedgerRow) bool {
	for _, c := range p.Conditions {
		if !c.matches(row) {
			return false
		}
	}
	return true
}

func (c Condition) matches(row models.LedgerRow) bool {
	if c.Op == OpSearch {
		term := strings.ToLower(fmt.Sprint(c.Value))
		for _, v := range []string{row.Particulars, row.AccountName, row.CompanyName, row.SubAccountName} {
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
		return false
	}

	var actual any
	switch c.Column {
	case ColCompany:
		actual = row.CompanyName
	case ColAccount:
		actual = row.AccountName
	case ColSubAccount:
		actual = row.SubAccountName
	case ColApproved:
		actual = row.Approved
	case ColLocked:
		actual = row.Locked
	case ColEdited:
		actual = row.Edited
	case ColDate:
		actual = row.Date.String()
	default:
		return false
	}

	switch c.Op {
	case OpEq:
		return actual == c.Value
	case OpGte:
		return fmt.Sprint(actual) >= fmt.Sprint(c.Value)
	case OpLte:
		return fmt.Sprint(actual) <= fmt.Sprint(c.Value)
	}
	return false
}

// Signature is a stable textual form of p, used in logs.
func (p Predicate) Signature() string {
	if p.IsEmpty() {
		return KeyAll
	}
	parts := make([]string, len(p.Conditions))
	for i, c := range p.Conditions {
		col := c.Column
		if c.Op == OpSearch {
			col = "search"
		}
		parts[i] = fmt.Sprintf("%s:%s:%v", col, c.Op, c.Value)
	}
	return strings.Join(parts, ",")
}
