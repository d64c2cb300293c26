package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSheetLine is one account row of the balance sheet view.
type BalanceSheetLine struct {
	AccountName string          `json:"accountName"`
	Credit      decimal.Decimal `json:"credit"`
	Debit       decimal.Decimal `json:"debit"`
	Balance     decimal.Decimal `json:"balance"`
	PLYesNo     string          `json:"plYesNo"`
	BothYesNo   string          `json:"bothYesNo"`
}

// BalanceSheetTotals uses the field names the front end reads.
type BalanceSheetTotals struct {
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	BalanceRs   decimal.Decimal `json:"balanceRs"`
}

type BalanceSheet struct {
	Lines       []BalanceSheetLine `json:"balanceSheetData"`
	Totals      BalanceSheetTotals `json:"totals"`
	RecordCount int                `json:"recordCount"`
	Partial     bool               `json:"partial"`
	Warning     string             `json:"warning,omitempty"`
	ComputedAt  time.Time          `json:"timestamp"`
}

type DashboardStats struct {
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	Balance      decimal.Decimal `json:"balance"`
	TotalRecords int             `json:"totalRecords"`
	Partial      bool            `json:"partial"`
	Warning      string          `json:"warning,omitempty"`
}

type CompanyBalance struct {
	CompanyName string          `json:"companyName"`
	Credit      decimal.Decimal `json:"credit"`
	Debit       decimal.Decimal `json:"debit"`
	Balance     decimal.Decimal `json:"balance"`
}

type CompanyBalances struct {
	Companies   []CompanyBalance `json:"companies"`
	TotalCredit decimal.Decimal  `json:"totalCredit"`
	TotalDebit  decimal.Decimal  `json:"totalDebit"`
	Balance     decimal.Decimal  `json:"balance"`
	RecordCount int              `json:"recordCount"`
	Partial     bool             `json:"partial"`
	Warning     string           `json:"warning,omitempty"`
}

// DailyReport covers one accounting day plus the balance brought forward.
type DailyReport struct {
	Date           Date            `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []LedgerRow     `json:"entries"`
	DayCredit      decimal.Decimal `json:"dayCredit"`
	DayDebit       decimal.Decimal `json:"dayDebit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Partial        bool            `json:"partial"`
	Warning        string          `json:"warning,omitempty"`
}
