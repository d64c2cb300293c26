package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/thirumala/cashbook/internal/aggregate"
	"github.com/thirumala/cashbook/internal/cache"
	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/query"
)

// BalanceSheetParams selects the rows and classified lines of a balance sheet.
type BalanceSheetParams struct {
	Filter    query.Filter
	PLYesNo   string
	BothYesNo string
}

func (p BalanceSheetParams) normalize() (BalanceSheetParams, error) {
	p.Filter = p.Filter.Normalize()
	if err := p.Filter.Validate(); err != nil {
		return p, err
	}
	p.PLYesNo = strings.ToUpper(strings.TrimSpace(p.PLYesNo))
	p.BothYesNo = strings.ToUpper(strings.TrimSpace(p.BothYesNo))
	for _, sel := range []struct{ name, value string }{
		{"plYesNo", p.PLYesNo},
		{"bothYesNo", p.BothYesNo},
	} {
		if sel.value != "" && sel.value != aggregate.Yes && sel.value != aggregate.No {
			return p, fmt.Errorf("%w: %s must be YES or NO, got %q", query.ErrInvalidFilter, sel.name, sel.value)
		}
	}
	return p, nil
}

// Key is the result cache key: the filter key followed by the two
// classification selectors.
func (p BalanceSheetParams) Key() string {
	pl, both := p.PLYesNo, p.BothYesNo
	if pl == "" {
		pl = query.KeyAll
	}
	if both == "" {
		both = query.KeyAll
	}
	return p.Filter.Key() + "_" + strings.ToLower(pl) + "_" + strings.ToLower(both)
}

// ReportService computes the aggregated views over the cash book. Every
// report reads through the paginated fetcher; only balance sheets are cached.
type ReportService struct {
	fetcher RowFetcher
	cache   *cache.Cache[models.BalanceSheet]
	timeout time.Duration
	logger  logrus.FieldLogger
	now     func() time.Time
}

func NewReportService(f RowFetcher, c *cache.Cache[models.BalanceSheet], fetchTimeout time.Duration, logger logrus.FieldLogger) *ReportService {
	return &ReportService{
		fetcher: f,
		cache:   c,
		timeout: fetchTimeout,
		logger:  logger,
		now:     time.Now,
	}
}

// fetch loads the filtered rows under the report timeout. A timeout after
// some batches landed yields the partial result rather than an error.
func (s *ReportService) fetch(ctx context.Context, f query.Filter) (*fetcher.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.fetcher.FetchAll(ctx, query.Build(f), nil)
	if err != nil {
		if res != nil && errors.Is(err, context.DeadlineExceeded) {
			s.logger.WithFields(logrus.Fields{
				"filter":  f.Key(),
				"fetched": len(res.Rows),
				"total":   res.Total,
			}).Warn("report fetch timed out, returning partial rows")
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

// BalanceSheet returns per-account sums with P&L / Both flags. cached
// reports whether the value came from the result cache.
func (s *ReportService) BalanceSheet(ctx context.Context, params BalanceSheetParams) (sheet models.BalanceSheet, cached bool, err error) {
	params, err = params.normalize()
	if err != nil {
		return models.BalanceSheet{}, false, err
	}
	key := params.Key()

	if s.cache != nil {
		if v, _, ok := s.cache.Get(key); ok {
			return v, true, nil
		}
	}

	res, err := s.fetch(ctx, params.Filter)
	if err != nil {
		return models.BalanceSheet{}, false, err
	}
	sheet = buildBalanceSheet(res, params)
	sheet.ComputedAt = s.now().UTC()

	// partial or short sheets are recomputed on the next request
	if s.cache != nil && !res.Partial && !res.Incomplete {
		s.cache.Set(key, sheet)
	}
	return sheet, false, nil
}

func buildBalanceSheet(res *fetcher.Result, params BalanceSheetParams) models.BalanceSheet {
	report := aggregate.Aggregate(res.Rows, aggregate.ByAccount)
	classified := params.PLYesNo != "" || params.BothYesNo != ""

	sheet := models.BalanceSheet{
		Lines:       []models.BalanceSheetLine{},
		RecordCount: len(res.Rows),
		Partial:     res.Partial,
		Warning:     res.Warning(),
	}

	var shown aggregate.Sums
	for _, b := range report.Buckets {
		c := aggregate.Classify(b.Key)
		if params.PLYesNo != "" && c.PL != params.PLYesNo {
			continue
		}
		if params.BothYesNo != "" && c.Both != params.BothYesNo {
			continue
		}
		sheet.Lines = append(sheet.Lines, models.BalanceSheetLine{
			AccountName: b.Key,
			Credit:      b.Credit,
			Debit:       b.Debit,
			Balance:     b.Balance,
			PLYesNo:     c.PL,
			BothYesNo:   c.Both,
		})
		shown.Credit = shown.Credit.Add(b.Credit)
		shown.Debit = shown.Debit.Add(b.Debit)
	}

	// Without a classification selector the totals cover every row, including
	// rows that carry no account name.
	totals := report.Totals
	if classified {
		totals = aggregate.Sums{Credit: shown.Credit, Debit: shown.Debit, Balance: shown.Credit.Sub(shown.Debit)}
	}
	sheet.Totals = models.BalanceSheetTotals{
		TotalCredit: totals.Credit,
		TotalDebit:  totals.Debit,
		BalanceRs:   totals.Balance,
	}
	return sheet
}

// ClearCache drops every cached balance sheet and returns how many there were.
func (s *ReportService) ClearCache() int {
	if s.cache == nil {
		return 0
	}
	n := s.cache.Clear()
	s.logger.WithField("entries", n).Info("balance sheet cache cleared")
	return n
}

func (s *ReportService) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{Entries: []string{}, Timestamp: s.now().UTC()}
	}
	return s.cache.Stats()
}

// DashboardStats returns the grand totals of the filtered rows.
func (s *ReportService) DashboardStats(ctx context.Context, f query.Filter) (models.DashboardStats, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return models.DashboardStats{}, err
	}
	res, err := s.fetch(ctx, f)
	if err != nil {
		return models.DashboardStats{}, err
	}
	totals := aggregate.Totals(res.Rows)
	return models.DashboardStats{
		TotalCredit:  totals.Credit,
		TotalDebit:   totals.Debit,
		Balance:      totals.Balance,
		TotalRecords: len(res.Rows),
		Partial:      res.Partial,
		Warning:      res.Warning(),
	}, nil
}

// CompanyBalances returns the closing balance of every named company. Rows
// without a company are left out of the list but kept in the totals.
func (s *ReportService) CompanyBalances(ctx context.Context, f query.Filter) (models.CompanyBalances, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return models.CompanyBalances{}, err
	}
	res, err := s.fetch(ctx, f)
	if err != nil {
		return models.CompanyBalances{}, err
	}

	report := aggregate.Aggregate(res.Rows, aggregate.ByCompany)
	out := models.CompanyBalances{
		Companies:   make([]models.CompanyBalance, 0, len(report.Buckets)),
		TotalCredit: report.Totals.Credit,
		TotalDebit:  report.Totals.Debit,
		Balance:     report.Totals.Balance,
		RecordCount: len(res.Rows),
		Partial:     res.Partial,
		Warning:     res.Warning(),
	}
	for _, b := range report.Buckets {
		out.Companies = append(out.Companies, models.CompanyBalance{
			CompanyName: b.Key,
			Credit:      b.Credit,
			Debit:       b.Debit,
			Balance:     b.Balance,
		})
	}
	return out, nil
}

// DailyReport returns the entries of one day with the balance brought
// forward from every earlier day under the same filter.
func (s *ReportService) DailyReport(ctx context.Context, date string, f query.Filter) (models.DailyReport, error) {
	day, err := models.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("%w: date %q", query.ErrInvalidFilter, date)
	}

	f = f.Normalize()
	f.BetweenDates, f.FromDate, f.ToDate = false, "", ""
	f.UntilDate = day.String()
	if err := f.Validate(); err != nil {
		return models.DailyReport{}, err
	}

	res, err := s.fetch(ctx, f)
	if err != nil {
		return models.DailyReport{}, err
	}

	var before, entries []models.LedgerRow
	for _, row := range res.Rows {
		switch d := row.Date.String(); {
		case d < f.UntilDate:
			before = append(before, row)
		case d == f.UntilDate:
			entries = append(entries, row)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].SerialNumber < entries[j].SerialNumber })
	if entries == nil {
		entries = []models.LedgerRow{}
	}

	opening := aggregate.Totals(before).Balance
	dayTotals := aggregate.Totals(entries)
	return models.DailyReport{
		Date:           day,
		OpeningBalance: opening,
		Entries:        entries,
		DayCredit:      dayTotals.Credit,
		DayDebit:       dayTotals.Debit,
		ClosingBalance: opening.Add(dayTotals.Balance),
		Partial:        res.Partial,
		Warning:        res.Warning(),
	}, nil
}

const balanceSheetTab = "Balance Sheet"

var balanceSheetHeader = []string{"Account Name", "Credit", "Debit", "Balance", "P&L", "Both"}

// ExportBalanceSheet renders the balance sheet as an XLSX workbook.
func (s *ReportService) ExportBalanceSheet(ctx context.Context, params BalanceSheetParams) (*excelize.File, error) {
	sheet, _, err := s.BalanceSheet(ctx, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", balanceSheetTab); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeBalanceSheet(f, balanceSheetTab, sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// writeBalanceSheet fills tab with a header, one row per line, a TOTAL row
// and the fetch warning, if any.
func writeBalanceSheet(f *excelize.File, tab string, sheet models.BalanceSheet) error {
	setRow := func(rowNo int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		return f.SetSheetRow(tab, cell, &values)
	}

	header := make([]any, len(balanceSheetHeader))
	for i, h := range balanceSheetHeader {
		header[i] = h
	}
	if err := setRow(1, header); err != nil {
		return err
	}

	rowNo := 2
	for _, line := range sheet.Lines {
		values := []any{line.AccountName, money(line.Credit), money(line.Debit), money(line.Balance), line.PLYesNo, line.BothYesNo}
		if err := setRow(rowNo, values); err != nil {
			return err
		}
		rowNo++
	}

	totals := []any{"TOTAL", money(sheet.Totals.TotalCredit), money(sheet.Totals.TotalDebit), money(sheet.Totals.BalanceRs)}
	if err := setRow(rowNo, totals); err != nil {
		return err
	}
	if sheet.Warning != "" {
		if err := setRow(rowNo+2, []any{sheet.Warning}); err != nil {
			return err
		}
	}

	return f.SetColWidth(tab, "A", "A", 40)
}

// money rounds to paise for spreadsheet cells.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
