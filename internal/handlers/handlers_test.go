package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thirumala/cashbook/internal/audit"
	"github.com/thirumala/cashbook/internal/cache"
	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/middleware"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/services"
)

var (
	admin = models.Actor{ID: "u1", Name: "Ravi", Role: models.RoleAdmin}
	staff = models.Actor{ID: "u2", Name: "Lakshmi", Role: models.RoleStaff}
)

type testServer struct {
	store  *memStore
	router chi.Router
	cache  *cache.Cache[models.BalanceSheet]
}

func row(date, company, account string, credit, debit int64) models.LedgerRow {
	d, _ := models.ParseDate(date)
	return models.LedgerRow{
		Date:        d,
		CompanyName: company,
		AccountName: account,
		Credit:      decimal.NewFromInt(credit),
		Debit:       decimal.NewFromInt(debit),
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger, _ := test.NewNullLogger()

	store := &memStore{}
	store.add(
		row("2024-03-01", "Thirumala Cotton", "Cotton Sales Account", 100, 0),
		row("2024-03-02", "Thirumala Cotton", "Cotton Sales Account", 0, 30),
		row("2024-03-02", "Sri Balaji", "Cash & Bank Account", 0, 20),
		row("2024-03-03", "Sri Balaji", "Miscellaneous", 12, 0),
	)

	f := fetcher.New(store, logger, fetcher.Options{BatchSize: 2})
	c := cache.New[models.BalanceSheet](5*time.Minute, 100)

	cashbook := NewCashbookHandler(services.NewCashbookService(store, f, nil, audit.NewLogger(logger), logger), logger)
	report := NewReportHandler(services.NewReportService(f, c, time.Minute, logger), logger)
	masters := NewMasterHandler(services.NewMasterService(store), logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/balance-sheet", report.BalanceSheet)
		r.Get("/balance-sheet/export", report.ExportBalanceSheet)
		r.Get("/balance-sheet/cache/stats", report.CacheStats)
		r.Post("/balance-sheet/cache/clear", report.ClearCache)
		r.Get("/dashboard/stats", report.DashboardStats)
		r.Get("/reports/company-balances", report.CompanyBalances)
		r.Get("/reports/daily", report.DailyReport)

		r.Get("/entries", cashbook.ListEntries)
		r.Get("/entries/all", cashbook.ListAllEntries)
		r.Post("/entries", cashbook.CreateEntry)
		r.Get("/entries/{id}", cashbook.GetEntry)
		r.Put("/entries/{id}", cashbook.UpdateEntry)
		r.Delete("/entries/{id}", cashbook.DeleteEntry)
		r.Post("/entries/{id}/lock", cashbook.LockEntry)
		r.Post("/entries/{id}/unlock", cashbook.UnlockEntry)
		r.Post("/entries/{id}/approve", cashbook.ApproveEntry)
		r.Get("/entries/{id}/history", cashbook.EntryHistory)

		r.Get("/masters/companies", masters.Companies)
		r.Get("/masters/accounts", masters.Accounts)
		r.Get("/masters/sub-accounts", masters.SubAccounts)
	})

	return &testServer{store: store, router: r, cache: c}
}

func (s *testServer) do(t *testing.T, actor *models.Actor, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestBalanceSheet(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, &staff, http.MethodGet, "/api/balance-sheet", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	for _, key := range []string{"balanceSheetData", "totals", "recordCount", "timestamp", "cached"} {
		assert.Contains(t, raw, key)
	}

	resp := decode[BalanceSheetResponse](t, rr)
	assert.False(t, resp.Cached)
	assert.Equal(t, 4, resp.RecordCount)
	require.Len(t, resp.Lines, 3)
	assert.Equal(t, "Cash & Bank Account", resp.Lines[0].AccountName)
	assert.Equal(t, "YES", resp.Lines[0].BothYesNo)
	assert.True(t, resp.Totals.TotalCredit.Equal(decimal.NewFromInt(112)))
	assert.True(t, resp.Totals.TotalDebit.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.Totals.BalanceRs.Equal(decimal.NewFromInt(62)))

	second := decode[BalanceSheetResponse](t, s.do(t, &staff, http.MethodGet, "/api/balance-sheet", nil))
	assert.True(t, second.Cached)
	assert.True(t, second.ComputedAt.Equal(resp.ComputedAt))
}

func TestBalanceSheet_Selectors(t *testing.T) {
	s := newTestServer(t)

	resp := decode[BalanceSheetResponse](t, s.do(t, &staff, http.MethodGet, "/api/balance-sheet?plYesNo=yes", nil))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Cotton Sales Account", resp.Lines[0].AccountName)
	assert.True(t, resp.Totals.BalanceRs.Equal(decimal.NewFromInt(70)))

	resp = decode[BalanceSheetResponse](t, s.do(t, &staff, http.MethodGet, "/api/balance-sheet?companyName=Sri+Balaji", nil))
	assert.Equal(t, 2, resp.RecordCount)
	assert.Len(t, resp.Lines, 2)
}

func TestBalanceSheet_InvalidFilter(t *testing.T) {
	s := newTestServer(t)

	tests := []string{
		"/api/balance-sheet?betweenDates=true&fromDate=03-01-2024&toDate=2024-03-31",
		"/api/balance-sheet?untilDate=yesterday",
		"/api/balance-sheet?plYesNo=maybe",
		"/api/balance-sheet?status=archived",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rr := s.do(t, &staff, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, 0, s.cache.Len())
		})
	}
}

func TestBalanceSheetCache_StatsAndClear(t *testing.T) {
	s := newTestServer(t)

	s.do(t, &staff, http.MethodGet, "/api/balance-sheet", nil)
	s.do(t, &staff, http.MethodGet, "/api/balance-sheet?companyName=Sri+Balaji", nil)

	stats := decode[cache.Stats](t, s.do(t, &staff, http.MethodGet, "/api/balance-sheet/cache/stats", nil))
	assert.Equal(t, 2, stats.Size)
	assert.Len(t, stats.Entries, 2)

	rr := s.do(t, &admin, http.MethodPost, "/api/balance-sheet/cache/clear", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Cache cleared successfully", body["message"])
	assert.EqualValues(t, 2, body["cleared"])
	assert.Contains(t, body, "timestamp")

	stats = decode[cache.Stats](t, s.do(t, &staff, http.MethodGet, "/api/balance-sheet/cache/stats", nil))
	assert.Equal(t, 0, stats.Size)

	resp := decode[BalanceSheetResponse](t, s.do(t, &staff, http.MethodGet, "/api/balance-sheet", nil))
	assert.False(t, resp.Cached)
}

func TestBalanceSheet_CountFailure(t *testing.T) {
	s := newTestServer(t)
	s.store.countErr = errors.New("connection refused")

	rr := s.do(t, &staff, http.MethodGet, "/api/balance-sheet", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, 0, s.cache.Len())
}

func TestExportBalanceSheet(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, &staff, http.MethodGet, "/api/balance-sheet/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "balance-sheet-")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")))
}

func TestReports(t *testing.T) {
	s := newTestServer(t)

	stats := decode[models.DashboardStats](t, s.do(t, &staff, http.MethodGet, "/api/dashboard/stats", nil))
	assert.Equal(t, 4, stats.TotalRecords)
	assert.True(t, stats.Balance.Equal(decimal.NewFromInt(62)))

	companies := decode[models.CompanyBalances](t, s.do(t, &staff, http.MethodGet, "/api/reports/company-balances", nil))
	require.Len(t, companies.Companies, 2)
	assert.True(t, companies.Balance.Equal(decimal.NewFromInt(62)))

	daily := decode[models.DailyReport](t, s.do(t, &staff, http.MethodGet, "/api/reports/daily?date=2024-03-02", nil))
	assert.True(t, daily.OpeningBalance.Equal(decimal.NewFromInt(100)))
	assert.Len(t, daily.Entries, 2)
	assert.True(t, daily.DayDebit.Equal(decimal.NewFromInt(50)))
	assert.True(t, daily.ClosingBalance.Equal(decimal.NewFromInt(50)))

	rr := s.do(t, &staff, http.MethodGet, "/api/reports/daily?date=March", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateEntry(t *testing.T) {
	s := newTestServer(t)

	t.Run("created", func(t *testing.T) {
		rr := s.do(t, &staff, http.MethodPost, "/api/entries", map[string]any{
			"date":        "2024-03-04",
			"companyName": " Sri Balaji ",
			"accountName": "Rent Expense",
			"particulars": "March rent",
			"debit":       "1500.456",
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		created := decode[models.LedgerRow](t, rr)
		assert.NotEmpty(t, created.ID)
		assert.EqualValues(t, 5, created.SerialNumber)
		assert.Equal(t, "Sri Balaji", created.CompanyName)
		assert.True(t, created.Debit.Equal(decimal.RequireFromString("1500.46")))
		assert.Equal(t, "Lakshmi", created.EnteredBy)
		assert.Equal(t, "Lakshmi", created.Staff)
	})

	t.Run("validation", func(t *testing.T) {
		rr := s.do(t, &staff, http.MethodPost, "/api/entries", map[string]any{
			"date":        "04/03/2024",
			"accountName": "Rent Expense",
			"credit":      "-1",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := decode[services.ErrorResponse](t, rr)
		assert.Equal(t, "Validation failed", body.Error)
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := s.do(t, &staff, http.MethodPost, "/api/entries", map[string]any{"serialNumber": 99})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no actor", func(t *testing.T) {
		rr := s.do(t, nil, http.MethodPost, "/api/entries", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestListEntries(t *testing.T) {
	s := newTestServer(t)

	page := decode[services.EntryPage](t, s.do(t, &staff, http.MethodGet, "/api/entries?page=2&limit=3", nil))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "2024-03-01", page.Entries[0].Date.String())

	all := decode[map[string]any](t, s.do(t, &staff, http.MethodGet, "/api/entries/all?accountName=Cotton+Sales+Account", nil))
	assert.EqualValues(t, 2, all["total"])
	assert.Len(t, all["entries"], 2)
	assert.Equal(t, false, all["partial"])

	rr := s.do(t, &staff, http.MethodGet, "/api/entries/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEntryLifecycle(t *testing.T) {
	s := newTestServer(t)
	edit := map[string]any{
		"date":        "2024-03-01",
		"companyName": "Thirumala Cotton",
		"accountName": "Cotton Sales Account",
		"credit":      "120",
	}

	rr := s.do(t, &staff, http.MethodPut, "/api/entries/e1", edit)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.LedgerRow](t, rr)
	assert.True(t, updated.Edited)
	assert.Equal(t, 1, updated.EditCount)
	assert.True(t, updated.Credit.Equal(decimal.NewFromInt(120)))

	rr = s.do(t, &staff, http.MethodPut, "/api/entries/e1", edit)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Header().Get("X-Entry-Unchanged"))
	assert.Equal(t, 1, decode[models.LedgerRow](t, rr).EditCount)

	assert.Equal(t, http.StatusForbidden, s.do(t, &staff, http.MethodPost, "/api/entries/e1/lock", nil).Code)

	rr = s.do(t, &admin, http.MethodPost, "/api/entries/e1/lock", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[models.LedgerRow](t, rr).Locked)

	edit["credit"] = "130"
	assert.Equal(t, http.StatusLocked, s.do(t, &staff, http.MethodPut, "/api/entries/e1", edit).Code)
	assert.Equal(t, http.StatusLocked, s.do(t, &admin, http.MethodDelete, "/api/entries/e1", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, &admin, http.MethodPut, "/api/entries/e1", edit).Code)

	rr = s.do(t, &staff, http.MethodPost, "/api/entries/e2/approve", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	approved := decode[models.LedgerRow](t, rr)
	assert.True(t, approved.Approved)
	assert.False(t, approved.Edited)

	require.Equal(t, http.StatusOK, s.do(t, &admin, http.MethodPost, "/api/entries/e1/unlock", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, &staff, http.MethodDelete, "/api/entries/e1", nil).Code)

	rr = s.do(t, &admin, http.MethodDelete, "/api/entries/e1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"success": true, "id": "e1"}, decode[map[string]any](t, rr))
	assert.Equal(t, http.StatusNotFound, s.do(t, &staff, http.MethodGet, "/api/entries/e1", nil).Code)

	history := decode[[]models.AuditRecord](t, s.do(t, &staff, http.MethodGet, "/api/entries/e1/history", nil))
	actions := make([]string, 0, len(history))
	for _, h := range history {
		actions = append(actions, h.Action)
	}
	assert.Equal(t, []string{models.AuditDelete, models.AuditUnlock, models.AuditUpdate, models.AuditLock, models.AuditUpdate}, actions)
	assert.Empty(t, history[0].NewValues)
}

func TestMasters(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, []string{"Sri Balaji", "Thirumala Cotton"},
		decode[[]string](t, s.do(t, &staff, http.MethodGet, "/api/masters/companies", nil)))
	assert.Equal(t, []string{"Cash & Bank Account", "Miscellaneous"},
		decode[[]string](t, s.do(t, &staff, http.MethodGet, "/api/masters/accounts?companyName=Sri+Balaji", nil)))
	assert.Equal(t, []string{},
		decode[[]string](t, s.do(t, &staff, http.MethodGet, "/api/masters/sub-accounts", nil)))
}
