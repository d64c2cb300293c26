package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/services"
)

type ReportHandler struct {
	service *services.ReportService
	logger  logrus.FieldLogger
}

func NewReportHandler(service *services.ReportService, logger logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

// BalanceSheetResponse is the balance sheet plus whether it was cached.
type BalanceSheetResponse struct {
	models.BalanceSheet
	Cached bool `json:"cached"`
}

func balanceSheetParams(r *http.Request) services.BalanceSheetParams {
	q := r.URL.Query()
	return services.BalanceSheetParams{
		Filter:    filterFromQuery(r),
		PLYesNo:   q.Get("plYesNo"),
		BothYesNo: q.Get("bothYesNo"),
	}
}

// BalanceSheet returns per-account totals
// @Summary Balance sheet
// @Description Aggregate the filtered cash book by account with P&L / Both flags. Results are cached for five minutes per filter.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param companyName query string false "Company name"
// @Param fromDate query string false "Range start (YYYY-MM-DD)"
// @Param toDate query string false "Range end (YYYY-MM-DD)"
// @Param betweenDates query bool false "Apply fromDate/toDate"
// @Param plYesNo query string false "YES or NO"
// @Param bothYesNo query string false "YES or NO"
// @Success 200 {object} BalanceSheetResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 503 {object} services.ErrorResponse
// @Router /balance-sheet [get]
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, cached, err := h.service.BalanceSheet(r.Context(), balanceSheetParams(r))
	if err != nil {
		sendServiceError(w, h.logger, "ReportHandler.BalanceSheet", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceSheetResponse{BalanceSheet: sheet, Cached: cached})
}

// ExportBalanceSheet downloads the balance sheet as a spreadsheet
// @Summary Export balance sheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param companyName query string false "Company name"
// @Param fromDate query string false "Range start (YYYY-MM-DD)"
// @Param toDate query string false "Range end (YYYY-MM-DD)"
// @Param betweenDates query bool false "Apply fromDate/toDate"
// @Param plYesNo query string false "YES or NO"
// @Param bothYesNo query string false "YES or NO"
// @Success 200 {file} file
// @Failure 400 {object} services.ErrorResponse
// @Router /balance-sheet/export [get]
func (h *ReportHandler) ExportBalanceSheet(w http.ResponseWriter, r *http.Request) {
	wb, err := h.service.ExportBalanceSheet(r.Context(), balanceSheetParams(r))
	if err != nil {
		sendServiceError(w, h.logger, "ReportHandler.ExportBalanceSheet", err)
		return
	}
	defer wb.Close()

	filename := fmt.Sprintf("balance-sheet-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := wb.Write(w); err != nil {
		h.logger.WithError(err).Error("failed to write balance sheet export")
	}
}

// ClearCache drops every cached balance sheet
// @Summary Clear balance sheet cache
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,message=string,cleared=int,timestamp=string}
// @Failure 403 {object} services.ErrorResponse
// @Router /balance-sheet/cache/clear [post]
func (h *ReportHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	n := h.service.ClearCache()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Cache cleared successfully",
		"cleared":   n,
		"timestamp": time.Now().UTC(),
	})
}

// CacheStats lists the cached balance sheet keys
// @Summary Balance sheet cache stats
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cache.Stats
// @Router /balance-sheet/cache/stats [get]
func (h *ReportHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CacheStats())
}

// DashboardStats returns grand totals over the filter
// @Summary Dashboard totals
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 400 {object} services.ErrorResponse
// @Router /dashboard/stats [get]
func (h *ReportHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context(), filterFromQuery(r))
	if err != nil {
		sendServiceError(w, h.logger, "ReportHandler.DashboardStats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CompanyBalances returns the balance of every company
// @Summary Company balances
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CompanyBalances
// @Failure 400 {object} services.ErrorResponse
// @Router /reports/company-balances [get]
func (h *ReportHandler) CompanyBalances(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.CompanyBalances(r.Context(), filterFromQuery(r))
	if err != nil {
		sendServiceError(w, h.logger, "ReportHandler.CompanyBalances", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DailyReport returns one day of entries with opening and closing balance
// @Summary Daily report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.DailyReport
// @Failure 400 {object} services.ErrorResponse
// @Router /reports/daily [get]
func (h *ReportHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	report, err := h.service.DailyReport(r.Context(), date, filterFromQuery(r))
	if err != nil {
		sendServiceError(w, h.logger, "ReportHandler.DailyReport", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
