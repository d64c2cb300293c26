package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/config"
	"github.com/thirumala/cashbook/internal/database"
	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/query"
	"github.com/thirumala/cashbook/internal/services"
)

const maxBodyBytes = 1_048_576

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody reads exactly one JSON object into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

// filterFromQuery reads the shared filter parameters of list and report
// endpoints.
func filterFromQuery(r *http.Request) query.Filter {
	q := r.URL.Query()
	return query.Filter{
		CompanyName:    q.Get("companyName"),
		AccountName:    q.Get("accountName"),
		SubAccountName: q.Get("subAccountName"),
		Status:         q.Get("status"),
		FromDate:       q.Get("fromDate"),
		ToDate:         q.Get("toDate"),
		BetweenDates:   parseBool(q.Get("betweenDates")),
		UntilDate:      q.Get("untilDate"),
		Search:         q.Get("search"),
	}
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

// sendServiceError maps domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func sendServiceError(w http.ResponseWriter, logger logrus.FieldLogger, funcName string, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidFilter):
		services.SendErrorResponse(w, "Invalid filter", http.StatusBadRequest, err)
	case errors.Is(err, database.ErrNotFound):
		services.SendErrorResponse(w, "Entry not found", http.StatusNotFound, nil)
	case errors.Is(err, database.ErrLocked):
		services.SendErrorResponse(w, "Entry is locked", http.StatusLocked, nil)
	case errors.Is(err, services.ErrForbidden):
		services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
	case errors.Is(err, services.ErrRequestInFlight):
		services.SendErrorResponse(w, err.Error(), http.StatusConflict, nil)
	case errors.Is(err, fetcher.ErrCount):
		config.LogError(logger, "handlers", funcName, "count query", nil, err)
		services.SendErrorResponse(w, "Ledger temporarily unavailable", http.StatusServiceUnavailable, nil)
	case errors.Is(err, context.DeadlineExceeded):
		services.SendErrorResponse(w, "Request timed out", http.StatusGatewayTimeout, nil)
	default:
		config.LogError(logger, "handlers", funcName, "unhandled error", nil, err)
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
