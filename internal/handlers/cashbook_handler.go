package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/database"
	"github.com/thirumala/cashbook/internal/middleware"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/services"
)

type CashbookHandler struct {
	service   *services.CashbookService
	validator *services.ValidationHelper
	logger    logrus.FieldLogger
}

func NewCashbookHandler(service *services.CashbookService, logger logrus.FieldLogger) *CashbookHandler {
	return &CashbookHandler{
		service:   service,
		validator: services.NewValidationHelper(),
		logger:    logger,
	}
}

func (h *CashbookHandler) actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
	}
	return actor, ok
}

func (h *CashbookHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (services.EntryInput, bool) {
	var in services.EntryInput
	if !decodeBody(w, r, &in) {
		return in, false
	}
	if err := h.validator.ValidateStruct(&in); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return in, false
	}
	return in, true
}

// CreateEntry adds a cash book entry
// @Summary Create entry
// @Description Insert an entry with the next serial number. Resubmitting with the same Idempotency-Key returns the first entry.
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client-generated key for safe retries"
// @Param request body services.EntryInput true "Entry"
// @Success 201 {object} models.LedgerRow
// @Success 200 {object} models.LedgerRow "Replayed"
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /entries [post]
func (h *CashbookHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	row, replayed, err := h.service.Create(r.Context(), actor, key, in)
	if err != nil {
		sendServiceError(w, h.logger, "CashbookHandler.CreateEntry", err)
		return
	}

	status := http.StatusCreated
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
		status = http.StatusOK
	}
	writeJSON(w, status, row)
}

// ListEntries returns one page of entries
// @Summary List entries
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1"
// @Param limit query int false "Rows per page, at most 1000"
// @Param companyName query string false "Company name"
// @Param accountName query string false "Account name"
// @Param subAccountName query string false "Sub-account name"
// @Param status query string false "approved, pending, locked, unlocked or edited"
// @Param search query string false "Text in particulars or names"
// @Success 200 {object} services.EntryPage
// @Failure 400 {object} services.ErrorResponse
// @Router /entries [get]
func (h *CashbookHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), filterFromQuery(r), parseInt(q.Get("page"), 1), parseInt(q.Get("limit"), services.DefaultPageSize))
	if err != nil {
		sendServiceError(w, h.logger, "CashbookHandler.ListEntries", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListAllEntries returns every entry matching the filter
// @Summary List all entries
// @Description Walks the filtered set in batches. partial is set when too many batches failed.
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{entries=[]models.LedgerRow,total=int,partial=bool,warning=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 503 {object} services.ErrorResponse
// @Router /entries/all [get]
func (h *CashbookHandler) ListAllEntries(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListAll(r.Context(), filterFromQuery(r))
	if err != nil {
		sendServiceError(w, h.logger, "CashbookHandler.ListAllEntries", err)
		return
	}
	entries := res.Rows
	if entries == nil {
		entries = []models.LedgerRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   res.Total,
		"partial": res.Partial,
		"warning": res.Warning(),
	})
}

// GetEntry returns one entry
// @Summary Get entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} models.LedgerRow
// @Failure 404 {object} services.ErrorResponse
// @Router /entries/{id} [get]
func (h *CashbookHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, h.logger, "CashbookHandler.GetEntry", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// UpdateEntry edits an entry
// @Summary Update entry
// @Description Rewrite the editable fields. Locked entries can only be edited by an admin. Every change is audited.
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param request body services.EntryInput true "Entry"
// @Success 200 {object} models.LedgerRow
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 423 {object} services.ErrorResponse
// @Router /entries/{id} [put]
func (h *CashbookHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	row, err := h.service.Update(r.Context(), actor, id, in)
	h.respondMutation(w, r, "CashbookHandler.UpdateEntry", id, row, err)
}

// LockEntry freezes an entry
// @Summary Lock entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} models.LedgerRow
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /entries/{id}/lock [post]
func (h *CashbookHandler) LockEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	row, err := h.service.Lock(r.Context(), actor, id)
	h.respondMutation(w, r, "CashbookHandler.LockEntry", id, row, err)
}

// UnlockEntry releases a locked entry
// @Summary Unlock entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} models.LedgerRow
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /entries/{id}/unlock [post]
func (h *CashbookHandler) UnlockEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	row, err := h.service.Unlock(r.Context(), actor, id)
	h.respondMutation(w, r, "CashbookHandler.UnlockEntry", id, row, err)
}

// ApproveEntry marks an entry approved
// @Summary Approve entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} models.LedgerRow
// @Failure 404 {object} services.ErrorResponse
// @Failure 423 {object} services.ErrorResponse
// @Router /entries/{id}/approve [post]
func (h *CashbookHandler) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	row, err := h.service.Approve(r.Context(), actor, id)
	h.respondMutation(w, r, "CashbookHandler.ApproveEntry", id, row, err)
}

// respondMutation writes the updated row. A request that changes nothing
// answers 200 with the current row and X-Entry-Unchanged set.
func (h *CashbookHandler) respondMutation(w http.ResponseWriter, r *http.Request, funcName, id string, row models.LedgerRow, err error) {
	if errors.Is(err, database.ErrNoChange) {
		row, err = h.service.Get(r.Context(), id)
		if err == nil {
			w.Header().Set("X-Entry-Unchanged", "true")
		}
	}
	if err != nil {
		sendServiceError(w, h.logger, funcName, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// DeleteEntry removes an unlocked entry
// @Summary Delete entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} object{success=bool,id=string}
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 423 {object} services.ErrorResponse
// @Router /entries/{id} [delete]
func (h *CashbookHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	row, err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, h.logger, "CashbookHandler.DeleteEntry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": row.ID})
}

// EntryHistory returns the audit trail of an entry
// @Summary Entry history
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {array} models.AuditRecord
// @Router /entries/{id}/history [get]
func (h *CashbookHandler) EntryHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, h.logger, "CashbookHandler.EntryHistory", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
