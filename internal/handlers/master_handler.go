package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/services"
)

type MasterHandler struct {
	service *services.MasterService
	logger  logrus.FieldLogger
}

func NewMasterHandler(service *services.MasterService, logger logrus.FieldLogger) *MasterHandler {
	return &MasterHandler{service: service, logger: logger}
}

// Companies lists company names
// @Summary Company names
// @Tags Masters
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /masters/companies [get]
func (h *MasterHandler) Companies(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Companies(r.Context())
	h.respond(w, "MasterHandler.Companies", names, err)
}

// Accounts lists account names
// @Summary Account names
// @Tags Masters
// @Produce json
// @Security BearerAuth
// @Param companyName query string false "Only accounts used by this company"
// @Success 200 {array} string
// @Router /masters/accounts [get]
func (h *MasterHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Accounts(r.Context(), r.URL.Query().Get("companyName"))
	h.respond(w, "MasterHandler.Accounts", names, err)
}

// SubAccounts lists sub-account names
// @Summary Sub-account names
// @Tags Masters
// @Produce json
// @Security BearerAuth
// @Param companyName query string false "Company name"
// @Param accountName query string false "Account name"
// @Success 200 {array} string
// @Router /masters/sub-accounts [get]
func (h *MasterHandler) SubAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	names, err := h.service.SubAccounts(r.Context(), q.Get("companyName"), q.Get("accountName"))
	h.respond(w, "MasterHandler.SubAccounts", names, err)
}

func (h *MasterHandler) respond(w http.ResponseWriter, funcName string, names []string, err error) {
	if err != nil {
		sendServiceError(w, h.logger, funcName, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}
