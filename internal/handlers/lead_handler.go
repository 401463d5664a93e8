package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/services"
	"github.com/inmogo/inmogo/internal/validation"
)

// LeadHandler handles public valuation and contact submissions plus the
// back-office lead listings.
type LeadHandler struct {
	service   services.LeadService
	validator *validation.Validator
	verifier  auth.Verifier
	adminRole string
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(svc services.LeadService, validator *validation.Validator, verifier auth.Verifier, adminRole string) *LeadHandler {
	return &LeadHandler{
		service:   svc,
		validator: validator,
		verifier:  verifier,
		adminRole: adminRole,
	}
}

// SubmitValuation handles POST /api/v1/valuations requests. The endpoint
// is public; rate limiting runs in middleware before this handler.
func (h *LeadHandler) SubmitValuation(w http.ResponseWriter, r *http.Request) {
	var in validation.ValuationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	data, errs := h.validator.Valuation(in)
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("valuation").Inc()
		writeValidationErrors(w, errs)
		return
	}

	created, err := h.service.SubmitValuation(r.Context(), data)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// SubmitContact handles POST /api/v1/contacts requests.
func (h *LeadHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in validation.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	data, errs := h.validator.Contact(in)
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("contact").Inc()
		writeValidationErrors(w, errs)
		return
	}

	created, err := h.service.SubmitContact(r.Context(), data)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListValuations handles GET /api/v1/admin/valuations requests.
func (h *LeadHandler) ListValuations(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}
	if !caller.IsAdmin(h.adminRole) {
		status, resp := mapErrorToResponse(services.ErrForbidden)
		writeJSON(w, status, resp)
		return
	}

	limit, offset := listParams(r)
	leads, err := h.service.ListValuations(r.Context(), limit, offset)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

// ListContacts handles GET /api/v1/admin/contacts requests.
func (h *LeadHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}
	if !caller.IsAdmin(h.adminRole) {
		status, resp := mapErrorToResponse(services.ErrForbidden)
		writeJSON(w, status, resp)
		return
	}

	limit, offset := listParams(r)
	contacts, err := h.service.ListContacts(r.Context(), limit, offset)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}
