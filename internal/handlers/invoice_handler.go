package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/services"
	"github.com/inmogo/inmogo/internal/validation"
)

// InvoiceHandler handles the portal invoice-request endpoints and their
// admin lifecycle.
type InvoiceHandler struct {
	service   services.InvoiceService
	validator *validation.Validator
	verifier  auth.Verifier
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(svc services.InvoiceService, validator *validation.Validator, verifier auth.Verifier) *InvoiceHandler {
	return &InvoiceHandler{service: svc, validator: validator, verifier: verifier}
}

// Submit handles POST /api/v1/portal/invoices requests.
func (h *InvoiceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in validation.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	data, errs := h.validator.Invoice(in)
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("invoice").Inc()
		writeValidationErrors(w, errs)
		return
	}

	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	created, err := h.service.Submit(r.Context(), caller, data)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListMine handles GET /api/v1/portal/invoices requests.
func (h *InvoiceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	invoices, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// List handles GET /api/v1/admin/invoices requests. The service rejects
// non-admin callers.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	limit, offset := listParams(r)
	invoices, err := h.service.List(r.Context(), caller, limit, offset)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// UpdateStatus handles PATCH /api/v1/admin/invoices/{id}/status requests.
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid invoice id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	var in validation.InvoiceStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	status, errs := h.validator.InvoiceStatus(in)
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("invoice_status").Inc()
		writeValidationErrors(w, errs)
		return
	}

	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), caller, id, status)
	if err != nil {
		code, resp := mapErrorToResponse(err)
		writeJSON(w, code, resp)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
