package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/services"
	"github.com/inmogo/inmogo/internal/validation"
)

// PropertyHandler handles public listing reads and portal listing
// management.
type PropertyHandler struct {
	service   services.PropertyService
	validator *validation.Validator
	verifier  auth.Verifier
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(svc services.PropertyService, validator *validation.Validator, verifier auth.Verifier) *PropertyHandler {
	return &PropertyHandler{service: svc, validator: validator, verifier: verifier}
}

// ListPublished handles GET /api/v1/properties requests.
func (h *PropertyHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)
	properties, err := h.service.ListPublished(r.Context(), limit, offset)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

// Get handles GET /api/v1/properties/{id} requests.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid property id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	property, err := h.service.Get(r.Context(), id)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// Create handles POST /api/v1/portal/properties requests. Validation runs
// before authentication so a bad payload always yields the full field-error
// map.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in validation.PropertyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	data, errs := h.validator.Property(in)
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("property").Inc()
		writeValidationErrors(w, errs)
		return
	}

	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), caller, data)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/v1/portal/properties/{id} requests.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid property id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	var in validation.PropertyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	data, errs := h.validator.Property(in)
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("property").Inc()
		writeValidationErrors(w, errs)
		return
	}

	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), caller, id, data)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/portal/properties/{id} requests.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid property id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /api/v1/portal/properties requests.
func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	properties, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

// AddImage handles POST /api/v1/portal/properties/{id}/images requests.
// The image is a multipart form field named "file".
func (h *PropertyHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid property id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "missing file field",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	defer file.Close()

	// Read one byte past the limit so oversized uploads fail validation
	// instead of being silently truncated.
	content, err := io.ReadAll(io.LimitReader(file, validation.MaxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "unreadable file content",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	meta, errs := h.validator.Upload(validation.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   int64(len(content)),
	})
	if errs.HasErrors() {
		metrics.ValidationFailuresTotal.WithLabelValues("upload").Inc()
		writeValidationErrors(w, errs)
		return
	}

	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	img, err := h.service.AddImage(r.Context(), caller, id, meta, content)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, img)
}

// DeleteImage handles DELETE /api/v1/portal/properties/{id}/images/{imageID}
// requests.
func (h *PropertyHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	caller, ok := identify(w, r, h.verifier)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	imageID, ok2 := pathID(r, "imageID")
	if !ok || !ok2 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid path",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.service.DeleteImage(r.Context(), caller, id, imageID); err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
