package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/services"
	"github.com/inmogo/inmogo/internal/validation"
)

func ownerIdentity() *auth.Identity {
	return &auth.Identity{UserID: "owner-1", Email: "owner@example.com", Role: "client"}
}

func propertyBody() string {
	return `{
		"title": "Ático en el barrio de Salamanca",
		"description": "Reformado, muy luminoso",
		"address": "Calle de Serrano 21, Madrid",
		"price": 750000,
		"bedrooms": 3,
		"bathrooms": 2,
		"square_meters": 140,
		"year_built": 1972,
		"floor": 6,
		"type": "PENTHOUSE",
		"status": "PUBLISHED"
	}`
}

func withPathValue(r *http.Request, name, value string) *http.Request {
	r.SetPathValue(name, value)
	return r
}

func TestPropertyCreateSuccess(t *testing.T) {
	svc := new(MockPropertyService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.Property{ID: 11, Title: "Ático en el barrio de Salamanca"}, nil)

	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{identity: ownerIdentity()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/properties", strings.NewReader(propertyBody()))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestPropertyCreateUnauthenticated(t *testing.T) {
	svc := new(MockPropertyService)
	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{err: auth.ErrInvalidCredential})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/properties", strings.NewReader(propertyBody()))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// Validation runs before authentication: a bad payload gets the field-error
// map even when no credential is presented.
func TestPropertyCreateValidationBeforeAuth(t *testing.T) {
	h := NewPropertyHandler(new(MockPropertyService), validation.New(), &stubVerifier{err: auth.ErrNoCredential})

	body := `{"title": "x", "price": -5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/properties", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertyCreateValidationFailure(t *testing.T) {
	svc := new(MockPropertyService)
	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{identity: ownerIdentity()})

	body := `{"title": "x", "price": -5, "type": "CASTLE", "status": "PUBLISHED", "square_meters": 100, "year_built": 1990, "address": "Calle Mayor 1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/properties", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.FieldErrors, "title")
	assert.Contains(t, resp.FieldErrors, "price")
	assert.Contains(t, resp.FieldErrors, "type")
}

// A caller who does not own the listing must get a response
// byte-identical to the one for a listing that does not exist.
func TestPropertyUpdateOwnershipIndistinguishableFromMissing(t *testing.T) {
	notOwner := new(MockPropertyService)
	notOwner.On("Update", mock.Anything, mock.Anything, int64(5), mock.Anything).
		Return(nil, services.ErrForbidden)

	missing := new(MockPropertyService)
	missing.On("Update", mock.Anything, mock.Anything, int64(5), mock.Anything).
		Return(nil, models.ErrPropertyNotFound)

	verifier := &stubVerifier{identity: ownerIdentity()}

	run := func(svc *MockPropertyService) *httptest.ResponseRecorder {
		h := NewPropertyHandler(svc, validation.New(), verifier)
		req := withPathValue(
			httptest.NewRequest(http.MethodPut, "/api/v1/portal/properties/5", strings.NewReader(propertyBody())),
			"id", "5",
		)
		rec := httptest.NewRecorder()
		h.Update(rec, req)
		return rec
	}

	forbiddenRec := run(notOwner)
	missingRec := run(missing)

	require.Equal(t, http.StatusNotFound, forbiddenRec.Code)
	require.Equal(t, http.StatusNotFound, missingRec.Code)
	assert.Equal(t, missingRec.Body.String(), forbiddenRec.Body.String())
}

func TestPropertyGetNotFound(t *testing.T) {
	svc := new(MockPropertyService)
	svc.On("Get", mock.Anything, int64(99)).Return(nil, models.ErrPropertyNotFound)

	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{})

	req := withPathValue(httptest.NewRequest(http.MethodGet, "/api/v1/properties/99", nil), "id", "99")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestPropertyGetInvalidID(t *testing.T) {
	h := NewPropertyHandler(new(MockPropertyService), validation.New(), &stubVerifier{})

	req := withPathValue(httptest.NewRequest(http.MethodGet, "/api/v1/properties/abc", nil), "id", "abc")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertyDeleteSuccess(t *testing.T) {
	svc := new(MockPropertyService)
	svc.On("Delete", mock.Anything, mock.Anything, int64(5)).Return(nil)

	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{identity: ownerIdentity()})

	req := withPathValue(httptest.NewRequest(http.MethodDelete, "/api/v1/portal/properties/5", nil), "id", "5")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func multipartImage(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestPropertyAddImageSuccess(t *testing.T) {
	svc := new(MockPropertyService)
	svc.On("AddImage", mock.Anything, mock.Anything, int64(5), mock.Anything, mock.Anything).
		Return(&models.PropertyImage{ID: 1, PropertyID: 5, Filename: "salon.jpg"}, nil)

	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{identity: ownerIdentity()})

	body, contentType := multipartImage(t, "salon.jpg", "image/jpeg", []byte("jpeg-bytes"))
	req := withPathValue(httptest.NewRequest(http.MethodPost, "/api/v1/portal/properties/5/images", body), "id", "5")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.AddImage(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestPropertyAddImageRejectsContentType(t *testing.T) {
	svc := new(MockPropertyService)
	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{identity: ownerIdentity()})

	body, contentType := multipartImage(t, "resume.pdf", "application/pdf", []byte("%PDF-"))
	req := withPathValue(httptest.NewRequest(http.MethodPost, "/api/v1/portal/properties/5/images", body), "id", "5")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.AddImage(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.FieldErrors, "content_type")
	svc.AssertNotCalled(t, "AddImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyListPublished(t *testing.T) {
	svc := new(MockPropertyService)
	svc.On("ListPublished", mock.Anything, 0, 0).
		Return([]*models.Property{{ID: 1}, {ID: 2}}, nil)

	h := NewPropertyHandler(svc, validation.New(), &stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	rec := httptest.NewRecorder()

	h.ListPublished(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var properties []*models.Property
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&properties))
	assert.Len(t, properties, 2)
}
