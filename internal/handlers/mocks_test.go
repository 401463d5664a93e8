package handlers

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/validation"
)

// stubVerifier returns a fixed identity or error for every request.
type stubVerifier struct {
	identity *auth.Identity
	err      error
}

func (s *stubVerifier) VerifyCredential(_ context.Context, _ string) (*auth.Identity, error) {
	return s.identity, s.err
}

func (s *stubVerifier) CurrentIdentity(_ *http.Request) (*auth.Identity, error) {
	return s.identity, s.err
}

func (s *stubVerifier) SignOut(_ context.Context, _ string) error {
	return s.err
}

// MockLeadService mocks services.LeadService.
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) SubmitValuation(ctx context.Context, data validation.ValuationData) (*models.ValuationRequest, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValuationRequest), args.Error(1)
}

func (m *MockLeadService) SubmitContact(ctx context.Context, data validation.ContactData) (*models.ContactRequest, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactRequest), args.Error(1)
}

func (m *MockLeadService) ListValuations(ctx context.Context, limit, offset int) ([]*models.ValuationRequest, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ValuationRequest), args.Error(1)
}

func (m *MockLeadService) ListContacts(ctx context.Context, limit, offset int) ([]*models.ContactRequest, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContactRequest), args.Error(1)
}

// MockPropertyService mocks services.PropertyService.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, caller *auth.Identity, data validation.PropertyData) (*models.Property, error) {
	args := m.Called(ctx, caller, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, caller *auth.Identity, id int64, data validation.PropertyData) (*models.Property, error) {
	args := m.Called(ctx, caller, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, caller *auth.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockPropertyService) Get(ctx context.Context, id int64) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) ListPublished(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyService) ListMine(ctx context.Context, caller *auth.Identity) ([]*models.Property, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyService) AddImage(ctx context.Context, caller *auth.Identity, propertyID int64, meta validation.UploadData, content []byte) (*models.PropertyImage, error) {
	args := m.Called(ctx, caller, propertyID, meta, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyImage), args.Error(1)
}

func (m *MockPropertyService) DeleteImage(ctx context.Context, caller *auth.Identity, propertyID, imageID int64) error {
	return m.Called(ctx, caller, propertyID, imageID).Error(0)
}

// MockInvoiceService mocks services.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Submit(ctx context.Context, caller *auth.Identity, data validation.InvoiceData) (*models.InvoiceRequest, error) {
	args := m.Called(ctx, caller, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceService) UpdateStatus(ctx context.Context, caller *auth.Identity, id int64, status models.InvoiceStatus) (*models.InvoiceRequest, error) {
	args := m.Called(ctx, caller, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceService) ListMine(ctx context.Context, caller *auth.Identity) ([]*models.InvoiceRequest, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, caller *auth.Identity, limit, offset int) ([]*models.InvoiceRequest, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvoiceRequest), args.Error(1)
}
