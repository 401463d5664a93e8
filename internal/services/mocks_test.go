package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/notify"
)

// MockLeadRepository is a mock implementation of repository.LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateValuation(ctx context.Context, v *models.ValuationRequest) (*models.ValuationRequest, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValuationRequest), args.Error(1)
}

func (m *MockLeadRepository) CreateContact(ctx context.Context, c *models.ContactRequest) (*models.ContactRequest, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactRequest), args.Error(1)
}

func (m *MockLeadRepository) ListValuations(ctx context.Context, limit, offset int) ([]*models.ValuationRequest, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ValuationRequest), args.Error(1)
}

func (m *MockLeadRepository) ListContacts(ctx context.Context, limit, offset int) ([]*models.ContactRequest, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContactRequest), args.Error(1)
}

// MockPropertyRepository is a mock implementation of repository.PropertyRepository.
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, create *models.PropertyCreate) (*models.Property, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, id int64, data *models.PropertyCreate) (*models.Property, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) AddImage(ctx context.Context, img *models.PropertyImage) (*models.PropertyImage, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyImage), args.Error(1)
}

func (m *MockPropertyRepository) DeleteImage(ctx context.Context, propertyID, imageID int64) error {
	args := m.Called(ctx, propertyID, imageID)
	return args.Error(0)
}

func (m *MockPropertyRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of repository.InvoiceRepository.
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, create *models.InvoiceCreate) (*models.InvoiceRequest, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id int64) (*models.InvoiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceRepository) ListByClient(ctx context.Context, clientID string) ([]*models.InvoiceRequest, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, limit, offset int) ([]*models.InvoiceRequest, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvoiceRequest), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus, processedAt *time.Time, processedBy string) (*models.InvoiceRequest, error) {
	args := m.Called(ctx, id, status, processedAt, processedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceRequest), args.Error(1)
}

// MockActivityRepository is a mock implementation of repository.ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Record(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, entity, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}

// MockClientRepository is a mock implementation of repository.ClientRepository.
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(ctx context.Context, ev notify.Event) bool {
	args := m.Called(ctx, ev)
	return args.Bool(0)
}
