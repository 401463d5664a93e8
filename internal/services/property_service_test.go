package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/storage"
	"github.com/inmogo/inmogo/internal/validation"
)

func newPropertyService(repo *MockPropertyRepository, activity *MockActivityRepository, store storage.ObjectStore, notifier *MockNotifier) *PropertyServiceImpl {
	return NewPropertyService(repo, activity, store, notifier, "admin", testLog())
}

func propertyData() validation.PropertyData {
	return validation.PropertyData{
		Title: "Ático reformado en Salamanca", Description: "Tres habitaciones",
		Address: "Calle Goya 12, Madrid", Price: 650000,
		Bedrooms: 3, Bathrooms: 2, SquareMeters: 120, YearBuilt: 1960, Floor: 6,
		Type: models.PropertyPenthouse, Status: models.StatusPublished,
	}
}

func TestPropertyService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyRepository)
	activity := new(MockActivityRepository)
	notifier := new(MockNotifier)
	svc := newPropertyService(repo, activity, storage.NewMemoryStore("http://cdn.local"), notifier)

	repo.On("Create", ctx, mock.MatchedBy(func(c *models.PropertyCreate) bool {
		return c.OwnerID == "client-1" && c.Title == "Ático reformado en Salamanca"
	})).Return(&models.Property{ID: 1, OwnerID: "client-1", Title: "Ático reformado en Salamanca"}, nil)
	activity.On("Record", ctx, mock.Anything).Return(nil)
	notifier.On("Dispatch", ctx, mock.Anything).Return(true)

	created, err := svc.Create(ctx, clientIdentity(), propertyData())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	repo.AssertExpectations(t)
}

func TestPropertyService_Ownership(t *testing.T) {
	ctx := context.Background()

	existing := &models.Property{ID: 9, OwnerID: "client-1", Title: "Piso Chamberí"}

	t.Run("owner can update", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		activity := new(MockActivityRepository)
		svc := newPropertyService(repo, activity, storage.NewMemoryStore(""), new(MockNotifier))

		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)
		repo.On("Update", ctx, int64(9), mock.Anything).Return(existing, nil)
		activity.On("Record", ctx, mock.Anything).Return(nil)

		_, err := svc.Update(ctx, clientIdentity(), 9, propertyData())
		assert.NoError(t, err)
	})

	t.Run("non-owner is forbidden, repo untouched", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		svc := newPropertyService(repo, new(MockActivityRepository), storage.NewMemoryStore(""), new(MockNotifier))

		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)

		intruder := clientIdentity()
		intruder.UserID = "client-2"
		_, err := svc.Update(ctx, intruder, 9, propertyData())
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		activity := new(MockActivityRepository)
		svc := newPropertyService(repo, activity, storage.NewMemoryStore(""), new(MockNotifier))

		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)
		repo.On("Delete", ctx, int64(9)).Return(nil)
		activity.On("Record", ctx, mock.Anything).Return(nil)

		assert.NoError(t, svc.Delete(ctx, adminIdentity(), 9))
	})

	t.Run("missing property surfaces not found", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		svc := newPropertyService(repo, new(MockActivityRepository), storage.NewMemoryStore(""), new(MockNotifier))

		repo.On("GetByID", ctx, int64(404)).Return(nil, models.ErrPropertyNotFound)

		_, err := svc.Update(ctx, clientIdentity(), 404, propertyData())
		assert.ErrorIs(t, err, models.ErrPropertyNotFound)
	})
}

func TestPropertyService_AddImage(t *testing.T) {
	ctx := context.Background()
	meta := validation.UploadData{Filename: "salon.jpg", ContentType: "image/jpeg", SizeBytes: 1024}
	existing := &models.Property{ID: 9, OwnerID: "client-1"}

	t.Run("stores object then metadata", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		activity := new(MockActivityRepository)
		store := storage.NewMemoryStore("http://cdn.local")
		svc := newPropertyService(repo, activity, store, new(MockNotifier))

		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)
		repo.On("AddImage", ctx, mock.MatchedBy(func(img *models.PropertyImage) bool {
			return img.PropertyID == 9 && img.Filename == "salon.jpg"
		})).Return(&models.PropertyImage{ID: 1, PropertyID: 9}, nil)
		activity.On("Record", ctx, mock.Anything).Return(nil)

		img, err := svc.AddImage(ctx, clientIdentity(), 9, meta, []byte("jpegdata"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), img.ID)
	})

	t.Run("metadata failure removes the stored object", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		store := storage.NewMemoryStore("http://cdn.local")
		svc := newPropertyService(repo, new(MockActivityRepository), store, new(MockNotifier))

		var storedKey string
		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)
		repo.On("AddImage", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				storedKey = args.Get(1).(*models.PropertyImage).ObjectKey
			}).
			Return(nil, errors.New("insert failed"))

		_, err := svc.AddImage(ctx, clientIdentity(), 9, meta, []byte("jpegdata"))
		require.Error(t, err)
		// The orphaned blob was cleaned up.
		assert.ErrorIs(t, store.Delete(ctx, storedKey), storage.ErrObjectNotFound)
	})
}
