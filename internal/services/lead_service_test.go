package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/notify"
	"github.com/inmogo/inmogo/internal/validation"
	"github.com/inmogo/inmogo/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.New(io.Discard, "error")
}

func valuationData() validation.ValuationData {
	return validation.ValuationData{
		Name:         "María García",
		Email:        "maria@example.com",
		Phone:        "612345678",
		Address:      "Calle Serrano 21, Madrid",
		PropertyType: models.PropertyFlat,
		Message:      "Ático en Salamanca",
	}
}

func TestLeadService_SubmitValuation(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then notifies staff", func(t *testing.T) {
		repo := new(MockLeadRepository)
		notifier := new(MockNotifier)
		svc := NewLeadService(repo, notifier, testLog())

		stored := &models.ValuationRequest{
			ID: 42, Name: "María García", Email: "maria@example.com",
			Phone: "612345678", Address: "Calle Serrano 21, Madrid",
			PropertyType: models.PropertyFlat, CreatedAt: time.Now(),
		}
		repo.On("CreateValuation", ctx, mock.AnythingOfType("*models.ValuationRequest")).Return(stored, nil)
		notifier.On("Dispatch", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Template == notify.TemplateValuationReceived && ev.Reference == "valuation/42"
		})).Return(true)

		created, err := svc.SubmitValuation(ctx, valuationData())
		require.NoError(t, err)
		assert.Equal(t, int64(42), created.ID)
		assert.Equal(t, "612345678", created.Phone, "phone stored as given")
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("notification failure does not fail the submission", func(t *testing.T) {
		repo := new(MockLeadRepository)
		notifier := new(MockNotifier)
		svc := NewLeadService(repo, notifier, testLog())

		repo.On("CreateValuation", ctx, mock.Anything).Return(&models.ValuationRequest{ID: 7}, nil)
		notifier.On("Dispatch", ctx, mock.Anything).Return(false)

		created, err := svc.SubmitValuation(ctx, valuationData())
		require.NoError(t, err, "dispatch failure is non-fatal")
		assert.Equal(t, int64(7), created.ID)
	})

	t.Run("persistence failure skips notification", func(t *testing.T) {
		repo := new(MockLeadRepository)
		notifier := new(MockNotifier)
		svc := NewLeadService(repo, notifier, testLog())

		repo.On("CreateValuation", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := svc.SubmitValuation(ctx, valuationData())
		require.Error(t, err)
		notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})
}

func TestLeadService_SubmitContact(t *testing.T) {
	ctx := context.Background()

	t.Run("includes property reference when present", func(t *testing.T) {
		repo := new(MockLeadRepository)
		notifier := new(MockNotifier)
		svc := NewLeadService(repo, notifier, testLog())

		propID := int64(99)
		stored := &models.ContactRequest{
			ID: 5, Name: "Luis Pérez", Email: "luis@example.com",
			Message: "Me interesa", PropertyID: &propID,
		}
		repo.On("CreateContact", ctx, mock.Anything).Return(stored, nil)

		var dispatched notify.Event
		notifier.On("Dispatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { dispatched = args.Get(1).(notify.Event) }).
			Return(true)

		_, err := svc.SubmitContact(ctx, validation.ContactData{
			Name: "Luis Pérez", Email: "luis@example.com",
			Message: "Me interesa", PropertyID: &propID,
		})
		require.NoError(t, err)
		assert.Equal(t, notify.TemplateContactReceived, dispatched.Template)

		var labels []string
		for _, f := range dispatched.Fields {
			labels = append(labels, f.Label)
		}
		assert.Contains(t, labels, "Propiedad")
	})
}

func TestLeadService_ListClamping(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo, new(MockNotifier), testLog())

	repo.On("ListValuations", ctx, 50, 0).Return([]*models.ValuationRequest{}, nil)

	_, err := svc.ListValuations(ctx, 10_000, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
