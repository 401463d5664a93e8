// Package services contains business logic. Every mutation follows the same
// ordering rule: persist first, then best-effort side effects (activity log,
// notification) whose failures never roll back or mask the commit.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/notify"
	"github.com/inmogo/inmogo/internal/repository"
	"github.com/inmogo/inmogo/internal/validation"
	"github.com/inmogo/inmogo/pkg/logger"
)

// ErrForbidden marks a caller who is authenticated but not allowed to act.
// Handlers map it to the same response as a missing resource so existence
// is not leaked.
var ErrForbidden = errors.New("caller is not allowed to act on this resource")

// Notifier dispatches one best-effort notification. Implemented by
// notify.Dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, ev notify.Event) bool
}

// LeadService handles public valuation and contact submissions.
type LeadService interface {
	SubmitValuation(ctx context.Context, data validation.ValuationData) (*models.ValuationRequest, error)
	SubmitContact(ctx context.Context, data validation.ContactData) (*models.ContactRequest, error)
	ListValuations(ctx context.Context, limit, offset int) ([]*models.ValuationRequest, error)
	ListContacts(ctx context.Context, limit, offset int) ([]*models.ContactRequest, error)
}

// LeadServiceImpl implements LeadService.
type LeadServiceImpl struct {
	repo     repository.LeadRepository
	notifier Notifier
	log      *logger.Logger
}

// NewLeadService creates a LeadService.
func NewLeadService(repo repository.LeadRepository, notifier Notifier, log *logger.Logger) *LeadServiceImpl {
	return &LeadServiceImpl{repo: repo, notifier: notifier, log: log}
}

// SubmitValuation persists a valuation request and notifies staff.
func (s *LeadServiceImpl) SubmitValuation(ctx context.Context, data validation.ValuationData) (*models.ValuationRequest, error) {
	created, err := s.repo.CreateValuation(ctx, &models.ValuationRequest{
		Name:         data.Name,
		Email:        data.Email,
		Phone:        data.Phone,
		Address:      data.Address,
		PropertyType: data.PropertyType,
		Message:      data.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist valuation request: %w", err)
	}

	// The record is committed; a lost email leaves it queryable by staff.
	s.notifier.Dispatch(ctx, notify.Event{
		Template:  notify.TemplateValuationReceived,
		Reference: "valuation/" + strconv.FormatInt(created.ID, 10),
		Fields: []notify.Field{
			{Label: "Nombre", Value: created.Name},
			{Label: "Email", Value: created.Email},
			{Label: "Teléfono", Value: created.Phone},
			{Label: "Dirección", Value: created.Address},
			{Label: "Tipo", Value: string(created.PropertyType)},
			{Label: "Mensaje", Value: created.Message},
		},
	})

	return created, nil
}

// SubmitContact persists a contact request and notifies staff.
func (s *LeadServiceImpl) SubmitContact(ctx context.Context, data validation.ContactData) (*models.ContactRequest, error) {
	created, err := s.repo.CreateContact(ctx, &models.ContactRequest{
		Name:       data.Name,
		Email:      data.Email,
		Phone:      data.Phone,
		Message:    data.Message,
		PropertyID: data.PropertyID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist contact request: %w", err)
	}

	fields := []notify.Field{
		{Label: "Nombre", Value: created.Name},
		{Label: "Email", Value: created.Email},
		{Label: "Teléfono", Value: created.Phone},
		{Label: "Mensaje", Value: created.Message},
	}
	if created.PropertyID != nil {
		fields = append(fields, notify.Field{
			Label: "Propiedad", Value: strconv.FormatInt(*created.PropertyID, 10),
		})
	}
	s.notifier.Dispatch(ctx, notify.Event{
		Template:  notify.TemplateContactReceived,
		Reference: "contact/" + strconv.FormatInt(created.ID, 10),
		Fields:    fields,
	})

	return created, nil
}

// ListValuations returns valuation requests for the back office.
func (s *LeadServiceImpl) ListValuations(ctx context.Context, limit, offset int) ([]*models.ValuationRequest, error) {
	return s.repo.ListValuations(ctx, clampLimit(limit), offset)
}

// ListContacts returns contact requests for the back office.
func (s *LeadServiceImpl) ListContacts(ctx context.Context, limit, offset int) ([]*models.ContactRequest, error) {
	return s.repo.ListContacts(ctx, clampLimit(limit), offset)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
