package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/notify"
	"github.com/inmogo/inmogo/internal/repository"
	"github.com/inmogo/inmogo/internal/validation"
	"github.com/inmogo/inmogo/pkg/logger"
)

// InvoiceService handles client invoice requests and their admin lifecycle.
type InvoiceService interface {
	Submit(ctx context.Context, caller *auth.Identity, data validation.InvoiceData) (*models.InvoiceRequest, error)
	UpdateStatus(ctx context.Context, caller *auth.Identity, id int64, status models.InvoiceStatus) (*models.InvoiceRequest, error)
	ListMine(ctx context.Context, caller *auth.Identity) ([]*models.InvoiceRequest, error)
	List(ctx context.Context, caller *auth.Identity, limit, offset int) ([]*models.InvoiceRequest, error)
}

// InvoiceServiceImpl implements InvoiceService.
type InvoiceServiceImpl struct {
	repo      repository.InvoiceRepository
	clients   repository.ClientRepository
	activity  repository.ActivityRepository
	notifier  Notifier
	adminRole string
	log       *logger.Logger
	nowFn     func() time.Time
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(
	repo repository.InvoiceRepository,
	clients repository.ClientRepository,
	activity repository.ActivityRepository,
	notifier Notifier,
	adminRole string,
	log *logger.Logger,
) *InvoiceServiceImpl {
	return &InvoiceServiceImpl{
		repo:      repo,
		clients:   clients,
		activity:  activity,
		notifier:  notifier,
		adminRole: adminRole,
		log:       log,
		nowFn:     time.Now,
	}
}

// Submit opens a PENDING invoice request for the caller and notifies staff.
func (s *InvoiceServiceImpl) Submit(ctx context.Context, caller *auth.Identity, data validation.InvoiceData) (*models.InvoiceRequest, error) {
	created, err := s.repo.Create(ctx, &models.InvoiceCreate{
		ClientID: caller.UserID,
		Type:     data.Type,
		Concept:  data.Concept,
		Amount:   data.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist invoice request: %w", err)
	}

	s.recordActivity(ctx, caller.UserID, "invoice.submit", created.ID, string(created.Type))
	s.notifier.Dispatch(ctx, notify.Event{
		Template:  notify.TemplateInvoiceReceived,
		Reference: "invoice/" + strconv.FormatInt(created.ID, 10),
		Fields: []notify.Field{
			{Label: "Cliente", Value: caller.Email},
			{Label: "Tipo", Value: string(created.Type)},
			{Label: "Concepto", Value: created.Concept},
			{Label: "Importe", Value: strconv.FormatFloat(created.Amount, 'f', 2, 64)},
		},
	})

	return created, nil
}

// UpdateStatus transitions an invoice request. Only admins may do this.
// Moving to a terminal status stamps processedAt and processedBy; any other
// transition leaves them unset.
func (s *InvoiceServiceImpl) UpdateStatus(ctx context.Context, caller *auth.Identity, id int64, status models.InvoiceStatus) (*models.InvoiceRequest, error) {
	if !caller.IsAdmin(s.adminRole) {
		return nil, ErrForbidden
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var processedAt *time.Time
	var processedBy string
	if status.Terminal() {
		now := s.nowFn()
		processedAt = &now
		processedBy = caller.UserID
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, processedAt, processedBy)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, caller.UserID, "invoice.status", id,
		fmt.Sprintf("%s -> %s", existing.Status, status))

	// Notify the affected client when their request actually moved.
	if existing.Status != status {
		if client, cerr := s.clients.GetByID(ctx, updated.ClientID); cerr == nil {
			s.notifier.Dispatch(ctx, notify.Event{
				Template:  notify.TemplateInvoiceStatusChanged,
				To:        client.Email,
				Reference: "invoice/" + strconv.FormatInt(id, 10),
				Fields: []notify.Field{
					{Label: "Concepto", Value: updated.Concept},
					{Label: "Estado", Value: string(updated.Status)},
				},
			})
		} else {
			s.log.Warn("could not resolve client for status notification",
				"invoice_id", id, "client_id", updated.ClientID, "error", cerr.Error())
		}
	}

	return updated, nil
}

// ListMine returns the caller's invoice requests.
func (s *InvoiceServiceImpl) ListMine(ctx context.Context, caller *auth.Identity) ([]*models.InvoiceRequest, error) {
	return s.repo.ListByClient(ctx, caller.UserID)
}

// List returns all invoice requests for the back office.
func (s *InvoiceServiceImpl) List(ctx context.Context, caller *auth.Identity, limit, offset int) ([]*models.InvoiceRequest, error) {
	if !caller.IsAdmin(s.adminRole) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, clampLimit(limit), offset)
}

func (s *InvoiceServiceImpl) recordActivity(ctx context.Context, actorID, action string, entityID int64, detail string) {
	err := s.activity.Record(ctx, &models.ActivityLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "invoice_request",
		EntityID: strconv.FormatInt(entityID, 10),
		Detail:   detail,
	})
	if err != nil {
		s.log.Warn("failed to record activity", "action", action, "error", err.Error())
	}
}
