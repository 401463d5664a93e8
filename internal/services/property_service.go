package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/notify"
	"github.com/inmogo/inmogo/internal/repository"
	"github.com/inmogo/inmogo/internal/storage"
	"github.com/inmogo/inmogo/internal/validation"
	"github.com/inmogo/inmogo/pkg/logger"
)

// PropertyService handles portal and public listing operations.
type PropertyService interface {
	Create(ctx context.Context, caller *auth.Identity, data validation.PropertyData) (*models.Property, error)
	Update(ctx context.Context, caller *auth.Identity, id int64, data validation.PropertyData) (*models.Property, error)
	Delete(ctx context.Context, caller *auth.Identity, id int64) error
	Get(ctx context.Context, id int64) (*models.Property, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Property, error)
	ListMine(ctx context.Context, caller *auth.Identity) ([]*models.Property, error)
	AddImage(ctx context.Context, caller *auth.Identity, propertyID int64, meta validation.UploadData, content []byte) (*models.PropertyImage, error)
	DeleteImage(ctx context.Context, caller *auth.Identity, propertyID, imageID int64) error
}

// PropertyServiceImpl implements PropertyService.
type PropertyServiceImpl struct {
	repo      repository.PropertyRepository
	activity  repository.ActivityRepository
	store     storage.ObjectStore
	notifier  Notifier
	adminRole string
	log       *logger.Logger
}

// NewPropertyService creates a PropertyService.
func NewPropertyService(
	repo repository.PropertyRepository,
	activity repository.ActivityRepository,
	store storage.ObjectStore,
	notifier Notifier,
	adminRole string,
	log *logger.Logger,
) *PropertyServiceImpl {
	return &PropertyServiceImpl{
		repo:      repo,
		activity:  activity,
		store:     store,
		notifier:  notifier,
		adminRole: adminRole,
		log:       log,
	}
}

// Create stores a new listing owned by the caller and notifies staff.
func (s *PropertyServiceImpl) Create(ctx context.Context, caller *auth.Identity, data validation.PropertyData) (*models.Property, error) {
	created, err := s.repo.Create(ctx, &models.PropertyCreate{
		OwnerID:      caller.UserID,
		Title:        data.Title,
		Description:  data.Description,
		Address:      data.Address,
		Price:        data.Price,
		Bedrooms:     data.Bedrooms,
		Bathrooms:    data.Bathrooms,
		SquareMeters: data.SquareMeters,
		YearBuilt:    data.YearBuilt,
		Floor:        data.Floor,
		Type:         data.Type,
		Status:       data.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist property: %w", err)
	}

	s.recordActivity(ctx, caller.UserID, "property.create", created.ID, created.Title)
	s.notifier.Dispatch(ctx, notify.Event{
		Template:  notify.TemplatePropertySubmitted,
		Reference: "property/" + strconv.FormatInt(created.ID, 10),
		Fields: []notify.Field{
			{Label: "Título", Value: created.Title},
			{Label: "Dirección", Value: created.Address},
			{Label: "Precio", Value: strconv.FormatFloat(created.Price, 'f', 2, 64)},
			{Label: "Propietario", Value: caller.Email},
		},
	})

	return created, nil
}

// Update replaces a listing's fields after an ownership check.
func (s *PropertyServiceImpl) Update(ctx context.Context, caller *auth.Identity, id int64, data validation.PropertyData) (*models.Property, error) {
	if err := s.authorize(ctx, caller, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, &models.PropertyCreate{
		Title:        data.Title,
		Description:  data.Description,
		Address:      data.Address,
		Price:        data.Price,
		Bedrooms:     data.Bedrooms,
		Bathrooms:    data.Bathrooms,
		SquareMeters: data.SquareMeters,
		YearBuilt:    data.YearBuilt,
		Floor:        data.Floor,
		Type:         data.Type,
		Status:       data.Status,
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, caller.UserID, "property.update", id, updated.Title)
	return updated, nil
}

// Delete removes a listing after an ownership check.
func (s *PropertyServiceImpl) Delete(ctx context.Context, caller *auth.Identity, id int64) error {
	if err := s.authorize(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, caller.UserID, "property.delete", id, "")
	return nil
}

// Get retrieves one listing.
func (s *PropertyServiceImpl) Get(ctx context.Context, id int64) (*models.Property, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPublished returns published listings for the public site.
func (s *PropertyServiceImpl) ListPublished(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	return s.repo.ListPublished(ctx, clampLimit(limit), offset)
}

// ListMine returns the caller's listings.
func (s *PropertyServiceImpl) ListMine(ctx context.Context, caller *auth.Identity) ([]*models.Property, error) {
	return s.repo.ListByOwner(ctx, caller.UserID)
}

// AddImage stores the image bytes then records its metadata.
func (s *PropertyServiceImpl) AddImage(ctx context.Context, caller *auth.Identity, propertyID int64, meta validation.UploadData, content []byte) (*models.PropertyImage, error) {
	if err := s.authorize(ctx, caller, propertyID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("properties/%d/%s-%s", propertyID, uuid.New().String(), meta.Filename)
	if err := s.store.Put(ctx, key, content, meta.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	img, err := s.repo.AddImage(ctx, &models.PropertyImage{
		PropertyID:  propertyID,
		ObjectKey:   key,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		SizeBytes:   meta.SizeBytes,
	})
	if err != nil {
		// Best effort: don't leave an orphaned blob behind the failed row.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to remove orphaned image object", "key", key, "error", delErr.Error())
		}
		return nil, err
	}

	s.recordActivity(ctx, caller.UserID, "property.image.add", propertyID, meta.Filename)
	return img, nil
}

// DeleteImage removes an image record and its object.
func (s *PropertyServiceImpl) DeleteImage(ctx context.Context, caller *auth.Identity, propertyID, imageID int64) error {
	if err := s.authorize(ctx, caller, propertyID); err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, propertyID, imageID); err != nil {
		return err
	}
	s.recordActivity(ctx, caller.UserID, "property.image.delete", propertyID, strconv.FormatInt(imageID, 10))
	return nil
}

// authorize loads the listing and checks the caller owns it or is an
// admin. A failed check is ErrForbidden; handlers render it exactly like a
// missing resource.
func (s *PropertyServiceImpl) authorize(ctx context.Context, caller *auth.Identity, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if caller.IsAdmin(s.adminRole) {
		return nil
	}
	if !existing.OwnedBy(caller.UserID) {
		return ErrForbidden
	}
	return nil
}

func (s *PropertyServiceImpl) recordActivity(ctx context.Context, actorID, action string, entityID int64, detail string) {
	err := s.activity.Record(ctx, &models.ActivityLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "property",
		EntityID: strconv.FormatInt(entityID, 10),
		Detail:   detail,
	})
	if err != nil {
		s.log.Warn("failed to record activity", "action", action, "error", err.Error())
	}
}
