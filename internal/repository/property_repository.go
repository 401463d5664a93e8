// Package repository handles data persistence. Repositories receive only
// validated, sanitized records; raw user input never reaches this layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inmogo/inmogo/internal/database"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/models"
)

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	// Create stores a new listing and returns the created entity.
	Create(ctx context.Context, create *models.PropertyCreate) (*models.Property, error)

	// GetByID retrieves a listing by its ID.
	GetByID(ctx context.Context, id int64) (*models.Property, error)

	// ListPublished returns published listings, newest first.
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Property, error)

	// ListByOwner returns all listings for one owner.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Property, error)

	// Update replaces the mutable fields of a listing.
	Update(ctx context.Context, id int64, data *models.PropertyCreate) (*models.Property, error)

	// Delete removes a listing.
	Delete(ctx context.Context, id int64) error

	// AddImage records an uploaded image for a listing.
	AddImage(ctx context.Context, img *models.PropertyImage) (*models.PropertyImage, error)

	// DeleteImage removes an image record.
	DeleteImage(ctx context.Context, propertyID, imageID int64) error

	// HealthCheck verifies the repository is healthy.
	HealthCheck(ctx context.Context) error
}

// PostgresPropertyRepository implements PropertyRepository using PostgreSQL.
type PostgresPropertyRepository struct {
	pool *database.Pool
}

// NewPostgresPropertyRepository creates a PostgreSQL-backed property repository.
func NewPostgresPropertyRepository(pool *database.Pool) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{pool: pool}
}

const propertyColumns = `id, owner_id, title, description, address, price,
	bedrooms, bathrooms, square_meters, year_built, floor, type, status,
	created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Address, &p.Price,
		&p.Bedrooms, &p.Bathrooms, &p.SquareMeters, &p.YearBuilt, &p.Floor,
		&p.Type, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}
	return &p, nil
}

// Create stores a new listing.
func (r *PostgresPropertyRepository) Create(ctx context.Context, create *models.PropertyCreate) (*models.Property, error) {
	defer metrics.RecordDBQuery("property_insert", time.Now())

	query := `
		INSERT INTO properties (owner_id, title, description, address, price,
			bedrooms, bathrooms, square_meters, year_built, floor, type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + propertyColumns

	return scanProperty(r.pool.QueryRow(ctx, query,
		create.OwnerID, create.Title, create.Description, create.Address,
		create.Price, create.Bedrooms, create.Bathrooms, create.SquareMeters,
		create.YearBuilt, create.Floor, create.Type, create.Status,
	))
}

// GetByID retrieves a listing by its ID.
func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	defer metrics.RecordDBQuery("property_get", time.Now())

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.pool.QueryRow(ctx, query, id))
}

// ListPublished returns published listings, newest first.
func (r *PostgresPropertyRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	defer metrics.RecordDBQuery("property_list_published", time.Now())

	query := `SELECT ` + propertyColumns + `
		FROM properties WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, models.StatusPublished, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

// ListByOwner returns all listings for one owner.
func (r *PostgresPropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Property, error) {
	defer metrics.RecordDBQuery("property_list_owner", time.Now())

	query := `SELECT ` + propertyColumns + `
		FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func collectProperties(rows pgx.Rows) ([]*models.Property, error) {
	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}
	return out, nil
}

// Update replaces the mutable fields of a listing.
func (r *PostgresPropertyRepository) Update(ctx context.Context, id int64, data *models.PropertyCreate) (*models.Property, error) {
	defer metrics.RecordDBQuery("property_update", time.Now())

	query := `
		UPDATE properties
		SET title = $2, description = $3, address = $4, price = $5,
			bedrooms = $6, bathrooms = $7, square_meters = $8, year_built = $9,
			floor = $10, type = $11, status = $12, updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyColumns

	return scanProperty(r.pool.QueryRow(ctx, query, id,
		data.Title, data.Description, data.Address, data.Price,
		data.Bedrooms, data.Bathrooms, data.SquareMeters, data.YearBuilt,
		data.Floor, data.Type, data.Status,
	))
}

// Delete removes a listing.
func (r *PostgresPropertyRepository) Delete(ctx context.Context, id int64) error {
	defer metrics.RecordDBQuery("property_delete", time.Now())

	result, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrPropertyNotFound
	}
	return nil
}

// AddImage records an uploaded image for a listing.
func (r *PostgresPropertyRepository) AddImage(ctx context.Context, img *models.PropertyImage) (*models.PropertyImage, error) {
	defer metrics.RecordDBQuery("image_insert", time.Now())

	query := `
		INSERT INTO property_images (property_id, object_key, filename, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, property_id, object_key, filename, content_type, size_bytes, created_at`

	var out models.PropertyImage
	err := r.pool.QueryRow(ctx, query,
		img.PropertyID, img.ObjectKey, img.Filename, img.ContentType, img.SizeBytes,
	).Scan(&out.ID, &out.PropertyID, &out.ObjectKey, &out.Filename, &out.ContentType, &out.SizeBytes, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}
	return &out, nil
}

// DeleteImage removes an image record.
func (r *PostgresPropertyRepository) DeleteImage(ctx context.Context, propertyID, imageID int64) error {
	defer metrics.RecordDBQuery("image_delete", time.Now())

	result, err := r.pool.Exec(ctx,
		`DELETE FROM property_images WHERE id = $1 AND property_id = $2`, imageID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrPropertyNotFound
	}
	return nil
}

// HealthCheck verifies the database connection is healthy.
func (r *PostgresPropertyRepository) HealthCheck(ctx context.Context) error {
	return r.pool.HealthCheck(ctx)
}
