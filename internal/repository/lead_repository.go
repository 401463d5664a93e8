package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inmogo/inmogo/internal/database"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/models"
)

// LeadRepository defines persistence for public submissions: valuation and
// contact requests.
type LeadRepository interface {
	// CreateValuation stores a valuation request.
	CreateValuation(ctx context.Context, v *models.ValuationRequest) (*models.ValuationRequest, error)

	// CreateContact stores a contact request.
	CreateContact(ctx context.Context, c *models.ContactRequest) (*models.ContactRequest, error)

	// ListValuations returns valuation requests, newest first.
	ListValuations(ctx context.Context, limit, offset int) ([]*models.ValuationRequest, error)

	// ListContacts returns contact requests, newest first.
	ListContacts(ctx context.Context, limit, offset int) ([]*models.ContactRequest, error)
}

// PostgresLeadRepository implements LeadRepository using PostgreSQL.
type PostgresLeadRepository struct {
	pool *database.Pool
}

// NewPostgresLeadRepository creates a PostgreSQL-backed lead repository.
func NewPostgresLeadRepository(pool *database.Pool) *PostgresLeadRepository {
	return &PostgresLeadRepository{pool: pool}
}

// CreateValuation stores a valuation request.
func (r *PostgresLeadRepository) CreateValuation(ctx context.Context, v *models.ValuationRequest) (*models.ValuationRequest, error) {
	defer metrics.RecordDBQuery("valuation_insert", time.Now())

	query := `
		INSERT INTO valuation_requests (name, email, phone, address, property_type, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, phone, address, property_type, message, created_at`

	var out models.ValuationRequest
	err := r.pool.QueryRow(ctx, query,
		v.Name, v.Email, v.Phone, v.Address, v.PropertyType, v.Message,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Address,
		&out.PropertyType, &out.Message, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create valuation request: %w", err)
	}
	return &out, nil
}

// CreateContact stores a contact request.
func (r *PostgresLeadRepository) CreateContact(ctx context.Context, c *models.ContactRequest) (*models.ContactRequest, error) {
	defer metrics.RecordDBQuery("contact_insert", time.Now())

	query := `
		INSERT INTO contact_requests (name, email, phone, message, property_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, phone, message, property_id, created_at`

	var out models.ContactRequest
	err := r.pool.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Message, c.PropertyID,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Message,
		&out.PropertyID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact request: %w", err)
	}
	return &out, nil
}

// ListValuations returns valuation requests, newest first.
func (r *PostgresLeadRepository) ListValuations(ctx context.Context, limit, offset int) ([]*models.ValuationRequest, error) {
	defer metrics.RecordDBQuery("valuation_list", time.Now())

	query := `
		SELECT id, name, email, phone, address, property_type, message, created_at
		FROM valuation_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuation requests: %w", err)
	}
	defer rows.Close()

	var out []*models.ValuationRequest
	for rows.Next() {
		var v models.ValuationRequest
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Address,
			&v.PropertyType, &v.Message, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan valuation request: %w", err)
		}
		out = append(out, &v)
	}
	return out, rowsErr(rows)
}

// ListContacts returns contact requests, newest first.
func (r *PostgresLeadRepository) ListContacts(ctx context.Context, limit, offset int) ([]*models.ContactRequest, error) {
	defer metrics.RecordDBQuery("contact_list", time.Now())

	query := `
		SELECT id, name, email, phone, message, property_id, created_at
		FROM contact_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}
	defer rows.Close()

	var out []*models.ContactRequest
	for rows.Next() {
		var c models.ContactRequest
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message,
			&c.PropertyID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact request: %w", err)
		}
		out = append(out, &c)
	}
	return out, rowsErr(rows)
}

func rowsErr(rows pgx.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	return nil
}
