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

// InvoiceRepository defines persistence for invoice requests.
type InvoiceRepository interface {
	// Create opens a new invoice request with status PENDING.
	Create(ctx context.Context, create *models.InvoiceCreate) (*models.InvoiceRequest, error)

	// GetByID retrieves an invoice request.
	GetByID(ctx context.Context, id int64) (*models.InvoiceRequest, error)

	// ListByClient returns a client's invoice requests, newest first.
	ListByClient(ctx context.Context, clientID string) ([]*models.InvoiceRequest, error)

	// List returns all invoice requests for the back office, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.InvoiceRequest, error)

	// UpdateStatus transitions a request. processedAt/processedBy are set
	// only when the new status is terminal.
	UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus, processedAt *time.Time, processedBy string) (*models.InvoiceRequest, error)
}

// PostgresInvoiceRepository implements InvoiceRepository using PostgreSQL.
type PostgresInvoiceRepository struct {
	pool *database.Pool
}

// NewPostgresInvoiceRepository creates a PostgreSQL-backed invoice repository.
func NewPostgresInvoiceRepository(pool *database.Pool) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{pool: pool}
}

const invoiceColumns = `id, client_id, type, concept, amount, status,
	processed_at, processed_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.InvoiceRequest, error) {
	var inv models.InvoiceRequest
	var processedBy *string
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.Type, &inv.Concept, &inv.Amount,
		&inv.Status, &inv.ProcessedAt, &processedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to scan invoice request: %w", err)
	}
	if processedBy != nil {
		inv.ProcessedBy = *processedBy
	}
	return &inv, nil
}

// Create opens a new invoice request with status PENDING.
func (r *PostgresInvoiceRepository) Create(ctx context.Context, create *models.InvoiceCreate) (*models.InvoiceRequest, error) {
	defer metrics.RecordDBQuery("invoice_insert", time.Now())

	query := `
		INSERT INTO invoice_requests (client_id, type, concept, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + invoiceColumns

	return scanInvoice(r.pool.QueryRow(ctx, query,
		create.ClientID, create.Type, create.Concept, create.Amount, models.InvoicePending,
	))
}

// GetByID retrieves an invoice request.
func (r *PostgresInvoiceRepository) GetByID(ctx context.Context, id int64) (*models.InvoiceRequest, error) {
	defer metrics.RecordDBQuery("invoice_get", time.Now())

	query := `SELECT ` + invoiceColumns + ` FROM invoice_requests WHERE id = $1`
	return scanInvoice(r.pool.QueryRow(ctx, query, id))
}

// ListByClient returns a client's invoice requests, newest first.
func (r *PostgresInvoiceRepository) ListByClient(ctx context.Context, clientID string) ([]*models.InvoiceRequest, error) {
	defer metrics.RecordDBQuery("invoice_list_client", time.Now())

	query := `SELECT ` + invoiceColumns + `
		FROM invoice_requests WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client invoice requests: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// List returns all invoice requests, newest first.
func (r *PostgresInvoiceRepository) List(ctx context.Context, limit, offset int) ([]*models.InvoiceRequest, error) {
	defer metrics.RecordDBQuery("invoice_list", time.Now())

	query := `SELECT ` + invoiceColumns + `
		FROM invoice_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice requests: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]*models.InvoiceRequest, error) {
	var out []*models.InvoiceRequest
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rowsErr(rows)
}

// UpdateStatus transitions a request.
func (r *PostgresInvoiceRepository) UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus, processedAt *time.Time, processedBy string) (*models.InvoiceRequest, error) {
	defer metrics.RecordDBQuery("invoice_update_status", time.Now())

	query := `
		UPDATE invoice_requests
		SET status = $2, processed_at = $3, processed_by = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + invoiceColumns

	var by *string
	if processedBy != "" {
		by = &processedBy
	}
	return scanInvoice(r.pool.QueryRow(ctx, query, id, status, processedAt, by))
}
