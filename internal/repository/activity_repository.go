package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/inmogo/inmogo/internal/database"
	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/models"
)

// ActivityRepository records audit rows for admin and portal mutations.
type ActivityRepository interface {
	// Record stores one activity-log row.
	Record(ctx context.Context, entry *models.ActivityLog) error

	// ListByEntity returns activity for one entity, newest first.
	ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*models.ActivityLog, error)
}

// ClientRepository resolves client profiles for recipient lookup and
// ownership checks.
type ClientRepository interface {
	// GetByID retrieves a client profile.
	GetByID(ctx context.Context, id string) (*models.Client, error)
}

// PostgresActivityRepository implements ActivityRepository using PostgreSQL.
type PostgresActivityRepository struct {
	pool *database.Pool
}

// NewPostgresActivityRepository creates a PostgreSQL-backed activity repository.
func NewPostgresActivityRepository(pool *database.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

// Record stores one activity-log row.
func (r *PostgresActivityRepository) Record(ctx context.Context, entry *models.ActivityLog) error {
	defer metrics.RecordDBQuery("activity_insert", time.Now())

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO activity_log (id, actor_id, action, entity, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.Entity, entry.EntityID, entry.Detail)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListByEntity returns activity for one entity, newest first.
func (r *PostgresActivityRepository) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*models.ActivityLog, error) {
	defer metrics.RecordDBQuery("activity_list", time.Now())

	query := `
		SELECT id, actor_id, action, entity, entity_id, detail, created_at
		FROM activity_log
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, entity, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var out []*models.ActivityLog
	for rows.Next() {
		var e models.ActivityLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, &e)
	}
	return out, rowsErr(rows)
}

// PostgresClientRepository implements ClientRepository using PostgreSQL.
type PostgresClientRepository struct {
	pool *database.Pool
}

// NewPostgresClientRepository creates a PostgreSQL-backed client repository.
func NewPostgresClientRepository(pool *database.Pool) *PostgresClientRepository {
	return &PostgresClientRepository{pool: pool}
}

// GetByID retrieves a client profile.
func (r *PostgresClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	defer metrics.RecordDBQuery("client_get", time.Now())

	query := `SELECT id, name, email, phone, created_at FROM clients WHERE id = $1`

	var c models.Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}
