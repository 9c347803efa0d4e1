// Package repository persists share records and history snapshots in the
// embedded datastore. The whole layer is optional: when no database is
// configured the application runs memory-only and sharing is disabled.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
)

// ShareStore owns the lifetime of share records. A record is treated as
// absent once its expiry has passed.
type ShareStore interface {
	Insert(ctx context.Context, rec *models.ShareRecord) error
	GetActive(ctx context.Context, id string, now time.Time) (*models.ShareRecord, error)
	IncrementViews(ctx context.Context, id string) error
}

// SnapshotStore mirrors per-session history state, best effort.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, sessionID string, payload []byte) error
	LoadSnapshot(ctx context.Context, sessionID string) ([]byte, error)
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, rec *models.ShareRecord) error {
	query := `
		INSERT INTO share_records (id, title, content, expires_at, view_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Title,
		rec.Content,
		rec.ExpiresAt,
		rec.ViewCount,
		rec.CreatedAt,
	)
	return err
}

// GetActive returns the record, or nil once expired or unknown.
func (r *Repository) GetActive(ctx context.Context, id string, now time.Time) (*models.ShareRecord, error) {
	var rec models.ShareRecord
	query := `
		SELECT id, title, content, expires_at, view_count, created_at
		FROM share_records
		WHERE id = $1 AND expires_at > $2
	`
	err := r.db.GetContext(ctx, &rec, query, id, now)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE share_records SET view_count = view_count + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) SaveSnapshot(ctx context.Context, sessionID string, payload []byte) error {
	query := `
		INSERT INTO history_snapshots (session_id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT(session_id) DO UPDATE SET payload = $2, updated_at = $3
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, string(payload), time.Now())
	return err
}

// LoadSnapshot returns nil with no error when no snapshot exists.
func (r *Repository) LoadSnapshot(ctx context.Context, sessionID string) ([]byte, error) {
	var payload string
	query := `SELECT payload FROM history_snapshots WHERE session_id = $1`
	err := r.db.GetContext(ctx, &payload, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}
