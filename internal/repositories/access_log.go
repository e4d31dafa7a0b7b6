package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/assetd/internal/models"
	"github.com/desertthunder/assetd/internal/shared"
)

// AccessLogRepository persists [models.AccessRecord] rows.
type AccessLogRepository struct {
	db *sql.DB
}

// NewAccessLogRepository creates a new [AccessLogRepository] with the given database connection
func NewAccessLogRepository(db *sql.DB) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

// ListOpts filters [AccessLogRepository.List].
type ListOpts struct {
	Limit  int // <= 0 means 50
	Status int // 0 means any
	Since  time.Time
}

// Create inserts rec, generating its ID when empty.
func (r *AccessLogRepository) Create(ctx context.Context, rec *models.AccessRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if rec.ID == "" {
		rec.ID = shared.GenerateID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO access_log (id, method, url, status, bytes, duration_us, remote_addr, request_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Method, rec.URL, rec.Status, rec.Bytes, rec.Duration.Microseconds(),
		rec.RemoteAddr, rec.RequestID, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert access record: %w", err)
	}

	return nil
}

// Get retrieves a record by ID.
func (r *AccessLogRepository) Get(ctx context.Context, id string) (*models.AccessRecord, error) {
	query := `
		SELECT id, method, url, status, bytes, duration_us, remote_addr, request_id, created_at
		FROM access_log
		WHERE id = ?
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query access record: %w", err)
	}

	return rec, nil
}

// List returns records newest first.
func (r *AccessLogRepository) List(ctx context.Context, opts ListOpts) ([]models.AccessRecord, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	var (
		where []string
		args  []any
	)
	if opts.Status != 0 {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}
	if !opts.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	query := `SELECT id, method, url, status, bytes, duration_us, remote_addr, request_id, created_at FROM access_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, opts.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list access records: %w", err)
	}
	defer rows.Close()

	var records []models.AccessRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access record: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access records: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (r *AccessLogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM access_log").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count access records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.AccessRecord, error) {
	var (
		rec        models.AccessRecord
		durationUS int64
	)
	err := s.Scan(&rec.ID, &rec.Method, &rec.URL, &rec.Status, &rec.Bytes, &durationUS,
		&rec.RemoteAddr, &rec.RequestID, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Duration = time.Duration(durationUS) * time.Microsecond
	return &rec, nil
}
