package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mobil-koeln/roamly/internal/models"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// db is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx. Tests pass a
// transaction that is rolled back afterwards.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps destinations in the destinations table
type PostgresStore struct {
	db db
}

// NewPostgresStore creates a store backed by db
func NewPostgresStore(db db) *PostgresStore {
	return &PostgresStore{db: db}
}

const destinationColumns = `id, kind, start_lat, start_lng, end_lat, end_lng,
	name, date_label, description, image_url, video_url`

// Load returns every destination. The table is the source of truth, so this
// is the same as List.
func (r *PostgresStore) Load(ctx context.Context) ([]models.Destination, error) {
	ds, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.PostgresStore.Load: %w", err)
	}
	return ds, nil
}

// List returns every destination ordered by id
func (r *PostgresStore) List(ctx context.Context) ([]models.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations ORDER BY id`
	return r.query(ctx, "List", q, pgx.NamedArgs{})
}

// ByKind returns destinations of one vehicle kind ordered by id
func (r *PostgresStore) ByKind(ctx context.Context, kind models.VehicleKind) ([]models.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations WHERE kind = @kind ORDER BY id`
	return r.query(ctx, "ByKind", q, pgx.NamedArgs{"kind": string(kind)})
}

func (r *PostgresStore) query(ctx context.Context, op, q string, args pgx.NamedArgs) ([]models.Destination, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repository.PostgresStore.%s: %w", op, err)
	}
	defer rows.Close()

	var ds []models.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.PostgresStore.%s: scan: %w", op, err)
		}
		ds = append(ds, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.PostgresStore.%s: rows: %w", op, err)
	}
	return ds, nil
}

// GetByID returns the destination with id
func (r *PostgresStore) GetByID(ctx context.Context, id int) (models.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations WHERE id = @id`

	d, err := scanDestination(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return models.Destination{}, fmt.Errorf("repository.PostgresStore.GetByID: %w", err)
	}
	return d, nil
}

// Add inserts d
func (r *PostgresStore) Add(ctx context.Context, d models.Destination) error {
	const q = `
		INSERT INTO destinations (` + destinationColumns + `)
		VALUES (@id, @kind, @start_lat, @start_lng, @end_lat, @end_lng,
		        @name, @date_label, @description, @image_url, @video_url)`

	if _, err := r.db.Exec(ctx, q, destinationArgs(d)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("repository.PostgresStore.Add: id %d: %w", d.ID, ErrDuplicateID)
		}
		return fmt.Errorf("repository.PostgresStore.Add: %w", err)
	}
	return nil
}

// Upsert inserts or overwrites d
func (r *PostgresStore) Upsert(ctx context.Context, d models.Destination) error {
	const q = `
		INSERT INTO destinations (` + destinationColumns + `)
		VALUES (@id, @kind, @start_lat, @start_lng, @end_lat, @end_lng,
		        @name, @date_label, @description, @image_url, @video_url)
		ON CONFLICT (id) DO UPDATE
		SET kind        = EXCLUDED.kind,
		    start_lat   = EXCLUDED.start_lat,
		    start_lng   = EXCLUDED.start_lng,
		    end_lat     = EXCLUDED.end_lat,
		    end_lng     = EXCLUDED.end_lng,
		    name        = EXCLUDED.name,
		    date_label  = EXCLUDED.date_label,
		    description = EXCLUDED.description,
		    image_url   = EXCLUDED.image_url,
		    video_url   = EXCLUDED.video_url,
		    updated_at  = now()`

	if _, err := r.db.Exec(ctx, q, destinationArgs(d)); err != nil {
		return fmt.Errorf("repository.PostgresStore.Upsert: %w", err)
	}
	return nil
}

// Remove deletes the destination with id
func (r *PostgresStore) Remove(ctx context.Context, id int) (bool, error) {
	const q = `DELETE FROM destinations WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("repository.PostgresStore.Remove: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Update applies p to the destination with id
func (r *PostgresStore) Update(ctx context.Context, id int, p Patch) (models.Destination, error) {
	if err := p.Validate(); err != nil {
		return models.Destination{}, err
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Destination{}, fmt.Errorf("repository.PostgresStore.Update: %w", err)
	}
	next := p.Apply(current)

	const q = `
		UPDATE destinations
		SET kind        = @kind,
		    start_lat   = @start_lat,
		    start_lng   = @start_lng,
		    end_lat     = @end_lat,
		    end_lng     = @end_lng,
		    name        = @name,
		    date_label  = @date_label,
		    description = @description,
		    image_url   = @image_url,
		    video_url   = @video_url,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + destinationColumns

	d, err := scanDestination(r.db.QueryRow(ctx, q, destinationArgs(next)))
	if err != nil {
		return models.Destination{}, fmt.Errorf("repository.PostgresStore.Update: %w", err)
	}
	return d, nil
}

func destinationArgs(d models.Destination) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          d.ID,
		"kind":        string(d.Kind),
		"start_lat":   d.Start.Lat,
		"start_lng":   d.Start.Lng,
		"end_lat":     d.End.Lat,
		"end_lng":     d.End.Lng,
		"name":        d.Name,
		"date_label":  d.Date,
		"description": d.Description,
		"image_url":   nullable(d.ImageURL), // "" becomes NULL
		"video_url":   nullable(d.VideoURL),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanner is satisfied by pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDestination(s scanner) (models.Destination, error) {
	var (
		d          models.Destination
		kind       string
		image, vid *string
	)
	err := s.Scan(&d.ID, &kind, &d.Start.Lat, &d.Start.Lng, &d.End.Lat, &d.End.Lng,
		&d.Name, &d.Date, &d.Description, &image, &vid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Destination{}, ErrNotFound
		}
		return models.Destination{}, err
	}
	d.Kind = models.VehicleKind(kind)
	if image != nil {
		d.ImageURL = *image
	}
	if vid != nil {
		d.VideoURL = *vid
	}
	return d, nil
}
