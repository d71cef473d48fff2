package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"helppro/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrHelpRequestNotFound = errors.New("help request not found")

type HelpRequest struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	Title       string
	Description string
	Category    string
	Tags        []string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type HelpRequestFilter struct {
	Category    string
	Status      string
	RequesterID uuid.UUID
	Limit       int
	Offset      int
}

type HelpRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (HelpRequest, error)
	List(ctx context.Context, f HelpRequestFilter) ([]HelpRequest, error)
	Create(ctx context.Context, hr HelpRequest) (HelpRequest, error)
	Update(ctx context.Context, hr HelpRequest) (HelpRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresHelpRequestRepository struct {
	db database.DB
}

func NewPostgresHelpRequestRepository(db database.DB) *PostgresHelpRequestRepository {
	return &PostgresHelpRequestRepository{db: db}
}

const helpRequestColumns = `id, requester_id, title, description, category, tags, status, created_at, updated_at`

func (r *PostgresHelpRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (HelpRequest, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+helpRequestColumns+` FROM help_requests WHERE id = $1`,
		id,
	)

	hr, err := scanHelpRequest(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return HelpRequest{}, ErrHelpRequestNotFound
		}
		return HelpRequest{}, err
	}
	return hr, nil
}

func (r *PostgresHelpRequestRepository) List(ctx context.Context, f HelpRequestFilter) ([]HelpRequest, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+helpRequestColumns+`
		 FROM help_requests
		 WHERE ($1 = '' OR category = $1)
		   AND ($2 = '' OR status = $2)
		   AND ($3::uuid IS NULL OR requester_id = $3)
		 ORDER BY created_at DESC
		 LIMIT $4 OFFSET $5`,
		f.Category, f.Status, nullableUUID(f.RequesterID), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HelpRequest, 0)
	for rows.Next() {
		hr, err := scanHelpRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresHelpRequestRepository) Create(ctx context.Context, hr HelpRequest) (HelpRequest, error) {
	if hr.ID == uuid.Nil {
		hr.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO help_requests (id, requester_id, title, description, category, tags, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		hr.ID, hr.RequesterID, hr.Title, hr.Description, hr.Category, hr.Tags, hr.Status,
	)
	if err != nil {
		return HelpRequest{}, err
	}
	return r.FindByID(ctx, hr.ID)
}

func (r *PostgresHelpRequestRepository) Update(ctx context.Context, hr HelpRequest) (HelpRequest, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE help_requests
		 SET title = $1, description = $2, category = $3, tags = $4, status = $5, updated_at = now()
		 WHERE id = $6`,
		hr.Title, hr.Description, hr.Category, hr.Tags, hr.Status, hr.ID,
	)
	if err != nil {
		return HelpRequest{}, err
	}
	if rowsAffected == 0 {
		return HelpRequest{}, ErrHelpRequestNotFound
	}
	return r.FindByID(ctx, hr.ID)
}

func (r *PostgresHelpRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx, `DELETE FROM help_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrHelpRequestNotFound
	}
	return nil
}

func scanHelpRequest(row database.Row) (HelpRequest, error) {
	var hr HelpRequest
	err := row.Scan(
		&hr.ID, &hr.RequesterID, &hr.Title, &hr.Description,
		&hr.Category, &hr.Tags, &hr.Status, &hr.CreatedAt, &hr.UpdatedAt,
	)
	if err != nil {
		return HelpRequest{}, err
	}
	if hr.Tags == nil {
		hr.Tags = []string{}
	}
	return hr, nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
