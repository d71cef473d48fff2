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

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	UserID    uuid.UUID
	Name      string
	Avatar    string
	Headline  string
	Location  string
	Points    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error)
	// Update writes the user-editable fields. Points are granted by the
	// external reward flows and are not writable here.
	Update(ctx context.Context, p Profile) (Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `user_id, COALESCE(name, ''), COALESCE(avatar, ''), COALESCE(headline, ''), COALESCE(location, ''), points, created_at, updated_at`

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`,
		userID,
	)

	var p Profile
	if err := scanProfile(row, &p); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error) {
	if len(userIDs) == 0 {
		return []Profile{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE user_id = ANY($1)`,
		userIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Profile, 0, len(userIDs))
	for rows.Next() {
		var p Profile
		if err := scanProfile(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p Profile) (Profile, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET name = NULLIF($1, ''), avatar = NULLIF($2, ''), headline = NULLIF($3, ''), location = NULLIF($4, ''), updated_at = now()
		 WHERE user_id = $5`,
		p.Name, p.Avatar, p.Headline, p.Location, p.UserID,
	)
	if err != nil {
		return Profile{}, err
	}
	if rowsAffected == 0 {
		return Profile{}, ErrProfileNotFound
	}
	return r.FindByUserID(ctx, p.UserID)
}

func scanProfile(row database.Row, p *Profile) error {
	return row.Scan(
		&p.UserID, &p.Name, &p.Avatar, &p.Headline,
		&p.Location, &p.Points, &p.CreatedAt, &p.UpdatedAt,
	)
}
