package repository

import (
	"context"
	"database/sql"
	"errors"

	"helppro/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserSkillNotFound  = errors.New("skill not found")
	ErrUserSkillForbidden = errors.New("forbidden")
)

// UserSkill links a user to a catalog skill. Proficiency is the self-reported
// tier (beginner|intermediate|advanced|expert) and is empty when the user
// never recorded one.
type UserSkill struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SkillID     uuid.UUID
	SkillName   string
	Proficiency string
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error)
	// FindBySkillIDs returns every association whose skill is in skillIDs,
	// excluding rows belonging to excludeUserID. Used by the matcher: the
	// requester must never match their own request.
	FindBySkillIDs(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]UserSkill, error)
	FindByUserAndSkill(ctx context.Context, userID, skillID uuid.UUID) (UserSkill, error)
	SkillExistsByID(ctx context.Context, skillID uuid.UUID) (bool, error)
	Create(ctx context.Context, us UserSkill) (UserSkill, error)
	Update(ctx context.Context, us UserSkill) (UserSkill, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillSelect = `SELECT us.id, us.user_id, us.skill_id, s.name, COALESCE(us.proficiency, '')
	 FROM user_skills us
	 JOIN skills s ON s.id = us.skill_id`

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error) {
	rows, err := r.db.Query(ctx,
		userSkillSelect+`
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUserSkills(rows)
}

func (r *PostgresUserSkillRepository) FindBySkillIDs(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]UserSkill, error) {
	if len(skillIDs) == 0 {
		return []UserSkill{}, nil
	}

	rows, err := r.db.Query(ctx,
		userSkillSelect+`
		 WHERE us.skill_id = ANY($1)
		   AND us.user_id <> $2
		 ORDER BY us.user_id, s.name ASC`,
		skillIDs, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUserSkills(rows)
}

func (r *PostgresUserSkillRepository) FindByUserAndSkill(ctx context.Context, userID, skillID uuid.UUID) (UserSkill, error) {
	row := r.db.QueryRow(ctx,
		userSkillSelect+`
		 WHERE us.user_id = $1 AND us.skill_id = $2`,
		userID, skillID,
	)

	var us UserSkill
	if err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Proficiency); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return UserSkill{}, ErrUserSkillNotFound
		}
		return UserSkill{}, err
	}
	return us, nil
}

func (r *PostgresUserSkillRepository) SkillExistsByID(ctx context.Context, skillID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, skillID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserSkillRepository) Create(ctx context.Context, us UserSkill) (UserSkill, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, proficiency)
		 VALUES ($1, $2, $3, NULLIF($4, ''))`,
		us.ID, us.UserID, us.SkillID, us.Proficiency,
	)
	if err != nil {
		return UserSkill{}, err
	}
	return r.findByID(ctx, us.ID, us.UserID)
}

func (r *PostgresUserSkillRepository) Update(ctx context.Context, us UserSkill) (UserSkill, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE user_skills
		 SET proficiency = NULLIF($1, '')
		 WHERE id = $2 AND user_id = $3`,
		us.Proficiency, us.ID, us.UserID,
	)
	if err != nil {
		return UserSkill{}, err
	}
	if rowsAffected == 0 {
		return UserSkill{}, ErrUserSkillNotFound
	}
	return r.findByID(ctx, us.ID, us.UserID)
}

func (r *PostgresUserSkillRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM user_skills WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return ErrUserSkillNotFound
		}
		return err
	}
	if owner != userID {
		return ErrUserSkillForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	return err
}

func (r *PostgresUserSkillRepository) findByID(ctx context.Context, id, userID uuid.UUID) (UserSkill, error) {
	row := r.db.QueryRow(ctx,
		userSkillSelect+`
		 WHERE us.id = $1 AND us.user_id = $2`,
		id, userID,
	)

	var us UserSkill
	if err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Proficiency); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return UserSkill{}, ErrUserSkillNotFound
		}
		return UserSkill{}, err
	}
	return us, nil
}

func collectUserSkills(rows database.Rows) ([]UserSkill, error) {
	out := make([]UserSkill, 0)
	for rows.Next() {
		var us UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Proficiency); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
