package repository

import (
	"context"

	"helppro/internal/database"

	"github.com/google/uuid"
)

type Skill struct {
	ID       uuid.UUID
	Name     string
	Category string
}

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]Skill, error)
	// ResolveByNames returns the catalog skills whose canonical name exactly
	// matches one of the given names (case-sensitive). Names without a
	// catalog entry are simply absent from the result.
	ResolveByNames(ctx context.Context, names []string) ([]Skill, error)
	CreateSkill(ctx context.Context, name, category string) (Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(category, '') FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSkills(rows)
}

func (r *PostgresSkillRepository) ResolveByNames(ctx context.Context, names []string) ([]Skill, error) {
	if len(names) == 0 {
		return []Skill{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(category, '')
		 FROM skills
		 WHERE name = ANY($1)
		 ORDER BY name ASC`,
		names,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSkills(rows)
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, name, category string) (Skill, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name, category) VALUES ($1, $2, NULLIF($3, ''))`,
		id, name, category,
	)
	if err != nil {
		return Skill{}, err
	}
	return Skill{ID: id, Name: name, Category: category}, nil
}

func collectSkills(rows database.Rows) ([]Skill, error) {
	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
