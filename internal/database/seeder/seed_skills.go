package seeder

import (
	"context"
	"fmt"

	"helppro/internal/database"
)

// SkillsSeeder loads the canonical skill catalog. Help request tags resolve
// against these names case-sensitively, so the casing here is the casing
// requesters must use.
type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name     string
		Category string
	}{
		{Name: "JavaScript", Category: "Programming Language"},
		{Name: "TypeScript", Category: "Programming Language"},
		{Name: "Python", Category: "Programming Language"},
		{Name: "Go", Category: "Programming Language"},
		{Name: "Java", Category: "Programming Language"},
		{Name: "React", Category: "Frontend"},
		{Name: "Vue.js", Category: "Frontend"},
		{Name: "Angular", Category: "Frontend"},
		{Name: "CSS", Category: "Frontend"},
		{Name: "Node.js", Category: "Backend"},
		{Name: "Django", Category: "Backend"},
		{Name: "PostgreSQL", Category: "Database"},
		{Name: "MongoDB", Category: "Database"},
		{Name: "Redis", Category: "Database"},
		{Name: "Docker", Category: "DevOps"},
		{Name: "Kubernetes", Category: "DevOps"},
		{Name: "AWS", Category: "Cloud"},
		{Name: "Flutter", Category: "Mobile"},
		{Name: "React Native", Category: "Mobile"},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.Category,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
