package seeder

import (
	"context"
	"fmt"

	"helppro/internal/database"
)

// DemoSeeder fills a development database with a couple of helpers and an
// open help request so the matcher has something to rank. Never registered
// in production (see Defaults).
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

const (
	demoRequesterID = "5f8a1c1e-0000-4000-8000-000000000001"
	demoHelperAID   = "5f8a1c1e-0000-4000-8000-000000000002"
	demoHelperBID   = "5f8a1c1e-0000-4000-8000-000000000003"
)

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "profiles", "user_id", "name", "points"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "help_requests", "id", "requester_id", "tags"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	users := []struct {
		ID       string
		Name     string
		Headline string
		Location string
		Points   int
	}{
		{demoRequesterID, "Dana Requester", "Learning to ship", "Lisbon", 120},
		{demoHelperAID, "Avery Helper", "Full-stack tinkerer", "Berlin", 500},
		{demoHelperBID, "Sam Helper", "Frontend at heart", "Austin", 900},
	}
	for _, u := range users {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, u.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO profiles (user_id, name, headline, location, points)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (user_id) DO NOTHING`,
			u.ID, u.Name, u.Headline, u.Location, u.Points); err != nil {
			return err
		}
	}

	skills := []struct {
		UserID      string
		SkillName   string
		Proficiency string
	}{
		{demoHelperAID, "React", "expert"},
		{demoHelperAID, "Node.js", "advanced"},
		{demoHelperBID, "React", "intermediate"},
		{demoHelperBID, "CSS", ""},
	}
	for _, s := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_skills (id, user_id, skill_id, proficiency)
			 SELECT gen_random_uuid(), $1, s.id, NULLIF($3, '')
			 FROM skills s WHERE s.name = $2
			 ON CONFLICT (user_id, skill_id) DO NOTHING`,
			s.UserID, s.SkillName, s.Proficiency); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO help_requests (id, requester_id, title, description, category, tags, status)
		 VALUES (gen_random_uuid(), $1, 'Debug my React app', 'State updates lag a render behind.', 'Web', $2, 'open')
		 ON CONFLICT DO NOTHING`,
		demoRequesterID, []string{"React", "Node.js"}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
