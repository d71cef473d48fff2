package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"helppro/internal/config"
	"helppro/internal/database"
	"helppro/internal/database/migration"
	dbpostgres "helppro/internal/database/postgres"
	"helppro/internal/delivery/http/middleware"
	"helppro/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type matchItem struct {
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Points            int       `json:"points"`
	MatchedSkills     []string  `json:"matched_skills"`
	ProficiencyLevels []string  `json:"proficiency_levels"`
	MatchScore        int       `json:"match_score"`
}

type matchResponse struct {
	Matches       []matchItem `json:"matches"`
	TotalMatches  int         `json:"total_matches"`
	HelpRequestID string      `json:"help_request_id"`
	Error         string      `json:"error"`
}

func TestIntegration_MatchFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	seed := seedMatchData(t, ctx, db)
	defer cleanupSeed(t, ctx, db, seed)

	app := newTestApp(t, db)

	t.Run("missing id", func(t *testing.T) {
		status, res := postMatches(t, app, `{}`)
		if status != fiber.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		if res.Error != "help_request_id is required" {
			t.Fatalf("unexpected error message: %q", res.Error)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		status, res := postMatches(t, app, `{"help_request_id":"`+uuid.NewString()+`"}`)
		if status != fiber.StatusNotFound {
			t.Fatalf("expected 404, got %d", status)
		}
		if res.Error != "Help request not found" {
			t.Fatalf("unexpected error message: %q", res.Error)
		}
	})

	t.Run("ranked matches", func(t *testing.T) {
		status, res := postMatches(t, app, `{"help_request_id":"`+seed.requestID.String()+`"}`)
		if status != fiber.StatusOK {
			t.Fatalf("expected 200, got %d (error=%q)", status, res.Error)
		}
		if res.HelpRequestID != seed.requestID.String() {
			t.Fatalf("expected echoed request id, got %q", res.HelpRequestID)
		}
		if res.TotalMatches != 2 || len(res.Matches) != 2 {
			t.Fatalf("expected 2 matches, got total=%d len=%d", res.TotalMatches, len(res.Matches))
		}

		for i := 1; i < len(res.Matches); i++ {
			if res.Matches[i].MatchScore > res.Matches[i-1].MatchScore {
				t.Fatalf("expected match_score descending at idx=%d", i)
			}
		}

		best := res.Matches[0]
		if best.UserID != seed.strongHelperID {
			t.Fatalf("expected the full-overlap helper first, got %s", best.UserID)
		}
		// 2/2*40 + 500/1000*30 + avg(10,7)/10*30 = 80.5 -> 81
		if best.MatchScore != 81 {
			t.Fatalf("expected score 81, got %d", best.MatchScore)
		}
		if len(best.MatchedSkills) != 2 {
			t.Fatalf("expected both skills matched, got %v", best.MatchedSkills)
		}

		for _, m := range res.Matches {
			if m.UserID == seed.requesterID {
				t.Fatalf("requester leaked into their own matches")
			}
		}
	})
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("HELPPRO_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("HELPPRO_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("HELPPRO_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("HELPPRO_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("HELPPRO_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("HELPPRO_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set HELPPRO_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}
	migDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "migrations"))

	r := migration.Runner{Dir: migDir}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

type seededIDs struct {
	requesterID    uuid.UUID
	strongHelperID uuid.UUID
	weakHelperID   uuid.UUID
	requestID      uuid.UUID
	skillIDs       map[string]uuid.UUID
}

func seedMatchData(t *testing.T, ctx context.Context, db database.DB) seededIDs {
	t.Helper()

	out := seededIDs{
		requesterID:    uuid.New(),
		strongHelperID: uuid.New(),
		weakHelperID:   uuid.New(),
		requestID:      uuid.New(),
		skillIDs:       map[string]uuid.UUID{},
	}

	out.skillIDs["React"] = ensureSkill(t, ctx, db, "React")
	out.skillIDs["Node.js"] = ensureSkill(t, ctx, db, "Node.js")

	ensureUser(t, ctx, db, out.requesterID, "IT Dana", 900)
	ensureUser(t, ctx, db, out.strongHelperID, "IT Avery", 500)
	ensureUser(t, ctx, db, out.weakHelperID, "IT Blake", 100)

	ensureUserSkill(t, ctx, db, out.strongHelperID, out.skillIDs["React"], "expert")
	ensureUserSkill(t, ctx, db, out.strongHelperID, out.skillIDs["Node.js"], "advanced")
	ensureUserSkill(t, ctx, db, out.weakHelperID, out.skillIDs["React"], "beginner")
	// The requester knows React too; they must never match themselves.
	ensureUserSkill(t, ctx, db, out.requesterID, out.skillIDs["React"], "expert")

	_, err := db.Exec(ctx,
		`INSERT INTO help_requests (id, requester_id, title, tags)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO NOTHING`,
		out.requestID, out.requesterID, "Debug my deploy pipeline", []string{"React", "Node.js"},
	)
	if err != nil {
		t.Fatalf("seed help_request: %v", err)
	}

	return out
}

func cleanupSeed(t *testing.T, ctx context.Context, db database.DB, seed seededIDs) {
	t.Helper()

	_, _ = db.Exec(ctx, `DELETE FROM help_requests WHERE id = $1`, seed.requestID)
	for _, id := range []uuid.UUID{seed.requesterID, seed.strongHelperID, seed.weakHelperID} {
		_, _ = db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	}
}

func newTestApp(t *testing.T, db database.DB) *fiber.App {
	t.Helper()

	cfg := config.Config{
		App:  config.AppConfig{AppName: "HelpPro", Environment: "test", HTTPPort: "0"},
		Auth: config.AuthConfig{JWTSecret: "test-secret"},
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())

	routes.NewRegistry(cfg, db, nil, logger).Register(app)
	return app
}

func postMatches(t *testing.T, app *fiber.App, body string) (int, matchResponse) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/matches", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	var res matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, res
}

func ensureSkill(t *testing.T, ctx context.Context, db database.DB, name string) uuid.UUID {
	t.Helper()

	_, err := db.Exec(ctx,
		`INSERT INTO skills (id, name) VALUES ($1,$2) ON CONFLICT (name) DO NOTHING`,
		uuid.New(), name,
	)
	if err != nil {
		t.Fatalf("seed skill %s: %v", name, err)
	}

	row := db.QueryRow(ctx, `SELECT id FROM skills WHERE name = $1 LIMIT 1`, name)
	var got uuid.UUID
	if err := row.Scan(&got); err != nil {
		t.Fatalf("seed skill select %s: %v", name, err)
	}
	return got
}

func ensureUser(t *testing.T, ctx context.Context, db database.DB, id uuid.UUID, name string, points int) {
	t.Helper()

	if _, err := db.Exec(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, err := db.Exec(ctx,
		`INSERT INTO profiles (user_id, name, points) VALUES ($1,$2,$3)
		 ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, points = EXCLUDED.points`,
		id, name, points,
	)
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func ensureUserSkill(t *testing.T, ctx context.Context, db database.DB, userID, skillID uuid.UUID, proficiency string) {
	t.Helper()

	_, err := db.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, proficiency)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, skill_id) DO UPDATE SET proficiency = EXCLUDED.proficiency`,
		uuid.New(), userID, skillID, proficiency,
	)
	if err != nil {
		t.Fatalf("seed user_skill: %v", err)
	}
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
