package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"helppro/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// mockCatalogCache stores marshaled JSON like the real Redis-backed cache.
type mockCatalogCache struct {
	entries map[string][]byte

	gets    int
	sets    int
	deletes int
}

func newMockCatalogCache() *mockCatalogCache {
	return &mockCatalogCache{entries: map[string][]byte{}}
}

func (m *mockCatalogCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *mockCatalogCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockCatalogCache) Delete(_ context.Context, key string) error {
	m.deletes++
	delete(m.entries, key)
	return nil
}

func TestListSkills_PopulatesAndServesCache(t *testing.T) {
	repo := &mockSkillRepo{all: []repository.Skill{
		{ID: uuid.New(), Name: "React", Category: "frontend"},
		{ID: uuid.New(), Name: "PostgreSQL", Category: "database"},
	}}
	cache := newMockCatalogCache()
	uc := NewSkillUsecase(repo, cache)

	first, err := uc.ListSkills(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 || first[0].Name != "React" {
		t.Fatalf("unexpected catalog: %+v", first)
	}
	if repo.listCalls != 1 || cache.sets != 1 {
		t.Fatalf("expected one DB read and one cache write, got %d/%d", repo.listCalls, cache.sets)
	}

	second, err := uc.ListSkills(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected the second listing served from cache, got %d DB reads", repo.listCalls)
	}
	if len(second) != 2 || second[1].Name != "PostgreSQL" {
		t.Fatalf("unexpected cached catalog: %+v", second)
	}
}

func TestListSkills_NilCacheGoesToDB(t *testing.T) {
	repo := &mockSkillRepo{all: []repository.Skill{{ID: uuid.New(), Name: "Go"}}}
	uc := NewSkillUsecase(repo, nil)

	for i := 0; i < 2; i++ {
		if _, err := uc.ListSkills(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected every listing to hit the DB without a cache, got %d", repo.listCalls)
	}
}

func TestAddSkill_InvalidatesCache(t *testing.T) {
	repo := &mockSkillRepo{all: []repository.Skill{}}
	cache := newMockCatalogCache()
	uc := NewSkillUsecase(repo, cache)

	if _, err := uc.ListSkills(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := uc.AddSkill(context.Background(), "  Terraform ", " infra ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Name != "Terraform" || created.Category != "infra" {
		t.Fatalf("expected trimmed fields, got %+v", created)
	}
	if cache.deletes != 1 {
		t.Fatalf("expected the catalog entry invalidated, got %d deletes", cache.deletes)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("expected an empty cache after invalidation")
	}
}

func TestAddSkill_DuplicateName(t *testing.T) {
	repo := &mockSkillRepo{err: &pgconn.PgError{Code: "23505"}}
	uc := NewSkillUsecase(repo, nil)

	_, err := uc.AddSkill(context.Background(), "React", "")
	if !errors.Is(err, ErrSkillAlreadyExists) {
		t.Fatalf("expected ErrSkillAlreadyExists, got %v", err)
	}
}

func TestAddSkill_BlankName(t *testing.T) {
	repo := &mockSkillRepo{}
	uc := NewSkillUsecase(repo, nil)

	if _, err := uc.AddSkill(context.Background(), "   ", "misc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("expected nothing persisted")
	}
}
