package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"helppro/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrSkillAlreadyExists = errors.New("skill already exists")

const skillCatalogCacheKey = "skills:catalog"

type SkillItem struct {
	ID       uuid.UUID
	Name     string
	Category string
}

// CatalogCache is the slice of the Redis client the skill usecase needs.
// A nil cache (or an unavailable Redis) means every read goes to Postgres.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
	AddSkill(ctx context.Context, name, category string) (SkillItem, error)
}

type SkillService struct {
	repo  repository.SkillRepository
	cache CatalogCache
}

func NewSkillUsecase(repo repository.SkillRepository, cache CatalogCache) *SkillService {
	return &SkillService{repo: repo, cache: cache}
}

// ListSkills serves the catalog, preferring the cache. Only this listing is
// cached; the matcher resolves tags straight through Postgres so a ranking
// never depends on cache freshness.
func (s *SkillService) ListSkills(ctx context.Context) ([]SkillItem, error) {
	if s.cache != nil {
		var cached []SkillItem
		if ok, err := s.cache.GetJSON(ctx, skillCatalogCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	items, err := s.repo.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name, Category: it.Category})
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, skillCatalogCacheKey, out, 0)
	}
	return out, nil
}

func (s *SkillService) AddSkill(ctx context.Context, name, category string) (SkillItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, ErrInvalidInput
	}

	created, err := s.repo.CreateSkill(ctx, name, strings.TrimSpace(category))
	if err != nil {
		if isUniqueViolation(err) {
			return SkillItem{}, ErrSkillAlreadyExists
		}
		return SkillItem{}, ErrInternal
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, skillCatalogCacheKey)
	}
	return SkillItem{ID: created.ID, Name: created.Name, Category: created.Category}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
