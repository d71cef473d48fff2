package usecase

import (
	"context"
	"errors"
	"strings"

	"helppro/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrInvalidProficiency = errors.New("invalid proficiency level")
)

type AddUserSkillInput struct {
	SkillID     uuid.UUID
	Proficiency string
}

type UpdateUserSkillInput struct {
	Proficiency string
}

type UserSkillItem struct {
	ID          uuid.UUID
	SkillID     uuid.UUID
	SkillName   string
	Proficiency string
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]UserSkillItem, error)
	AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (UserSkillItem, error)
	UpdateUserSkill(ctx context.Context, userID, userSkillID uuid.UUID, in UpdateUserSkillInput) (UserSkillItem, error)
	DeleteUserSkill(ctx context.Context, userID, userSkillID uuid.UUID) error
}

type UserSkillService struct {
	repo repository.UserSkillRepository
}

func NewUserSkillUsecase(repo repository.UserSkillRepository) *UserSkillService {
	return &UserSkillService{repo: repo}
}

func (u *UserSkillService) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]UserSkillItem, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	out := make([]UserSkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, toUserSkillItem(it))
	}
	return out, nil
}

func (u *UserSkillService) AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (UserSkillItem, error) {
	if in.SkillID == uuid.Nil {
		return UserSkillItem{}, ErrInvalidInput
	}
	prof, ok := normalizeProficiency(in.Proficiency)
	if !ok {
		return UserSkillItem{}, ErrInvalidProficiency
	}

	exists, err := u.repo.SkillExistsByID(ctx, in.SkillID)
	if err != nil {
		return UserSkillItem{}, ErrInternal
	}
	if !exists {
		return UserSkillItem{}, ErrSkillNotFound
	}

	_, err = u.repo.FindByUserAndSkill(ctx, userID, in.SkillID)
	if err == nil {
		return UserSkillItem{}, ErrSkillAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserSkillNotFound) {
		return UserSkillItem{}, ErrInternal
	}

	created, err := u.repo.Create(ctx, repository.UserSkill{
		ID:          uuid.New(),
		UserID:      userID,
		SkillID:     in.SkillID,
		Proficiency: prof,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return UserSkillItem{}, ErrSkillAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return UserSkillItem{}, ErrSkillNotFound
		}
		return UserSkillItem{}, ErrInternal
	}
	return toUserSkillItem(created), nil
}

func (u *UserSkillService) UpdateUserSkill(ctx context.Context, userID, userSkillID uuid.UUID, in UpdateUserSkillInput) (UserSkillItem, error) {
	if userSkillID == uuid.Nil {
		return UserSkillItem{}, ErrInvalidInput
	}
	prof, ok := normalizeProficiency(in.Proficiency)
	if !ok {
		return UserSkillItem{}, ErrInvalidProficiency
	}

	updated, err := u.repo.Update(ctx, repository.UserSkill{
		ID:          userSkillID,
		UserID:      userID,
		Proficiency: prof,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return UserSkillItem{}, ErrSkillNotFound
		}
		return UserSkillItem{}, ErrInternal
	}
	return toUserSkillItem(updated), nil
}

func (u *UserSkillService) DeleteUserSkill(ctx context.Context, userID, userSkillID uuid.UUID) error {
	if userSkillID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.Delete(ctx, userSkillID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return ErrSkillNotFound
		case errors.Is(err, repository.ErrUserSkillForbidden):
			return ErrForbidden
		default:
			return ErrInternal
		}
	}
	return nil
}

func toUserSkillItem(us repository.UserSkill) UserSkillItem {
	return UserSkillItem{
		ID:          us.ID,
		SkillID:     us.SkillID,
		SkillName:   us.SkillName,
		Proficiency: us.Proficiency,
	}
}

// normalizeProficiency accepts the four tiers in any case, or empty
// ("no level recorded"). The stored form is lowercase.
func normalizeProficiency(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "beginner", "intermediate", "advanced", "expert":
		return v, true
	}
	return "", false
}
