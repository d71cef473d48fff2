package usecase

import (
	"context"
	"errors"
	"strings"

	"helppro/internal/repository"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

type UpdateProfileInput struct {
	Name     string
	Avatar   string
	Headline string
	Location string
}

type ProfileItem struct {
	UserID   uuid.UUID
	Name     string
	Avatar   string
	Headline string
	Location string
	Points   int
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileItem, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileItem, error)
}

type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileUsecase(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileItem, error) {
	if userID == uuid.Nil {
		return ProfileItem{}, ErrProfileNotFound
	}
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ProfileItem{}, ErrProfileNotFound
		}
		return ProfileItem{}, ErrInternal
	}
	return toProfileItem(p), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileItem, error) {
	if userID == uuid.Nil {
		return ProfileItem{}, ErrProfileNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProfileItem{}, ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, repository.Profile{
		UserID:   userID,
		Name:     name,
		Avatar:   strings.TrimSpace(in.Avatar),
		Headline: strings.TrimSpace(in.Headline),
		Location: strings.TrimSpace(in.Location),
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ProfileItem{}, ErrProfileNotFound
		}
		return ProfileItem{}, ErrInternal
	}
	return toProfileItem(updated), nil
}

func toProfileItem(p repository.Profile) ProfileItem {
	return ProfileItem{
		UserID:   p.UserID,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Headline: p.Headline,
		Location: p.Location,
		Points:   p.Points,
	}
}
