package usecase

import (
	"context"
	"errors"
	"strings"

	"helppro/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

type CreateHelpRequestInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
}

type UpdateHelpRequestInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Status      string
}

type HelpRequestItem struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	Title       string
	Description string
	Category    string
	Tags        []string
	Status      string
}

type ListHelpRequestsInput struct {
	Category    string
	Status      string
	RequesterID uuid.UUID
	Limit       int
	Offset      int
}

type HelpRequestUsecase interface {
	GetHelpRequest(ctx context.Context, id uuid.UUID) (HelpRequestItem, error)
	ListHelpRequests(ctx context.Context, in ListHelpRequestsInput) ([]HelpRequestItem, error)
	CreateHelpRequest(ctx context.Context, requesterID uuid.UUID, in CreateHelpRequestInput) (HelpRequestItem, error)
	UpdateHelpRequest(ctx context.Context, requesterID, id uuid.UUID, in UpdateHelpRequestInput) (HelpRequestItem, error)
	DeleteHelpRequest(ctx context.Context, requesterID, id uuid.UUID) error
}

type HelpRequestService struct {
	repo repository.HelpRequestRepository
}

func NewHelpRequestUsecase(repo repository.HelpRequestRepository) *HelpRequestService {
	return &HelpRequestService{repo: repo}
}

func (s *HelpRequestService) GetHelpRequest(ctx context.Context, id uuid.UUID) (HelpRequestItem, error) {
	if id == uuid.Nil {
		return HelpRequestItem{}, ErrHelpRequestNotFound
	}
	hr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHelpRequestNotFound) {
			return HelpRequestItem{}, ErrHelpRequestNotFound
		}
		return HelpRequestItem{}, ErrInternal
	}
	return toHelpRequestItem(hr), nil
}

func (s *HelpRequestService) ListHelpRequests(ctx context.Context, in ListHelpRequestsInput) ([]HelpRequestItem, error) {
	if in.Status != "" && !isValidStatus(in.Status) {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.List(ctx, repository.HelpRequestFilter{
		Category:    strings.TrimSpace(in.Category),
		Status:      in.Status,
		RequesterID: in.RequesterID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]HelpRequestItem, 0, len(items))
	for _, hr := range items {
		out = append(out, toHelpRequestItem(hr))
	}
	return out, nil
}

func (s *HelpRequestService) CreateHelpRequest(ctx context.Context, requesterID uuid.UUID, in CreateHelpRequestInput) (HelpRequestItem, error) {
	title := strings.TrimSpace(in.Title)
	if requesterID == uuid.Nil || title == "" {
		return HelpRequestItem{}, ErrInvalidInput
	}

	created, err := s.repo.Create(ctx, repository.HelpRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Tags:        normalizeTags(in.Tags),
		Status:      StatusOpen,
	})
	if err != nil {
		return HelpRequestItem{}, ErrInternal
	}
	return toHelpRequestItem(created), nil
}

func (s *HelpRequestService) UpdateHelpRequest(ctx context.Context, requesterID, id uuid.UUID, in UpdateHelpRequestInput) (HelpRequestItem, error) {
	if id == uuid.Nil {
		return HelpRequestItem{}, ErrHelpRequestNotFound
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || !isValidStatus(in.Status) {
		return HelpRequestItem{}, ErrInvalidInput
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHelpRequestNotFound) {
			return HelpRequestItem{}, ErrHelpRequestNotFound
		}
		return HelpRequestItem{}, ErrInternal
	}
	if existing.RequesterID != requesterID {
		return HelpRequestItem{}, ErrForbidden
	}

	updated, err := s.repo.Update(ctx, repository.HelpRequest{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Tags:        normalizeTags(in.Tags),
		Status:      in.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrHelpRequestNotFound) {
			return HelpRequestItem{}, ErrHelpRequestNotFound
		}
		return HelpRequestItem{}, ErrInternal
	}
	return toHelpRequestItem(updated), nil
}

func (s *HelpRequestService) DeleteHelpRequest(ctx context.Context, requesterID, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrHelpRequestNotFound
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHelpRequestNotFound) {
			return ErrHelpRequestNotFound
		}
		return ErrInternal
	}
	if existing.RequesterID != requesterID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHelpRequestNotFound) {
			return ErrHelpRequestNotFound
		}
		return ErrInternal
	}
	return nil
}

func toHelpRequestItem(hr repository.HelpRequest) HelpRequestItem {
	return HelpRequestItem{
		ID:          hr.ID,
		RequesterID: hr.RequesterID,
		Title:       hr.Title,
		Description: hr.Description,
		Category:    hr.Category,
		Tags:        hr.Tags,
		Status:      hr.Status,
	}
}

func isValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// normalizeTags trims whitespace and drops empties. Names are NOT lowercased:
// tags match the skill catalog case-sensitively.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
