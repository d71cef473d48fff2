package handler

import (
	"errors"
	"strings"

	"helppro/internal/delivery/http/dto"
	"helppro/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// MatchHandler exposes the helper matcher. Unlike the rest of the API it
// answers with the flat shape of the original hosted function
// ({matches, total_matches, help_request_id} / {error}) and allows any
// origin, so the marketing site can call it directly from the browser.
type MatchHandler struct {
	uc usecase.MatcherUsecase
}

type findMatchesRequest struct {
	HelpRequestID string `json:"help_request_id"`
}

func NewMatchHandler(uc usecase.MatcherUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/matches", h.FindMatches)
}

func (h *MatchHandler) FindMatches(c fiber.Ctx) error {
	var req findMatchesRequest
	// A malformed body is indistinguishable from a missing id as far as the
	// contract goes; either way no lookup is attempted.
	_ = c.Bind().Body(&req)

	rawID := strings.TrimSpace(req.HelpRequestID)
	if rawID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MatchErrorResponse{Error: "help_request_id is required"})
	}

	// A non-UUID id cannot reference an existing request.
	id, err := uuid.Parse(rawID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.MatchErrorResponse{Error: "Help request not found"})
	}

	results, err := h.uc.FindMatches(c.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrHelpRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.MatchErrorResponse{Error: "Help request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MatchErrorResponse{Error: err.Error()})
	}

	matches := make([]dto.MatchResultResponse, 0, len(results))
	for _, r := range results {
		matchedSkills := r.MatchedSkills
		if matchedSkills == nil {
			matchedSkills = []string{}
		}
		levels := r.ProficiencyLevels
		if levels == nil {
			levels = []string{}
		}
		matches = append(matches, dto.MatchResultResponse{
			UserID:            r.UserID,
			Name:              r.Name,
			Avatar:            r.Avatar,
			Headline:          r.Headline,
			Location:          r.Location,
			Points:            r.Points,
			MatchedSkills:     matchedSkills,
			ProficiencyLevels: levels,
			MatchScore:        r.MatchScore,
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.FindMatchesResponse{
		Matches:       matches,
		TotalMatches:  len(matches),
		HelpRequestID: rawID,
	})
}
