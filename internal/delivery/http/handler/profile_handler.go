package handler

import (
	"errors"

	"helppro/internal/delivery/http/dto"
	"helppro/internal/delivery/http/middleware"
	"helppro/internal/pkg/response"
	"helppro/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Headline string `json:"headline"`
	Location string `json:"location"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	}

	item, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toProfileResponse(item))
}

func (h *ProfileHandler) GetMine(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	item, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toProfileResponse(item))
}

func (h *ProfileHandler) UpdateMine(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	item, err := h.uc.UpdateProfile(c.Context(), userID, usecase.UpdateProfileInput{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Headline: req.Headline,
		Location: req.Location,
	})
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toProfileResponse(item))
}

func toProfileResponse(it usecase.ProfileItem) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:   it.UserID,
		Name:     it.Name,
		Avatar:   it.Avatar,
		Headline: it.Headline,
		Location: it.Location,
		Points:   it.Points,
	}
}

func mapProfileUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
