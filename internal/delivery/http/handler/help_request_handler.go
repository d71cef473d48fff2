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

type HelpRequestHandler struct {
	uc usecase.HelpRequestUsecase
}

type createHelpRequestRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

type updateHelpRequestRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

func NewHelpRequestHandler(uc usecase.HelpRequestUsecase) *HelpRequestHandler {
	return &HelpRequestHandler{uc: uc}
}

func (h *HelpRequestHandler) List(c fiber.Ctx) error {
	in := usecase.ListHelpRequestsInput{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Limit:    fiber.Query[int](c, "limit"),
		Offset:   fiber.Query[int](c, "offset"),
	}
	if mine := c.Query("requester_id"); mine != "" {
		id, err := uuid.Parse(mine)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		in.RequesterID = id
	}

	items, err := h.uc.ListHelpRequests(c.Context(), in)
	if err != nil {
		return mapHelpRequestUsecaseError(err)
	}

	res := make([]dto.HelpRequestResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toHelpRequestResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *HelpRequestHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Help request not found", nil, err)
	}

	item, err := h.uc.GetHelpRequest(c.Context(), id)
	if err != nil {
		return mapHelpRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toHelpRequestResponse(item))
}

func (h *HelpRequestHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createHelpRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	item, err := h.uc.CreateHelpRequest(c.Context(), userID, usecase.CreateHelpRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	if err != nil {
		return mapHelpRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Help request created successfully", toHelpRequestResponse(item))
}

func (h *HelpRequestHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Help request not found", nil, err)
	}

	var req updateHelpRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	item, err := h.uc.UpdateHelpRequest(c.Context(), userID, id, usecase.UpdateHelpRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Status:      req.Status,
	})
	if err != nil {
		return mapHelpRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toHelpRequestResponse(item))
}

func (h *HelpRequestHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Help request not found", nil, err)
	}

	if err := h.uc.DeleteHelpRequest(c.Context(), userID, id); err != nil {
		return mapHelpRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func toHelpRequestResponse(it usecase.HelpRequestItem) dto.HelpRequestResponse {
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.HelpRequestResponse{
		ID:          it.ID,
		RequesterID: it.RequesterID,
		Title:       it.Title,
		Description: it.Description,
		Category:    it.Category,
		Tags:        tags,
		Status:      it.Status,
	}
}

func mapHelpRequestUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrHelpRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Help request not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
