package handler

import (
	"context"

	"alfred/internal/delivery/http/dto"
	"alfred/internal/delivery/http/middleware"
	"alfred/internal/pkg/response"
	"alfred/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const defaultTopN = 5

type AssignmentUsecase interface {
	Rank(ctx context.Context, in usecase.RankInput) ([]usecase.Candidate, error)
}

type AssignmentHandler struct {
	uc AssignmentUsecase
}

func NewAssignmentHandler(uc AssignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

func (h *AssignmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/assignments")
	grp.Post("/rank", h.Rank)
}

func (h *AssignmentHandler) Rank(c fiber.Ctx) error {
	var req dto.RankRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.TopN == 0 {
		req.TopN = defaultTopN
	}

	items, err := h.uc.Rank(c.Context(), usecase.RankInput{
		Task: req.Task.Requirement(),
		TopN: req.TopN,
		Team: req.Team,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateListResponse(items))
}
