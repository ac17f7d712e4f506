package handler

import (
	"context"

	"alfred/internal/delivery/http/dto"
	"alfred/internal/delivery/http/middleware"
	"alfred/internal/domain/member"
	"alfred/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MemberUsecase interface {
	Get(ctx context.Context, id uuid.UUID) (member.TeamMember, error)
	ReplaceSkills(ctx context.Context, id uuid.UUID, skills []member.Skill) (member.TeamMember, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (member.TeamMember, error)
}

type MemberHandler struct {
	uc MemberUsecase
}

func NewMemberHandler(uc MemberUsecase) *MemberHandler {
	return &MemberHandler{uc: uc}
}

func (h *MemberHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/members")
	grp.Get("/:id", h.Get)
	grp.Put("/:id/skills", h.ReplaceSkills)
	grp.Put("/:id/status", h.SetStatus)
}

func (h *MemberHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMemberResponse(m))
}

func (h *MemberHandler) ReplaceSkills(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.ReplaceSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.ReplaceSkills(c.Context(), id, req.Skills)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "skills updated", dto.NewMemberResponse(m))
}

func (h *MemberHandler) SetStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.SetMemberStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.SetStatus(c.Context(), id, req.Status)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "status updated", dto.NewMemberResponse(m))
}
