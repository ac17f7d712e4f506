package handler

import (
	"context"

	"alfred/internal/delivery/http/dto"
	"alfred/internal/delivery/http/middleware"
	"alfred/internal/domain/onboarding"
	"alfred/internal/pkg/response"
	"alfred/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type OnboardingUsecase interface {
	Submit(ctx context.Context, in usecase.SubmitInput) (onboarding.Request, error)
	Approve(ctx context.Context, in usecase.ApproveInput) (usecase.Report, error)
	Reject(ctx context.Context, in usecase.RejectInput) (usecase.Report, error)
	RetryStep(ctx context.Context, in usecase.RetryInput) (usecase.StepResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (onboarding.Request, error)
	GetBySubmitter(ctx context.Context, submitterID string) (onboarding.Request, error)
	ListByStatus(ctx context.Context, status onboarding.Status) ([]onboarding.Request, error)
}

type OnboardingHandler struct {
	uc OnboardingUsecase
}

func NewOnboardingHandler(uc OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

// RegisterPublicRoutes mounts the submission endpoint the chat bot relays
// forms to.
func (h *OnboardingHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/onboarding", h.Submit)
}

func (h *OnboardingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/onboarding")
	grp.Get("/", h.List)
	grp.Get("/submitter/:submitter_id", h.GetBySubmitter)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/approve", h.Approve)
	grp.Post("/:id/reject", h.Reject)
	grp.Post("/:id/steps/:step/retry", h.Retry)
}

func (h *OnboardingHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitOnboardingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Submit(c.Context(), usecase.SubmitInput{
		SubmitterID: req.SubmitterID,
		Profile:     req.Profile,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "onboarding request submitted", dto.NewOnboardingResponse(created))
}

func (h *OnboardingHandler) List(c fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		status = string(onboarding.StatusPending)
	}
	st, err := onboarding.ParseStatus(status)
	if err != nil {
		return err
	}

	items, err := h.uc.ListByStatus(c.Context(), st)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOnboardingListResponse(items))
}

func (h *OnboardingHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	req, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOnboardingResponse(req))
}

func (h *OnboardingHandler) GetBySubmitter(c fiber.Ctx) error {
	req, err := h.uc.GetBySubmitter(c.Context(), c.Params("submitter_id"))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOnboardingResponse(req))
}

func (h *OnboardingHandler) Approve(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.ApproveOnboardingRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	rep, err := h.uc.Approve(c.Context(), usecase.ApproveInput{
		RequestID:  id,
		ReviewerID: middleware.ReviewerID(c),
		Team:       req.Team,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, decisionMessage(rep), dto.NewDecisionResponse(rep))
}

func (h *OnboardingHandler) Reject(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.RejectOnboardingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	rep, err := h.uc.Reject(c.Context(), usecase.RejectInput{
		RequestID:  id,
		ReviewerID: middleware.ReviewerID(c),
		Reason:     req.Reason,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, decisionMessage(rep), dto.NewDecisionResponse(rep))
}

func (h *OnboardingHandler) Retry(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.RetryStepRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	res, err := h.uc.RetryStep(c.Context(), usecase.RetryInput{
		RequestID: id,
		Step:      usecase.Step(c.Params("step")),
		Team:      req.Team,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	msg := "step completed"
	if !res.Success {
		msg = "step failed"
	}
	return response.Success(c, fiber.StatusOK, msg, res)
}

func decisionMessage(rep usecase.Report) string {
	if rep.OK() {
		return "request " + string(rep.Request.Status)
	}
	return "request " + string(rep.Request.Status) + ", some steps need manual follow-up"
}
