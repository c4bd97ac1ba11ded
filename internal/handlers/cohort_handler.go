package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type cohortService interface {
	Create(ctx context.Context, associationID int64, input repository.CohortInput) (*models.Cohort, error)
	Get(ctx context.Context, associationID, id int64) (*models.Cohort, error)
	List(ctx context.Context, filter repository.CohortListFilter) ([]models.Cohort, int, error)
	Update(ctx context.Context, associationID, id int64, input repository.CohortInput) (*models.Cohort, error)
	Delete(ctx context.Context, associationID, id int64) error
}

type CohortHandler struct {
	service cohortService
}

func NewCohortHandler(service *services.CohortService) *CohortHandler {
	return &CohortHandler{service: service}
}

type cohortRequest struct {
	Name        string  `json:"name" validate:"notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Season      *string `json:"season" validate:"omitempty,max=50"`
	Status      string  `json:"status" validate:"omitempty,oneof=active archived"`
}

func (r cohortRequest) input() repository.CohortInput {
	return repository.CohortInput{
		Name:        r.Name,
		Description: r.Description,
		Season:      r.Season,
		Status:      r.Status,
	}
}

func (h *CohortHandler) List(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" && status != models.CohortStatusActive && status != models.CohortStatusArchived {
		return badRequest(c, "status must be active or archived")
	}

	cohorts, total, err := h.service.List(c.Context(), repository.CohortListFilter{
		ListOptions:   page.ListOptions,
		AssociationID: associationID,
		Status:        status,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "cohorts", cohorts, page, total)
}

func (h *CohortHandler) Create(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	var req cohortRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	cohort, err := h.service.Create(c.Context(), associationID, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cohort": cohort})
}

func (h *CohortHandler) Get(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid cohort id")
	}

	cohort, err := h.service.Get(c.Context(), associationID, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"cohort": cohort})
}

func (h *CohortHandler) Update(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid cohort id")
	}

	var req cohortRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	cohort, err := h.service.Update(c.Context(), associationID, id, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"cohort": cohort})
}

func (h *CohortHandler) Delete(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid cohort id")
	}

	if err := h.service.Delete(c.Context(), associationID, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
