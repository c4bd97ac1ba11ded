package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type drillService interface {
	Create(ctx context.Context, associationID int64, input repository.DrillInput) (*models.Drill, error)
	Get(ctx context.Context, associationID, id int64) (*models.Drill, error)
	List(ctx context.Context, filter repository.DrillListFilter) ([]models.Drill, int, error)
	Update(ctx context.Context, associationID, id int64, input repository.DrillInput) (*models.Drill, error)
	Delete(ctx context.Context, associationID, id int64) error
}

type DrillHandler struct {
	service drillService
}

func NewDrillHandler(service *services.DrillService) *DrillHandler {
	return &DrillHandler{service: service}
}

type drillRequest struct {
	Name         string  `json:"name" validate:"notblank,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Category     *string `json:"category" validate:"omitempty,max=50"`
	Instructions *string `json:"instructions" validate:"omitempty,max=5000"`
	IsActive     *bool   `json:"is_active"`
}

// input treats a missing is_active as active.
func (r drillRequest) input() repository.DrillInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return repository.DrillInput{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Instructions: r.Instructions,
		IsActive:     active,
	}
}

func (h *DrillHandler) List(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	drills, total, err := h.service.List(c.Context(), repository.DrillListFilter{
		ListOptions:   page.ListOptions,
		AssociationID: associationID,
		Category:      strings.ToLower(strings.TrimSpace(c.Query("category"))),
		ActiveOnly:    c.QueryBool("active_only", false),
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "drills", drills, page, total)
}

func (h *DrillHandler) Create(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	var req drillRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	drill, err := h.service.Create(c.Context(), associationID, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"drill": drill})
}

func (h *DrillHandler) Get(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid drill id")
	}

	drill, err := h.service.Get(c.Context(), associationID, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"drill": drill})
}

func (h *DrillHandler) Update(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid drill id")
	}

	var req drillRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	drill, err := h.service.Update(c.Context(), associationID, id, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"drill": drill})
}

func (h *DrillHandler) Delete(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid drill id")
	}

	if err := h.service.Delete(c.Context(), associationID, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
