package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type associationService interface {
	Create(
		ctx context.Context,
		actor services.Actor,
		input repository.AssociationInput,
		admin *services.InitialAdminInput,
	) (*services.CreateAssociationResult, error)
	Get(ctx context.Context, actor services.Actor, id int64) (*models.Association, error)
	List(ctx context.Context, actor services.Actor, filter repository.AssociationListFilter) ([]models.Association, int, error)
	Update(ctx context.Context, actor services.Actor, id int64, input repository.AssociationInput) (*models.Association, error)
	SetStatus(ctx context.Context, actor services.Actor, id int64, status string) (*models.Association, error)
}

type AssociationHandler struct {
	service associationService
}

func NewAssociationHandler(service *services.AssociationService) *AssociationHandler {
	return &AssociationHandler{service: service}
}

type associationRequest struct {
	Name         string  `json:"name" validate:"notblank,max=200"`
	Abbreviation string  `json:"abbreviation" validate:"notblank,min=2,max=10"`
	Sport        string  `json:"sport" validate:"omitempty,max=50"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
}

type initialAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"notblank,max=200"`
}

type createAssociationRequest struct {
	associationRequest
	Admin *initialAdminRequest `json:"admin"`
}

type associationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (r associationRequest) input() repository.AssociationInput {
	return repository.AssociationInput{
		Name:         r.Name,
		Abbreviation: r.Abbreviation,
		Sport:        r.Sport,
		ContactEmail: optionalString(r.ContactEmail),
	}
}

func (h *AssociationHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" && status != models.AssociationStatusActive && status != models.AssociationStatusInactive {
		return badRequest(c, "status must be active or inactive")
	}

	associations, total, err := h.service.List(c.Context(), actor, repository.AssociationListFilter{
		ListOptions: page.ListOptions,
		Status:      status,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "associations", associations, page, total)
}

func (h *AssociationHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}

	var req createAssociationRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	var admin *services.InitialAdminInput
	if req.Admin != nil {
		admin = &services.InitialAdminInput{
			Email:    req.Admin.Email,
			Password: req.Admin.Password,
			FullName: req.Admin.FullName,
		}
	}

	result, err := h.service.Create(c.Context(), actor, req.input(), admin)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AssociationHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "associationID")
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	association, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"association": association})
}

func (h *AssociationHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "associationID")
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	var req associationRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	association, err := h.service.Update(c.Context(), actor, id, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"association": association})
}

func (h *AssociationHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "associationID")
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	var req associationStatusRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	association, err := h.service.SetStatus(c.Context(), actor, id, req.Status)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"association": association})
}
