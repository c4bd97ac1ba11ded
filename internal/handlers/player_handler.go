package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type playerService interface {
	Create(ctx context.Context, associationID int64, input repository.PlayerInput) (*models.Player, error)
	Get(ctx context.Context, associationID, id int64) (*models.Player, error)
	List(ctx context.Context, filter repository.PlayerListFilter) ([]models.Player, int, error)
	Update(ctx context.Context, associationID, id int64, input repository.PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, associationID, id int64) error
}

type PlayerHandler struct {
	service playerService
}

func NewPlayerHandler(service *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{service: service}
}

type playerRequest struct {
	CohortID     int64  `json:"cohort_id" validate:"required,gt=0"`
	FirstName    string `json:"first_name" validate:"notblank,max=100"`
	LastName     string `json:"last_name" validate:"notblank,max=100"`
	BirthDate    string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Position     string `json:"position" validate:"notblank"`
	JerseyNumber *int   `json:"jersey_number" validate:"omitempty,gte=0,lte=99"`
}

func (r playerRequest) input() (repository.PlayerInput, error) {
	birthDate, err := parseDate(r.BirthDate)
	if err != nil {
		return repository.PlayerInput{}, err
	}
	return repository.PlayerInput{
		CohortID:     r.CohortID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		BirthDate:    birthDate,
		Position:     r.Position,
		JerseyNumber: r.JerseyNumber,
	}, nil
}

func (h *PlayerHandler) List(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	cohortID, err := optionalPositiveQuery(c, "cohort_id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	position := ""
	if raw := strings.TrimSpace(c.Query("position")); raw != "" {
		normalized, ok := models.NormalizePosition(raw)
		if !ok {
			return badRequest(c, "position must be forward, defence or goalie")
		}
		position = normalized
	}

	players, total, err := h.service.List(c.Context(), repository.PlayerListFilter{
		ListOptions:   page.ListOptions,
		AssociationID: associationID,
		CohortID:      cohortID,
		Position:      position,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "players", players, page, total)
}

func (h *PlayerHandler) Create(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	var req playerRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}
	input, err := req.input()
	if err != nil {
		return badRequest(c, "birth_date must be YYYY-MM-DD")
	}

	player, err := h.service.Create(c.Context(), associationID, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) Get(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid player id")
	}

	player, err := h.service.Get(c.Context(), associationID, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) Update(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid player id")
	}

	var req playerRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}
	input, err := req.input()
	if err != nil {
		return badRequest(c, "birth_date must be YYYY-MM-DD")
	}

	player, err := h.service.Update(c.Context(), associationID, id, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) Delete(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid player id")
	}

	if err := h.service.Delete(c.Context(), associationID, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
