package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type scoreService interface {
	Record(ctx context.Context, actor services.Actor, associationID, sessionID int64, input services.RecordScoreInput) (*models.Score, error)
	List(ctx context.Context, associationID, sessionID int64) ([]models.Score, error)
	Results(ctx context.Context, associationID, sessionID int64) ([]models.PlayerResult, error)
}

type ScoreHandler struct {
	service scoreService
}

func NewScoreHandler(service *services.ScoreService) *ScoreHandler {
	return &ScoreHandler{service: service}
}

type recordScoreRequest struct {
	PlayerID int64    `json:"player_id" validate:"required,gt=0"`
	DrillID  int64    `json:"drill_id" validate:"required,gt=0"`
	Value    *float64 `json:"value" validate:"required,gte=0,lte=10"`
	Notes    *string  `json:"notes" validate:"omitempty,max=1000"`
}

func (h *ScoreHandler) Record(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	var req recordScoreRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	score, err := h.service.Record(c.Context(), actor, associationID, sessionID, services.RecordScoreInput{
		PlayerID: req.PlayerID,
		DrillID:  req.DrillID,
		Value:    *req.Value,
		Notes:    optionalString(req.Notes),
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"score": score})
}

func (h *ScoreHandler) List(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	scores, err := h.service.List(c.Context(), associationID, sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"scores": scores})
}

func (h *ScoreHandler) Results(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	results, err := h.service.Results(c.Context(), associationID, sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": sessionID, "results": results})
}
