package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type SessionHandler struct {
	service sessionApplicationService
}

type sessionApplicationService interface {
	Create(ctx context.Context, associationID int64, input repository.SessionInput) (*models.Session, error)
	Get(ctx context.Context, associationID, sessionID int64) (*models.Session, error)
	List(ctx context.Context, filter repository.SessionListFilter) ([]models.Session, int, error)
	Update(ctx context.Context, associationID, sessionID int64, input repository.SessionInput) (*models.Session, error)
	Delete(ctx context.Context, associationID, sessionID int64) error
	UpdateStatus(ctx context.Context, associationID, sessionID int64, requestedStatus string) (*models.Session, error)
	GetDrillConfig(ctx context.Context, associationID, sessionID int64) (*models.SessionDrillConfig, error)
	ReplaceDrills(ctx context.Context, associationID, sessionID int64, drills []services.DrillWeightInput) (*models.SessionDrillConfig, error)
	CloneToWave(ctx context.Context, associationID, sessionID int64) (*models.WaveCloneResult, error)
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type sessionRequest struct {
	CohortID        int64   `json:"cohort_id" validate:"required,gt=0"`
	Name            string  `json:"name" validate:"notblank,max=200"`
	WaveNumber      int     `json:"wave_number" validate:"required,gte=1"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0,lte=1440"`
	Location        *string `json:"location" validate:"omitempty,max=200"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status" validate:"notblank"`
}

type replaceDrillsRequest struct {
	Drills []services.DrillWeightInput `json:"drills"`
}

func (r sessionRequest) input() (repository.SessionInput, error) {
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(r.ScheduledAt))
	if err != nil {
		return repository.SessionInput{}, err
	}
	return repository.SessionInput{
		CohortID:        r.CohortID,
		Name:            r.Name,
		WaveNumber:      r.WaveNumber,
		ScheduledAt:     scheduledAt,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
	}, nil
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := repository.SessionListFilter{
		ListOptions:   page.ListOptions,
		AssociationID: associationID,
		Status:        strings.TrimSpace(c.Query("status")),
	}
	if filter.CohortID, err = optionalPositiveQuery(c, "cohort_id"); err != nil {
		return badRequest(c, err.Error())
	}
	wave, err := optionalPositiveQuery(c, "wave_number")
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter.WaveNumber = int(wave)

	if raw := c.Query("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "to must be YYYY-MM-DD")
		}
		// Inclusive of the whole end day.
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	sessions, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "sessions", sessions, page, total)
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	var req sessionRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}
	input, err := req.input()
	if err != nil {
		return badRequest(c, "scheduled_at must be a valid RFC3339 timestamp")
	}

	session, err := h.service.Create(c.Context(), associationID, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	session, err := h.service.Get(c.Context(), associationID, sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Update(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	var req sessionRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}
	input, err := req.input()
	if err != nil {
		return badRequest(c, "scheduled_at must be a valid RFC3339 timestamp")
	}

	session, err := h.service.Update(c.Context(), associationID, sessionID, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	if err := h.service.Delete(c.Context(), associationID, sessionID); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	var req updateSessionStatusRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	session, err := h.service.UpdateStatus(c.Context(), associationID, sessionID, req.Status)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) GetDrills(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	config, err := h.service.GetDrillConfig(c.Context(), associationID, sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(config)
}

func (h *SessionHandler) ReplaceDrills(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	var req replaceDrillsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Drills == nil {
		req.Drills = []services.DrillWeightInput{}
	}

	config, err := h.service.ReplaceDrills(c.Context(), associationID, sessionID, req.Drills)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(config)
}

func (h *SessionHandler) CloneToWave(c *fiber.Ctx) error {
	associationID, sessionID, ok := sessionParams(c)
	if !ok {
		return badRequest(c, "Invalid session id")
	}

	result, err := h.service.CloneToWave(c.Context(), associationID, sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// sessionParams resolves the scoped association and the :id param.
func sessionParams(c *fiber.Ctx) (int64, int64, bool) {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return 0, 0, false
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	return associationID, sessionID, true
}
