package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/middleware"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

const dateLayout = "2006-01-02"

var errNoActor = errors.New("missing actor")

// actorFromLocals rebuilds the caller from the locals AuthRequired set.
func actorFromLocals(c *fiber.Ctx) (services.Actor, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return services.Actor{}, errNoActor
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		return services.Actor{}, errNoActor
	}
	role, _ := c.Locals("role").(string)
	if role == "" {
		return services.Actor{}, errNoActor
	}

	actor := services.Actor{UserID: userID, Role: role}
	if associationStr, _ := c.Locals("association_id").(string); associationStr != "" {
		associationID, err := strconv.ParseInt(associationStr, 10, 64)
		if err != nil {
			return services.Actor{}, errNoActor
		}
		actor.AssociationID = &associationID
	}
	return actor, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}

// scopedAssociationID returns the id resolved by middleware.AssociationScope.
func scopedAssociationID(c *fiber.Ctx) (int64, bool) {
	associationID, ok := c.Locals(middleware.ScopedAssociationKey).(int64)
	return associationID, ok && associationID > 0
}

func parseIDParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalPositiveQuery reads an optional positive integer query param.
// An empty value yields 0.
func optionalPositiveQuery(c *fiber.Ctx, name string) (int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return value, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(value))
}

// optionalString trims the pointer target and maps blank to nil.
func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
