package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/middleware"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	sessionws "github.com/saeid-a/EvalAdminBack/internal/websocket"
	"github.com/saeid-a/EvalAdminBack/pkg/utils"
)

const feedAssociationKey = "feed_association_id"

type LiveFeedHandler struct {
	hub       *sessionws.Hub
	jwtSecret string
	users     middleware.AccountLookup
}

func NewLiveFeedHandler(hub *sessionws.Hub, jwtSecret string, users middleware.AccountLookup) *LiveFeedHandler {
	return &LiveFeedHandler{hub: hub, jwtSecret: jwtSecret, users: users}
}

// WebSocketAuth authenticates the upgrade request and picks the association
// feed. Superadmins choose one with ?association_id=.
func (h *LiveFeedHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	claims, err = middleware.CurrentClaims(c.UserContext(), h.users, claims)
	switch {
	case errors.Is(err, middleware.ErrUnknownAccount):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	case errors.Is(err, middleware.ErrInactiveAccount):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is inactive"})
	case err != nil:
		return mapServiceError(c, err)
	}

	associationID, err := feedAssociation(claims, c.Query("association_id"))
	if err != nil {
		return mapServiceError(c, err)
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	c.Locals(feedAssociationKey, associationID)
	return c.Next()
}

func (h *LiveFeedHandler) HandleWebSocket(conn *websocket.Conn) {
	associationID, _ := conn.Locals(feedAssociationKey).(int64)
	client := sessionws.NewClient(h.hub, conn, associationID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *LiveFeedHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		tokenString, _ = middleware.BearerToken(c.Get("Authorization"))
	}
	if tokenString == "" {
		return nil, errors.New("missing token")
	}
	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func feedAssociation(claims *utils.Claims, requested string) (int64, error) {
	requested = strings.TrimSpace(requested)

	if claims.Role == models.RoleSuperadmin {
		associationID, err := strconv.ParseInt(requested, 10, 64)
		if err != nil || associationID <= 0 {
			return 0, fmt.Errorf("%w: association_id is required", services.ErrInvalidInput)
		}
		return associationID, nil
	}

	own, err := strconv.ParseInt(claims.AssociationID, 10, 64)
	if err != nil || own <= 0 {
		return 0, services.ErrForbidden
	}
	if requested != "" && requested != claims.AssociationID {
		return 0, services.ErrForbidden
	}
	return own, nil
}
