package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/pkg/utils"
	"go.uber.org/zap"
)

// ScopedAssociationKey holds the int64 association id resolved by AssociationScope.
const ScopedAssociationKey = "scoped_association_id"

var (
	ErrUnknownAccount  = errors.New("account no longer exists")
	ErrInactiveAccount = errors.New("account is inactive")
)

// AccountLookup loads the stored account a token was issued to.
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// CurrentClaims replaces the role and association carried by a token with the
// account's stored values, so deactivation and role changes apply at once.
func CurrentClaims(ctx context.Context, users AccountLookup, claims *utils.Claims) (*utils.Claims, error) {
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrUnknownAccount
	}

	user, err := users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	current := &utils.Claims{
		UserID:           claims.UserID,
		Role:             user.Role,
		RegisteredClaims: claims.RegisteredClaims,
	}
	if user.AssociationID != nil {
		current.AssociationID = strconv.FormatInt(*user.AssociationID, 10)
	}
	return current, nil
}

func AuthRequired(secret string, users AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		tokenString, ok := BearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, err = CurrentClaims(c.UserContext(), users, claims)
		switch {
		case errors.Is(err, ErrUnknownAccount):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		case errors.Is(err, ErrInactiveAccount):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is inactive",
			})
		case err != nil:
			zap.L().Error("load account for token", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("association_id", claims.AssociationID)

		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(header), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}
		return c.Next()
	}
}

// AssociationScope resolves the :associationID route param. Superadmins may
// enter any association, everyone else only their own.
func AssociationScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		associationID, err := strconv.ParseInt(c.Params("associationID"), 10, 64)
		if err != nil || associationID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid association id"})
		}

		role, _ := c.Locals("role").(string)
		if role != models.RoleSuperadmin {
			own, _ := c.Locals("association_id").(string)
			if own == "" || own != strconv.FormatInt(associationID, 10) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
			}
		}

		c.Locals(ScopedAssociationKey, associationID)
		return c.Next()
	}
}
