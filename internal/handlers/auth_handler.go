package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type authService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Me(ctx context.Context, actor services.Actor) (*models.User, *models.Association, error)
	ChangePassword(ctx context.Context, actor services.Actor, currentPassword, newPassword string) error
}

type AuthHandler struct {
	service authService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}

	user, association, err := h.service.Me(c.Context(), actor)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user, "association": association})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}

	var req changePasswordRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	if err := h.service.ChangePassword(c.Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
