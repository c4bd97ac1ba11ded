package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type userService interface {
	List(ctx context.Context, actor services.Actor, filter repository.UserListFilter) ([]models.User, int, error)
	Get(ctx context.Context, actor services.Actor, id int64) (*models.User, error)
	Create(ctx context.Context, actor services.Actor, input services.CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actor services.Actor, id int64, input repository.UpdateUserInput) (*models.User, error)
	ResetPassword(ctx context.Context, actor services.Actor, id int64, password string) error
	Deactivate(ctx context.Context, actor services.Actor, id int64) (*models.User, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FullName      string `json:"full_name" validate:"notblank,max=200"`
	Role          string `json:"role" validate:"required,oneof=superadmin association_admin evaluator"`
	AssociationID *int64 `json:"association_id" validate:"omitempty,gt=0"`
}

type updateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,notblank,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=superadmin association_admin evaluator"`
	IsActive *bool   `json:"is_active"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}

	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	associationID, err := optionalPositiveQuery(c, "association_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	role := strings.TrimSpace(c.Query("role"))
	if role != "" && !models.IsValidRole(role) {
		return badRequest(c, "role is not valid")
	}

	filter := repository.UserListFilter{ListOptions: page.ListOptions, Role: role}
	if associationID > 0 {
		filter.AssociationID = &associationID
	}

	users, total, err := h.service.List(c.Context(), actor, filter)
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "users", users, page, total)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}

	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	user, err := h.service.Create(c.Context(), actor, services.CreateUserInput{
		Email:         req.Email,
		Password:      req.Password,
		FullName:      req.FullName,
		Role:          req.Role,
		AssociationID: req.AssociationID,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	var req updateUserRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	user, err := h.service.Update(c.Context(), actor, id, repository.UpdateUserInput{
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	var req resetPasswordRequest
	if err := bindBody(c, &req); err != nil {
		return mapServiceError(c, err)
	}

	if err := h.service.ResetPassword(c.Context(), actor, id, req.Password); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.service.Deactivate(c.Context(), actor, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
