package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	"github.com/saeid-a/EvalAdminBack/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceErrorStatuses(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{validation.Errors{{Field: "name", Message: "is required"}}, http.StatusBadRequest},
		{fmt.Errorf("%w: cohort not found", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrAccountInactive, http.StatusForbidden},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrInUse, http.StatusConflict},
		{services.ErrSessionLocked, http.StatusConflict},
		{services.ErrInvalidStateTransition, http.StatusUnprocessableEntity},
		{services.ErrImportHasErrors, http.StatusUnprocessableEntity},
		{services.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return mapServiceError(c, tt.err) })

			resp, body := doJSON(t, app, http.MethodGet, "/", "")
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMapServiceErrorHidesInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return mapServiceError(c, errors.New("pq: password authentication failed"))
	})

	_, body := doJSON(t, app, http.MethodGet, "/", "")
	assert.Equal(t, "Internal server error", body["error"])
}
