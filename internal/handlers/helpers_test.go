package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/middleware"
)

type testIdentity struct {
	userID        string
	role          string
	associationID string
	scope         int64
}

// newTestApp mimics AuthRequired and AssociationScope by setting locals directly.
func newTestApp(id testIdentity) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id.userID != "" {
			c.Locals("user_id", id.userID)
			c.Locals("role", id.role)
			c.Locals("association_id", id.associationID)
		}
		if id.scope > 0 {
			c.Locals(middleware.ScopedAssociationKey, id.scope)
		}
		return c.Next()
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	payload := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, payload
}

func adminIdentity(associationID int64) testIdentity {
	return testIdentity{userID: "10", role: "association_admin", associationID: "7", scope: associationID}
}

func evaluatorIdentity(associationID int64) testIdentity {
	return testIdentity{userID: "11", role: "evaluator", associationID: "7", scope: associationID}
}
