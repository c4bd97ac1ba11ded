package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/csvimport"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type importService interface {
	Import(ctx context.Context, actor services.Actor, associationID int64, req services.ImportRequest) (*services.ImportResult, error)
	List(ctx context.Context, associationID int64, limit, offset int) ([]models.CSVImport, int, error)
	DownloadURL(ctx context.Context, associationID, importID int64) (string, error)
	ExportPlayers(ctx context.Context, associationID, cohortID int64, w io.Writer) error
	ExportSessions(ctx context.Context, associationID, cohortID int64, w io.Writer) error
}

type ImportHandler struct {
	service  importService
	maxBytes int64
}

func NewImportHandler(service *services.ImportService, maxBytes int) *ImportHandler {
	return &ImportHandler{service: service, maxBytes: int64(maxBytes)}
}

func (h *ImportHandler) ImportPlayers(c *fiber.Ctx) error {
	return h.handleImport(c, models.ImportKindPlayers)
}

func (h *ImportHandler) ImportSessions(c *fiber.Ctx) error {
	return h.handleImport(c, models.ImportKindSessions)
}

func (h *ImportHandler) handleImport(c *fiber.Ctx, kind string) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return unauthorized(c)
	}
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}

	commit := false
	if raw := c.Query("commit"); raw != "" {
		commit, err = strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "commit must be true or false")
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("file exceeds %d bytes", h.maxBytes),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "file could not be read")
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return badRequest(c, "file could not be read")
	}

	result, err := h.service.Import(c.Context(), actor, associationID, services.ImportRequest{
		Kind:     kind,
		Filename: fileHeader.Filename,
		Content:  buf.Bytes(),
		Commit:   commit,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	status := fiber.StatusOK
	if result.Committed {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}

func (h *ImportHandler) List(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	page, err := parseListOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	imports, total, err := h.service.List(c.Context(), associationID, page.Limit, page.Offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return paginated(c, "imports", imports, page, total)
}

func (h *ImportHandler) Download(c *fiber.Ctx) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	importID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid import id")
	}

	url, err := h.service.DownloadURL(c.Context(), associationID, importID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

func (h *ImportHandler) ExportPlayers(c *fiber.Ctx) error {
	return h.export(c, "players", h.service.ExportPlayers)
}

func (h *ImportHandler) ExportSessions(c *fiber.Ctx) error {
	return h.export(c, "sessions", h.service.ExportSessions)
}

type exportFunc func(ctx context.Context, associationID, cohortID int64, w io.Writer) error

// export renders into a buffer first so a failure can still become a JSON error.
func (h *ImportHandler) export(c *fiber.Ctx, name string, run exportFunc) error {
	associationID, ok := scopedAssociationID(c)
	if !ok {
		return badRequest(c, "Invalid association id")
	}
	cohortID, err := optionalPositiveQuery(c, "cohort_id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var buf bytes.Buffer
	if err := run(c.Context(), associationID, cohortID, &buf); err != nil {
		return mapServiceError(c, err)
	}
	return sendCSV(c, name+".csv", buf.Bytes())
}

// Template serves a header-only players.csv or sessions.csv.
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	var kind string
	switch c.Params("file") {
	case "players.csv":
		kind = models.ImportKindPlayers
	case "sessions.csv":
		kind = models.ImportKindSessions
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}

	var buf bytes.Buffer
	if err := csvimport.WriteTemplate(&buf, kind); err != nil {
		return mapServiceError(c, err)
	}
	return sendCSV(c, kind+"-template.csv", buf.Bytes())
}

func sendCSV(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
