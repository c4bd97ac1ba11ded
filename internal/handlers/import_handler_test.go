package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/csvimport"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImportService struct {
	result      *services.ImportResult
	err         error
	downloadURL string
	downloadErr error
	lastRequest services.ImportRequest
	lastCohort  int64
}

func (s *stubImportService) Import(_ context.Context, _ services.Actor, _ int64, req services.ImportRequest) (*services.ImportResult, error) {
	s.lastRequest = req
	return s.result, s.err
}

func (s *stubImportService) List(_ context.Context, _ int64, _, _ int) ([]models.CSVImport, int, error) {
	return []models.CSVImport{}, 0, nil
}

func (s *stubImportService) DownloadURL(_ context.Context, _, _ int64) (string, error) {
	return s.downloadURL, s.downloadErr
}

func (s *stubImportService) ExportPlayers(_ context.Context, _, cohortID int64, w io.Writer) error {
	s.lastCohort = cohortID
	_, err := io.WriteString(w, "first_name,last_name\n")
	return err
}

func (s *stubImportService) ExportSessions(_ context.Context, _, cohortID int64, w io.Writer) error {
	s.lastCohort = cohortID
	return s.err
}

func multipartRequest(t *testing.T, path, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "players.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newImportApp(handler *ImportHandler) *fiber.App {
	app := newTestApp(adminIdentity(7))
	app.Post("/associations/:associationID/imports/players", handler.ImportPlayers)
	app.Get("/associations/:associationID/imports/:id/download", handler.Download)
	app.Get("/associations/:associationID/players/export", handler.ExportPlayers)
	app.Get("/associations/:associationID/sessions/export", handler.ExportSessions)
	app.Get("/templates/:file", handler.Template)
	return app
}

func TestImportPlayersPreview(t *testing.T) {
	service := &stubImportService{result: &services.ImportResult{Kind: models.ImportKindPlayers}}
	app := newImportApp(&ImportHandler{service: service, maxBytes: 1024})

	resp, err := app.Test(multipartRequest(t, "/associations/7/imports/players", "first_name\nAnn\n"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, service.lastRequest.Commit)
	assert.Equal(t, models.ImportKindPlayers, service.lastRequest.Kind)
	assert.Equal(t, "players.csv", service.lastRequest.Filename)
	assert.Equal(t, "first_name\nAnn\n", string(service.lastRequest.Content))
}

func TestImportPlayersCommit(t *testing.T) {
	service := &stubImportService{result: &services.ImportResult{Kind: models.ImportKindPlayers, Committed: true}}
	app := newImportApp(&ImportHandler{service: service, maxBytes: 1024})

	resp, err := app.Test(multipartRequest(t, "/associations/7/imports/players?commit=true", "x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, service.lastRequest.Commit)
}

func TestImportPlayersRefusedWithRowErrors(t *testing.T) {
	service := &stubImportService{err: &services.ImportRowsError{Result: &services.ImportResult{Kind: models.ImportKindPlayers}}}
	app := newImportApp(&ImportHandler{service: service, maxBytes: 1024})

	resp, err := app.Test(multipartRequest(t, "/associations/7/imports/players?commit=1", "x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"result"`)
}

func TestImportPlayersLimits(t *testing.T) {
	service := &stubImportService{}
	app := newImportApp(&ImportHandler{service: service, maxBytes: 4})

	resp, err := app.Test(multipartRequest(t, "/associations/7/imports/players", "too large"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, err = app.Test(multipartRequest(t, "/associations/7/imports/players?commit=maybe", "x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/associations/7/imports/players", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadWithoutStorage(t *testing.T) {
	service := &stubImportService{downloadErr: services.ErrStorageUnavailable}
	app := newImportApp(&ImportHandler{service: service})

	resp, _ := doJSON(t, app, http.MethodGet, "/associations/7/imports/3/download", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestExportAndTemplates(t *testing.T) {
	service := &stubImportService{err: context.DeadlineExceeded}
	app := newImportApp(&ImportHandler{service: service})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/associations/7/players/export?cohort_id=3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "players.csv")
	assert.Equal(t, int64(3), service.lastCohort)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/associations/7/sessions/export", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/templates/sessions.csv", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, csvimport.WriteTemplate(&want, models.ImportKindSessions))
	assert.Equal(t, want.String(), string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/templates/coaches.csv", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
