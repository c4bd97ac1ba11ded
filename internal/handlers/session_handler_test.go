package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
)

type stubSessionService struct {
	createResult       *models.Session
	createErr          error
	listResult         []models.Session
	listTotal          int
	listErr            error
	getResult          *models.Session
	getErr             error
	updateStatusResult *models.Session
	updateStatusErr    error
	configResult       *models.SessionDrillConfig
	replaceErr         error
	cloneResult        *models.WaveCloneResult
	cloneErr           error
	deleteErr          error
	lastAssociationID  int64
	lastSessionID      int64
	lastStatus         string
	lastInput          repository.SessionInput
	lastListFilter     repository.SessionListFilter
	lastDrills         []services.DrillWeightInput
}

func (s *stubSessionService) Create(_ context.Context, associationID int64, input repository.SessionInput) (*models.Session, error) {
	s.lastAssociationID = associationID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubSessionService) Get(_ context.Context, associationID, sessionID int64) (*models.Session, error) {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func (s *stubSessionService) List(_ context.Context, filter repository.SessionListFilter) ([]models.Session, int, error) {
	s.lastListFilter = filter
	return s.listResult, s.listTotal, s.listErr
}

func (s *stubSessionService) Update(_ context.Context, associationID, sessionID int64, input repository.SessionInput) (*models.Session, error) {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubSessionService) Delete(_ context.Context, associationID, sessionID int64) error {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	return s.deleteErr
}

func (s *stubSessionService) UpdateStatus(_ context.Context, associationID, sessionID int64, requestedStatus string) (*models.Session, error) {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	s.lastStatus = requestedStatus
	return s.updateStatusResult, s.updateStatusErr
}

func (s *stubSessionService) GetDrillConfig(_ context.Context, associationID, sessionID int64) (*models.SessionDrillConfig, error) {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	return s.configResult, nil
}

func (s *stubSessionService) ReplaceDrills(_ context.Context, associationID, sessionID int64, drills []services.DrillWeightInput) (*models.SessionDrillConfig, error) {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	s.lastDrills = drills
	return s.configResult, s.replaceErr
}

func (s *stubSessionService) CloneToWave(_ context.Context, associationID, sessionID int64) (*models.WaveCloneResult, error) {
	s.lastAssociationID = associationID
	s.lastSessionID = sessionID
	return s.cloneResult, s.cloneErr
}

func newSessionTestApp(service *stubSessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

func TestCreateSessionReturnsCreatedSession(t *testing.T) {
	service := &stubSessionService{createResult: &models.Session{ID: 91, AssociationID: 7, Name: "Wave 1 U13"}}
	handler := newSessionTestApp(service)

	app := newTestApp(adminIdentity(7))
	app.Post("/associations/:associationID/sessions", handler.Create)

	resp, body := doJSON(t, app, http.MethodPost, "/associations/7/sessions", `{
		"cohort_id": 3,
		"name": "Wave 1 U13",
		"wave_number": 1,
		"scheduled_at": "2026-03-15T09:00:00-05:00",
		"duration_minutes": 90,
		"location": "Rink A"
	}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}
	if service.lastAssociationID != 7 {
		t.Fatalf("expected association 7, got %d", service.lastAssociationID)
	}
	if service.lastInput.CohortID != 3 || service.lastInput.WaveNumber != 1 {
		t.Fatalf("unexpected input %+v", service.lastInput)
	}
	want := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	if !service.lastInput.ScheduledAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, service.lastInput.ScheduledAt)
	}
}

func TestCreateSessionRejectsInvalidPayload(t *testing.T) {
	service := &stubSessionService{}
	handler := newSessionTestApp(service)

	app := newTestApp(adminIdentity(7))
	app.Post("/associations/:associationID/sessions", handler.Create)

	resp, body := doJSON(t, app, http.MethodPost, "/associations/7/sessions", `{"cohort_id": 3, "name": " ", "wave_number": 0, "scheduled_at": "2026-03-15T09:00:00Z"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	fields, ok := body["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors, got %v", body["fields"])
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/associations/7/sessions", `{"cohort_id": 3, "name": "A", "wave_number": 1, "scheduled_at": "tomorrow"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad timestamp, got %d", resp.StatusCode)
	}
}

func TestListSessionsParsesFilters(t *testing.T) {
	service := &stubSessionService{listResult: []models.Session{{ID: 1}}, listTotal: 41}
	handler := newSessionTestApp(service)

	app := newTestApp(evaluatorIdentity(7))
	app.Get("/associations/:associationID/sessions", handler.List)

	resp, body := doJSON(t, app, http.MethodGet, "/associations/7/sessions?cohort_id=3&wave_number=2&status=scheduled&from=2026-03-01&to=2026-03-31&page=2&limit=20", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	filter := service.lastListFilter
	if filter.AssociationID != 7 || filter.CohortID != 3 || filter.WaveNumber != 2 || filter.Status != "scheduled" {
		t.Fatalf("unexpected filter %+v", filter)
	}
	if filter.Offset != 20 || filter.Limit != 20 {
		t.Fatalf("expected offset 20 limit 20, got %d/%d", filter.Offset, filter.Limit)
	}
	if filter.To == nil || !filter.To.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected exclusive end of 2026-04-01, got %v", filter.To)
	}

	pagination, ok := body["pagination"].(map[string]any)
	if !ok || pagination["total_pages"] != float64(3) {
		t.Fatalf("unexpected pagination %v", body["pagination"])
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/associations/7/sessions?wave_number=zero", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad wave, got %d", resp.StatusCode)
	}
}

func TestUpdateSessionStatusMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result *models.Session
		want   int
	}{
		{"success", nil, &models.Session{ID: 4, Status: models.SessionStatusInProgress}, http.StatusOK},
		{"invalid transition", services.ErrInvalidStateTransition, nil, http.StatusUnprocessableEntity},
		{"bad status", services.ErrInvalidInput, nil, http.StatusBadRequest},
		{"missing", services.ErrNotFound, nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubSessionService{updateStatusResult: tt.result, updateStatusErr: tt.err}
			handler := newSessionTestApp(service)

			app := newTestApp(adminIdentity(7))
			app.Patch("/associations/:associationID/sessions/:id/status", handler.UpdateStatus)

			resp, _ := doJSON(t, app, http.MethodPatch, "/associations/7/sessions/4/status", `{"status":"start"}`)
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
			if service.lastStatus != "start" || service.lastSessionID != 4 {
				t.Fatalf("unexpected call status=%q session=%d", service.lastStatus, service.lastSessionID)
			}
		})
	}
}

func TestReplaceDrillsReportsWeightIssues(t *testing.T) {
	service := &stubSessionService{replaceErr: &services.DrillWeightError{Issues: []services.DrillWeightIssue{
		{Position: models.PositionForward, Message: "weights add up to 90, must be exactly 100"},
	}}}
	handler := newSessionTestApp(service)

	app := newTestApp(adminIdentity(7))
	app.Put("/associations/:associationID/sessions/:id/drills", handler.ReplaceDrills)

	resp, body := doJSON(t, app, http.MethodPut, "/associations/7/sessions/4/drills", `{"drills":[
		{"drill_id": 1, "position": "forward", "weight_percent": 50},
		{"drill_id": 2, "position": "forward", "weight_percent": 40}
	]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	issues, ok := body["issues"].([]any)
	if !ok || len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", body["issues"])
	}
	if len(service.lastDrills) != 2 || service.lastDrills[1].WeightPercent != 40 {
		t.Fatalf("unexpected drills passed to service: %+v", service.lastDrills)
	}
}

func TestReplaceDrillsLockedSession(t *testing.T) {
	service := &stubSessionService{replaceErr: services.ErrSessionLocked}
	handler := newSessionTestApp(service)

	app := newTestApp(adminIdentity(7))
	app.Put("/associations/:associationID/sessions/:id/drills", handler.ReplaceDrills)

	resp, body := doJSON(t, app, http.MethodPut, "/associations/7/sessions/4/drills", `{}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if body["error"] != "session_locked" {
		t.Fatalf("expected session_locked, got %v", body["error"])
	}
	if service.lastDrills == nil || len(service.lastDrills) != 0 {
		t.Fatalf("expected empty configuration, got %+v", service.lastDrills)
	}
}

func TestCloneToWaveReturnsResult(t *testing.T) {
	service := &stubSessionService{cloneResult: &models.WaveCloneResult{
		SourceSessionID:         4,
		WaveNumber:              1,
		UpdatedSessionIDs:       []int64{5, 6},
		SkippedLockedSessionIDs: []int64{8},
	}}
	handler := newSessionTestApp(service)

	app := newTestApp(adminIdentity(7))
	app.Post("/associations/:associationID/sessions/:id/drills/clone-to-wave", handler.CloneToWave)

	resp, body := doJSON(t, app, http.MethodPost, "/associations/7/sessions/4/drills/clone-to-wave", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if updated, ok := body["updated_session_ids"].([]any); !ok || len(updated) != 2 {
		t.Fatalf("unexpected updated ids %v", body["updated_session_ids"])
	}
	if skipped, ok := body["skipped_locked_session_ids"].([]any); !ok || len(skipped) != 1 {
		t.Fatalf("unexpected skipped ids %v", body["skipped_locked_session_ids"])
	}
}

func TestDeleteSessionInvalidID(t *testing.T) {
	handler := newSessionTestApp(&stubSessionService{})

	app := newTestApp(adminIdentity(7))
	app.Delete("/associations/:associationID/sessions/:id", handler.Delete)

	resp, _ := doJSON(t, app, http.MethodDelete, "/associations/7/sessions/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
