package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/pkg/serverutils"
	"parent-assistant-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// fakeAssistant knows one session, "s-1", which is still onboarding
// until levels are set.
type fakeAssistant struct {
	levels []string
}

func (f *fakeAssistant) CreateSession(context.Context) (*dto.CreateSessionResponse, error) {
	token, err := serverutils.IssueSessionToken(testSecret, "s-1", time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{SessionId: "s-1", ThreadId: "t-1", Phase: "new", Token: token}, nil
}

func (f *fakeAssistant) SetLevels(_ context.Context, id string, req *dto.SetLevelsRequest) (*dto.SetLevelsResponse, error) {
	if id != "s-1" {
		return nil, session.ErrNotFound
	}
	f.levels = req.Levels
	return &dto.SetLevelsResponse{Announcement: "ok", ActiveLevels: req.Levels, Phase: "active"}, nil
}

func (f *fakeAssistant) Chat(_ context.Context, id string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if id != "s-1" {
		return nil, session.ErrNotFound
	}
	if len(f.levels) == 0 {
		return nil, session.ErrOnboarding
	}
	return &dto.ChatResponse{Answer: "cevap: " + req.Message, Label: "question", Destination: "retrieve", Status: "ok"}, nil
}

func (f *fakeAssistant) ClearHistory(_ context.Context, id string, req *dto.ClearHistoryRequest) (*dto.ClearHistoryResponse, error) {
	if !req.PreserveLevels {
		f.levels = nil
	}
	return &dto.ClearHistoryResponse{ThreadId: "t-2", Phase: "onboarding", ActiveLevels: f.levels}, nil
}

func (f *fakeAssistant) SetCompression(_ context.Context, id string, enabled bool) (*dto.SessionStateResponse, error) {
	return &dto.SessionStateResponse{SessionId: id, CompressEnabled: enabled}, nil
}

func (f *fakeAssistant) GetState(_ context.Context, id string) (*dto.SessionStateResponse, error) {
	if id != "s-1" {
		return nil, session.ErrNotFound
	}
	return &dto.SessionStateResponse{SessionId: id, ActiveLevels: f.levels}, nil
}

func (f *fakeAssistant) DeleteSession(_ context.Context, id string) error {
	if id != "s-1" {
		return session.ErrNotFound
	}
	return nil
}

func (f *fakeAssistant) Exists(id string) bool { return id == "s-1" }

func (f *fakeAssistant) Levels() []dto.LevelResponse {
	return []dto.LevelResponse{{Code: "lise", DisplayName: "Lise (9-12. Sınıf)"}}
}

func (f *fakeAssistant) Health(context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{Status: "ok", ActiveSessions: 1}
}

func newTestApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewAssistantController(&fakeAssistant{}, secret).RegisterRoutes(app.Group("/api"))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body, token string) (int, serverutils.Response) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, res := doRequest(t, app, http.MethodPost, "/api/assistant/v1/sessions", "", "")
	require.Equal(t, fiber.StatusCreated, status)

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAssistantController_SessionFlow(t *testing.T) {
	app := newTestApp(testSecret)
	token := createSession(t, app)

	status, res := doRequest(t, app, http.MethodPost, "/api/assistant/v1/sessions/s-1/chat", `{"message":"Merhaba"}`, token)
	assert.Equal(t, fiber.StatusConflict, status, "chat before levels")
	assert.False(t, res.Success)

	status, _ = doRequest(t, app, http.MethodPut, "/api/assistant/v1/sessions/s-1/levels", `{"levels":["lise"]}`, token)
	assert.Equal(t, fiber.StatusOK, status)

	status, res = doRequest(t, app, http.MethodPost, "/api/assistant/v1/sessions/s-1/chat", `{"message":"Servis?"}`, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, res.Success)
	data := res.Data.(map[string]interface{})
	assert.Equal(t, "cevap: Servis?", data["answer"])

	status, res = doRequest(t, app, http.MethodPut, "/api/assistant/v1/sessions/s-1/compression", `{"enabled":false}`, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, res.Data.(map[string]interface{})["compress_enabled"])

	status, _ = doRequest(t, app, http.MethodPost, "/api/assistant/v1/sessions/s-1/clear", "", token)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/assistant/v1/sessions/s-1", "", token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAssistantController_Auth(t *testing.T) {
	app := newTestApp(testSecret)
	token := createSession(t, app)

	status, _ := doRequest(t, app, http.MethodGet, "/api/assistant/v1/sessions/s-1/state", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/assistant/v1/sessions/s-1/state", "", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	other, err := serverutils.IssueSessionToken(testSecret, "s-2", time.Hour)
	require.NoError(t, err)
	status, _ = doRequest(t, app, http.MethodGet, "/api/assistant/v1/sessions/s-1/state", "", other)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/assistant/v1/sessions/s-1/state", "", token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAssistantController_Validation(t *testing.T) {
	app := newTestApp("")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"empty message", http.MethodPost, "/api/assistant/v1/sessions/s-1/chat", `{"message":""}`, fiber.StatusBadRequest},
		{"no levels", http.MethodPut, "/api/assistant/v1/sessions/s-1/levels", `{"levels":[]}`, fiber.StatusBadRequest},
		{"missing enabled", http.MethodPut, "/api/assistant/v1/sessions/s-1/compression", `{}`, fiber.StatusBadRequest},
		{"broken json", http.MethodPost, "/api/assistant/v1/sessions/s-1/chat", `{"message":`, fiber.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/assistant/v1/sessions/nope/state", "", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := doRequest(t, app, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.status, status)
			assert.False(t, res.Success)
		})
	}
}

func TestAssistantController_PublicRoutes(t *testing.T) {
	app := newTestApp(testSecret)

	status, res := doRequest(t, app, http.MethodGet, "/api/assistant/v1/levels", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	levels := res.Data.([]interface{})
	assert.Len(t, levels, 1)

	status, res = doRequest(t, app, http.MethodGet, "/api/assistant/v1/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", res.Data.(map[string]interface{})["status"])
}
