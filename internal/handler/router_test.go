package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cloud-classroom/internal/app"
	"github.com/noah-isme/cloud-classroom/pkg/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Pagination *struct {
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
}

type testServer struct {
	t      *testing.T
	app    *app.App
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "handler-secret", Expiration: time.Hour, Issuer: "classroom"},
		Data:      config.DataConfig{Dir: filepath.Join(dir, "data")},
		Reports:   config.ReportsConfig{StorageDir: filepath.Join(dir, "reports")},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Seed(context.Background()))
	return &testServer{t: t, app: a, router: NewRouter(a)}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(s.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	return res.AccessToken
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "classroom_users 4")
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.login("alice", "alice123")
	rec, env = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":3,"username":"alice","role":"Student"}`, string(env.Data))

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{"username": "carol", "password": "pw", "role": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":5,"username":"carol","role":"Teacher"}`, string(env.Data))

	rec, env = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{"username": "carol", "password": "pw", "role": 0})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", env.Error.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{"username": "x|y", "password": "pw", "role": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{"username": "dan", "password": "pw", "role": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpoints(t *testing.T) {
	s := newTestServer(t)
	bob := s.login("bob", "bob123")
	alice := s.login("alice", "alice123")

	rec, _ := s.do(http.MethodPost, "/api/v1/chat/messages", bob, map[string]string{"peer": "alice", "text": "hi"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/chat/messages/bob", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []struct {
		From string `json:"from"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "bob", msgs[0].From)
	assert.Equal(t, "hi", msgs[0].Text)

	_, env = s.do(http.MethodGet, "/api/v1/chat/messages/alice", bob, nil)
	assert.JSONEq(t, `[]`, string(env.Data))

	_, env = s.do(http.MethodGet, "/api/v1/chat/conversations/alice", bob, nil)
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	assert.Len(t, msgs, 1)

	rec, _ = s.do(http.MethodGet, "/api/v1/chat/messages/ghost", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	teacher := s.login("teacher1", "teachpass")
	_, env = s.do(http.MethodGet, "/api/v1/chat/peers", teacher, nil)
	assert.JSONEq(t, `[{"id":3,"username":"alice"},{"id":4,"username":"bob"}]`, string(env.Data))
}

func TestSyllabusEndpoints(t *testing.T) {
	s := newTestServer(t)
	teacher := s.login("teacher1", "teachpass")
	student := s.login("alice", "alice123")

	rec, env := s.do(http.MethodPost, "/api/v1/subjects", student, map[string]string{"name": "Art"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", env.Error.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/subjects", teacher, map[string]string{"name": "Art"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/subjects/Art/topics", teacher, map[string]string{"topic": "Sketching"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/subjects/Art/topics", teacher, map[string]string{"topic": "Colour"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/subjects/Art/topics/Colour/complete", teacher, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, env = s.do(http.MethodGet, "/api/v1/subjects/Art/topics", student, nil)
	assert.JSONEq(t, `[{"name":"Colour","completed":true},{"name":"Sketching","completed":false}]`, string(env.Data))

	_, env = s.do(http.MethodGet, "/api/v1/subjects/Art/completion", student, nil)
	assert.JSONEq(t, `{"subject":"Art","percent":50}`, string(env.Data))

	_, env = s.do(http.MethodGet, "/api/v1/subjects", student, nil)
	assert.JSONEq(t, `["Art","CS","Math"]`, string(env.Data))

	rec, _ = s.do(http.MethodGet, "/api/v1/subjects/Music/topics", student, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/syllabus/report", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report []struct {
		Subject string `json:"subject"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Len(t, report, 3)
}

func TestAssignmentEndpoints(t *testing.T) {
	s := newTestServer(t)
	teacher := s.login("teacher1", "teachpass")
	student := s.login("alice", "alice123")

	rec, env := s.do(http.MethodPost, "/api/v1/assignments", teacher, map[string]interface{}{"title": "Essay", "due_date": 20250230})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/assignments", teacher, map[string]interface{}{"title": "Essay", "due_date": 20251001})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/assignments/3/submissions", teacher, map[string]string{"filename": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, env = s.do(http.MethodPost, "/api/v1/assignments/3/submissions", student, map[string]string{"filename": "essay.txt"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(env.Data), `"student":"alice"`)
	rec, _ = s.do(http.MethodPost, "/api/v1/assignments/abc/submissions", student, map[string]string{"filename": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, env = s.do(http.MethodGet, "/api/v1/assignments/next", student, nil)
	assert.Contains(t, string(env.Data), `"title":"Essay"`)

	rec, env = s.do(http.MethodGet, "/api/v1/assignments/3", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"student":"alice"`)
	rec, _ = s.do(http.MethodGet, "/api/v1/assignments/99", teacher, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/v1/assignments/abc", teacher, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/assignments/retire", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	for i := 0; i < 3; i++ {
		rec, _ = s.do(http.MethodPost, "/api/v1/assignments/retire", teacher, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, env = s.do(http.MethodGet, "/api/v1/assignments/next", student, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "EMPTY", env.Error.Code)
}

func TestAnnouncementEndpoints(t *testing.T) {
	s := newTestServer(t)
	teacher := s.login("teacher1", "teachpass")

	rec, _ := s.do(http.MethodPost, "/api/v1/announcements", teacher, map[string]string{"text": "Quiz tomorrow"})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := s.do(http.MethodGet, "/api/v1/announcements", teacher, nil)
	var items []struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 3)
	assert.Equal(t, "Quiz tomorrow", items[0].Text)
	assert.Equal(t, "teacher1", items[0].Author)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "adminpass")
	teacher := s.login("teacher1", "teachpass")

	rec, _ := s.do(http.MethodGet, "/api/v1/users", teacher, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/users?page=1&page_size=2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 4, env.Pagination.TotalCount)

	rec, env = s.do(http.MethodPost, "/api/v1/users/export", admin, map[string]string{"path": "users.txt"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"count":4`)

	rec, env = s.do(http.MethodPost, "/api/v1/users/import", admin, map[string]string{"path": "users.txt"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"count":0`)

	rec, env = s.do(http.MethodPost, "/api/v1/users/import", admin, map[string]string{"path": "missing.txt"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "IO_UNAVAILABLE", env.Error.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/users/backup", admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/reports/export", admin, map[string]string{"kind": "syllabus", "path": "syllabus.pdf"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(env.Data), `"format":"pdf"`)
}
