package gateway

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/auth"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/orchestration"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/session"
)

const twoFileResponse = "<<<<FILE: pom.xml>>>>\n<project/>\n<<<<ENDFILE>>>>\n" +
	"<<<<FILE: ./src/Main.java>>>>\nclass Main {}\n<<<<ENDFILE>>>>"

type testServer struct {
	router *gin.Engine
	store  *session.Store
	jwt    *auth.JWTManager
}

func newTestServer(t *testing.T, gen orchestration.Generator) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jm, err := auth.NewJWTManager("test-secret")
	require.NoError(t, err)

	cat := catalog.Default()
	store := session.NewStore(cat, time.Minute, session.Options{})
	runner := orchestration.NewService(gen, nil, nil)
	handler := NewHandler(cat, store, runner, jm, time.Hour, nil)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"), NewEventStream(store, nil))
	return &testServer{router: router, store: store, jwt: jm}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createSession(t *testing.T, domain string) CreateSessionResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/sessions", "", CreateSessionRequest{Domain: domain})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) session.State {
	t.Helper()
	var state session.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func staticResponse(text string) orchestration.Generator {
	return orchestration.GeneratorFunc(func(context.Context, models.GenerationRequest) (string, error) {
		return text, nil
	})
}

func TestHandler_Catalog(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("domains", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/catalog/domains", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp DomainsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Domains, 7)
		assert.Equal(t, "software-dev", resp.Domains[0].ID)
	})

	t.Run("services filtered by query", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/catalog/domains/cloud/services?q=AZURE", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ServicesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Services, 3)
	})

	t.Run("unknown domain", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/catalog/domains/nope/services", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, models.ErrCodeNotFound, decodeError(t, w).Code)
	})

	t.Run("stacks", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/catalog/stacks", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp StacksResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Stacks, 19)
	})
}

func TestHandler_CreateSession(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name         string
		body         interface{}
		expectedCode int
	}{
		{name: "valid domain", body: CreateSessionRequest{Domain: "software-dev"}, expectedCode: http.StatusCreated},
		{name: "missing domain", body: map[string]string{}, expectedCode: http.StatusBadRequest},
		{name: "unknown domain", body: CreateSessionRequest{Domain: "nope"}, expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/sessions", "", tt.body)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}

	resp := ts.createSession(t, "software-dev")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, resp.SessionID, resp.State.ID)
	assert.Equal(t, "software-dev", resp.State.Selection.Domain)
	assert.NotEmpty(t, resp.State.Candidates)

	claims, err := ts.jwt.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, claims.SessionID)
}

func TestHandler_EndToEnd(t *testing.T) {
	ts := newTestServer(t, staticResponse(twoFileResponse))
	created := ts.createSession(t, "software-dev")
	base := "/api/sessions/" + created.SessionID
	token := created.Token

	w := ts.do(t, http.MethodPut, base+"/service", token, SelectRequest{Value: "User Authentication Service"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decodeState(t, w)
	require.NotNil(t, state.Selection.Stack)
	assert.Equal(t, "springboot", state.Selection.Stack.ID)
	assert.Equal(t, "Java", state.Selection.CoreLanguage)
	assert.Equal(t, state.Selection.Stack.DefaultVersion, state.Selection.Version)
	assert.True(t, state.Ready)

	w = ts.do(t, http.MethodPut, base+"/component", token, SelectRequest{Value: state.ComponentOptions[0]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPut, base+"/prompt", token, PromptRequest{Prompt: "Use JWT"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Use JWT", decodeState(t, w).Selection.Prompt)

	w = ts.do(t, http.MethodPost, base+"/generate", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state = decodeState(t, w)
	assert.Len(t, state.Files, 2)
	assert.Equal(t, 0, state.ActiveIndex)
	assert.False(t, state.Generating)

	w = ts.do(t, http.MethodPut, base+"/files/active", token, map[string]int{"index": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeState(t, w).ActiveIndex)

	w = ts.do(t, http.MethodGet, base+"/files/active/raw", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "class Main {}", w.Body.String())
	assert.Equal(t, "./src/Main.java", w.Header().Get("X-File-Name"))

	w = ts.do(t, http.MethodGet, base+"/archive", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="user_authentication_service.zip"`, w.Header().Get("Content-Disposition"))

	data := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "pom.xml", zr.File[0].Name)
	assert.Equal(t, "src/Main.java", zr.File[1].Name)

	w = ts.do(t, http.MethodPut, base+"/domain", token, SelectRequest{Value: "cloud"})
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Empty(t, state.Files)
	assert.Nil(t, state.Selection.Service)
}

func TestHandler_GeneratorFailure(t *testing.T) {
	gen := orchestration.GeneratorFunc(func(context.Context, models.GenerationRequest) (string, error) {
		return "", assert.AnError
	})
	ts := newTestServer(t, gen)
	created := ts.createSession(t, "software-dev")
	base := "/api/sessions/" + created.SessionID

	w := ts.do(t, http.MethodPut, base+"/service", created.Token, SelectRequest{Value: "User Authentication Service"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, base+"/generate", created.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.GeneratedFile{{Name: models.ErrorFileName, Content: models.GenerationErrorText}}, decodeState(t, w).Files)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ts := newTestServer(t, staticResponse(twoFileResponse))
	created := ts.createSession(t, "software-dev")
	base := "/api/sessions/" + created.SessionID
	token := created.Token

	tests := []struct {
		name         string
		method       string
		path         string
		body         interface{}
		expectedCode int
		expectedErr  string
	}{
		{"generate before service", http.MethodPost, "/generate", nil, http.StatusUnprocessableEntity, models.ErrCodeNotReady},
		{"stack before service", http.MethodPut, "/stack", SelectRequest{Value: "springboot"}, http.StatusConflict, models.ErrCodeStepLocked},
		{"unknown service", http.MethodPut, "/service", SelectRequest{Value: "Nope"}, http.StatusBadRequest, models.ErrCodeInvalidOption},
		{"unknown domain", http.MethodPut, "/domain", SelectRequest{Value: "nope"}, http.StatusBadRequest, models.ErrCodeInvalidOption},
		{"empty value", http.MethodPut, "/service", SelectRequest{}, http.StatusBadRequest, models.ErrCodeInvalidRequest},
		{"missing index", http.MethodPut, "/files/active", map[string]string{}, http.StatusBadRequest, models.ErrCodeInvalidRequest},
		{"index out of range", http.MethodPut, "/files/active", map[string]int{"index": 3}, http.StatusBadRequest, models.ErrCodeValidationFailed},
		{"raw without files", http.MethodGet, "/files/active/raw", nil, http.StatusNotFound, models.ErrCodeNoFiles},
		{"archive without files", http.MethodGet, "/archive", nil, http.StatusNotFound, models.ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, base+tt.path, token, tt.body)
			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedErr, decodeError(t, w).Code)
		})
	}
}

func TestHandler_GenerateInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	gen := orchestration.GeneratorFunc(func(context.Context, models.GenerationRequest) (string, error) {
		close(entered)
		<-release
		return twoFileResponse, nil
	})
	ts := newTestServer(t, gen)
	created := ts.createSession(t, "software-dev")
	base := "/api/sessions/" + created.SessionID

	w := ts.do(t, http.MethodPut, base+"/service", created.Token, SelectRequest{Value: "User Authentication Service"})
	require.Equal(t, http.StatusOK, w.Code)

	done := make(chan int)
	go func() {
		req := httptest.NewRequest(http.MethodPost, base+"/generate", nil)
		req.Header.Set("Authorization", "Bearer "+created.Token)
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)
		done <- rec.Code
	}()

	<-entered
	w = ts.do(t, http.MethodPost, base+"/generate", created.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.ErrCodeGenerationInFlight, decodeError(t, w).Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestHandler_SessionAccess(t *testing.T) {
	ts := newTestServer(t, nil)
	first := ts.createSession(t, "software-dev")
	second := ts.createSession(t, "cloud")

	w := ts.do(t, http.MethodGet, "/api/sessions/"+first.SessionID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodGet, "/api/sessions/"+first.SessionID, second.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/sessions/"+first.SessionID, first.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ts.store.Delete(first.SessionID)
	w = ts.do(t, http.MethodGet, "/api/sessions/"+first.SessionID, first.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
