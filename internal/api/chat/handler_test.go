package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragagent/internal/entity"
)

type fakeAgent struct {
	answer string
	err    error
	gotMsg string
}

func (f *fakeAgent) Chat(_ context.Context, _, _, userText string) (string, error) {
	f.gotMsg = userText
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeSessions struct {
	err error
}

func (f *fakeSessions) EnsureSession(_ context.Context, userID, sessionID string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	if userID == "" {
		userID = "default_user"
	}
	if sessionID == "" {
		sessionID = "default_session"
	}
	return userID, sessionID, nil
}

func newTestRouter(agent *fakeAgent, sessions *fakeSessions) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(agent, sessions))
	return r
}

func doChat(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChat_Success(t *testing.T) {
	agent := &fakeAgent{answer: "42 documents ingested"}
	router := newTestRouter(agent, &fakeSessions{})

	rec := doChat(t, router, `{"message":"ingest the folder","user_id":"u1","session_id":"s1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp entity.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "42 documents ingested", resp.Response)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "ingest the folder", agent.gotMsg)
}

func TestChat_DefaultsIdentifiers(t *testing.T) {
	router := newTestRouter(&fakeAgent{answer: "ok"}, &fakeSessions{})

	rec := doChat(t, router, `{"message":"hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp entity.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "default_user", resp.UserID)
	assert.Equal(t, "default_session", resp.SessionID)
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	router := newTestRouter(&fakeAgent{}, &fakeSessions{})

	rec := doChat(t, router, `{"message":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_MalformedBodyRejected(t *testing.T) {
	router := newTestRouter(&fakeAgent{}, &fakeSessions{})

	rec := doChat(t, router, `{"message":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_AgentFailure(t *testing.T) {
	router := newTestRouter(&fakeAgent{err: errors.New("llm down")}, &fakeSessions{})

	rec := doChat(t, router, `{"message":"hi"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Message)
}

func TestChat_ToolLimitMapsTo422(t *testing.T) {
	router := newTestRouter(&fakeAgent{err: entity.ErrToolLimitReached}, &fakeSessions{})

	rec := doChat(t, router, `{"message":"loop"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
