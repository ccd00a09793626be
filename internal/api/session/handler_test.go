package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragagent/internal/entity"
)

type fakeUsecase struct {
	sessions map[string]*entity.Session
	listIDs  []string
	deleted  []string
}

func (f *fakeUsecase) GetSession(_ context.Context, _, sessionID string) (*entity.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeUsecase) ListSessions(_ context.Context, _ string) ([]string, error) {
	return f.listIDs, nil
}

func (f *fakeUsecase) DeleteSession(_ context.Context, _, sessionID string) error {
	if _, ok := f.sessions[sessionID]; !ok {
		return entity.ErrSessionNotFound
	}
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func newTestRouter(uc *fakeUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func TestListSessions(t *testing.T) {
	router := newTestRouter(&fakeUsecase{listIDs: []string{"s2", "s1"}})

	req := httptest.NewRequest(http.MethodGet, "/sessions?user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp entity.SessionListDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"s2", "s1"}, resp.Sessions)
	assert.Equal(t, 2, resp.Total)
}

func TestListSessions_EmptyIsAnArray(t *testing.T) {
	router := newTestRouter(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sessions":[]`)
}

func TestGetSession_WithHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(&fakeUsecase{sessions: map[string]*entity.Session{
		"s1": {
			ID:     "s1",
			UserID: "u1",
			Messages: []entity.Message{
				{Role: entity.RoleUser, Content: "hi", CreatedAt: now},
				{Role: entity.RoleAssistant, Content: "hello", CreatedAt: now},
			},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1?user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto entity.SessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "s1", dto.SessionID)
	require.Len(t, dto.Messages, 2)
	assert.Equal(t, "user", dto.Messages[0].Role)
	assert.Equal(t, "2025-06-01T12:00:00Z", dto.Messages[0].CreatedAt)
}

func TestGetSession_NotFound(t *testing.T) {
	router := newTestRouter(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/sessions/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	uc := &fakeUsecase{sessions: map[string]*entity.Session{"s1": {ID: "s1"}}}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"s1"}, uc.deleted)
}

func TestDeleteSession_NotFound(t *testing.T) {
	router := newTestRouter(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodDelete, "/sessions/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
