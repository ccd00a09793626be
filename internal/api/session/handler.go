package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
	"ragagent/internal/pkg/logger"
	"ragagent/internal/pkg/response"
)

type Handler struct {
	usecase SessionUsecase
}

func NewHandler(usecase SessionUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// ListSessions handles GET /sessions - List session ids of a user
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListSessions")
	userID := r.URL.Query().Get("user_id")

	ids, err := h.usecase.ListSessions(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if ids == nil {
		ids = []string{}
	}

	response.Success(w, entity.SessionListDTO{
		Sessions: ids,
		Total:    len(ids),
	})
}

// GetSession handles GET /sessions/{id} - Get session with history
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("user_id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	session, err := h.usecase.GetSession(ctx, userID, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// DeleteSession handles DELETE /sessions/{id} - Delete session and history
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("user_id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "DeleteSession"),
	)

	if err := h.usecase.DeleteSession(ctx, userID, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session deleted")
	response.NoContent(w)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "session request failed", zap.Error(err))

	if errors.Is(err, entity.ErrSessionNotFound) {
		response.Error(w, http.StatusNotFound, "session not found")
		return
	}

	response.Error(w, http.StatusInternalServerError, "internal server error")
}
