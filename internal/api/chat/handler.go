package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
	"ragagent/internal/pkg/logger"
	"ragagent/internal/pkg/response"
	"ragagent/internal/pkg/validator"
)

type Handler struct {
	agent    AgentUsecase
	sessions SessionUsecase
}

func NewHandler(agent AgentUsecase, sessions SessionUsecase) *Handler {
	return &Handler{
		agent:    agent,
		sessions: sessions,
	}
}

// Chat handles POST /chat - Run one agent turn
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validator.ValidateChatRequest(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, sessionID, err := h.sessions.EnsureSession(ctx, req.UserID, req.SessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
	)
	ctxzap.Info(ctx, "handling chat message", zap.Int("message_len", len(req.Message)))

	answer, err := h.agent.Chat(ctx, userID, sessionID, req.Message)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat message handled")

	response.Success(w, entity.ChatResponse{
		Response:  answer,
		UserID:    userID,
		SessionID: sessionID,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "chat failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrToolLimitReached):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
