package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"ragagent/internal/config"
	"ragagent/internal/entity"
)

// Defaults applied when the caller omits identifiers, so anonymous clients
// share one well-known conversation.
const (
	DefaultUserID    = "default_user"
	DefaultSessionID = "default_session"
)

// SessionUsecase implements chat session business logic
type SessionUsecase struct {
	sessionRepo SessionRepository
	messageRepo MessageRepository
	known       *gocache.Cache
	cfg         config.SessionConfig
	logger      *zap.Logger
}

// NewUsecase creates a new session use case
func NewUsecase(
	sessionRepo SessionRepository,
	messageRepo MessageRepository,
	cfg config.SessionConfig,
	logger *zap.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		known:       gocache.New(cfg.CacheTTL, cfg.CleanupInterval),
		cfg:         cfg,
		logger:      logger,
	}
}

// EnsureSession resolves missing identifiers to the defaults and makes sure
// the session row exists. The existence check is cached so the hot chat path
// skips the upsert for known sessions.
func (uc *SessionUsecase) EnsureSession(ctx context.Context, userID, sessionID string) (string, string, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	key := cacheKey(userID, sessionID)
	if _, ok := uc.known.Get(key); ok {
		return userID, sessionID, nil
	}

	if _, err := uc.sessionRepo.UpsertSession(ctx, userID, sessionID); err != nil {
		return "", "", fmt.Errorf("ensure session: %w", err)
	}
	uc.known.SetDefault(key, struct{}{})

	ctxzap.Debug(ctx, "session ensured",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
	)

	return userID, sessionID, nil
}

// History returns the most recent messages of the session, oldest first,
// bounded by the configured history limit.
func (uc *SessionUsecase) History(ctx context.Context, userID, sessionID string) ([]entity.Message, error) {
	return uc.messageRepo.ListMessages(ctx, userID, sessionID, uc.cfg.HistoryLimit)
}

// RecordExchange appends one user/assistant pair to the session history.
func (uc *SessionUsecase) RecordExchange(ctx context.Context, userID, sessionID, userText, assistantText string) error {
	pair := []entity.Message{
		{ID: uuid.New().String(), UserID: userID, SessionID: sessionID, Role: entity.RoleUser, Content: userText},
		{ID: uuid.New().String(), UserID: userID, SessionID: sessionID, Role: entity.RoleAssistant, Content: assistantText},
	}

	for _, m := range pair {
		if _, err := uc.messageRepo.CreateMessage(ctx, m); err != nil {
			return fmt.Errorf("record %s message: %w", m.Role, err)
		}
	}

	if err := uc.sessionRepo.TouchSession(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

// GetSession returns the session with its full message history.
func (uc *SessionUsecase) GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error) {
	if userID == "" {
		userID = DefaultUserID
	}

	session, err := uc.sessionRepo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListMessages(ctx, userID, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	session.Messages = messages

	return session, nil
}

// ListSessions returns the session ids of the user, most recently used first.
func (uc *SessionUsecase) ListSessions(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		userID = DefaultUserID
	}

	return uc.sessionRepo.ListSessionIDs(ctx, userID)
}

// DeleteSession removes the session and its history.
func (uc *SessionUsecase) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if userID == "" {
		userID = DefaultUserID
	}

	if err := uc.sessionRepo.DeleteSession(ctx, userID, sessionID); err != nil {
		return err
	}
	uc.known.Delete(cacheKey(userID, sessionID))

	ctxzap.Info(ctx, "session deleted",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
	)

	return nil
}

func cacheKey(userID, sessionID string) string {
	return userID + "_" + sessionID
}
