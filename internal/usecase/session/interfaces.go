package session

import (
	"context"

	"ragagent/internal/entity"
)

type SessionRepository interface {
	UpsertSession(ctx context.Context, userID, sessionID string) (*entity.Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error)
	ListSessionIDs(ctx context.Context, userID string) ([]string, error)
	TouchSession(ctx context.Context, userID, sessionID string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, message entity.Message) (*entity.Message, error)
	ListMessages(ctx context.Context, userID, sessionID string, limit int) ([]entity.Message, error)
}
