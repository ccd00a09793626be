package session

import (
	"context"

	"ragagent/internal/entity"
)

type SessionUsecase interface {
	GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error)
	ListSessions(ctx context.Context, userID string) ([]string, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
}
