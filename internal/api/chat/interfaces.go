package chat

import "context"

type AgentUsecase interface {
	Chat(ctx context.Context, userID, sessionID, userText string) (string, error)
}

type SessionUsecase interface {
	EnsureSession(ctx context.Context, userID, sessionID string) (string, string, error)
}
