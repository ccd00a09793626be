package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ragagent/internal/entity"
)

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	CreateMessage(ctx context.Context, message entity.Message) (*entity.Message, error)
	ListMessages(ctx context.Context, userID, sessionID string, limit int) ([]entity.Message, error)
}

var _ MessageRepository = &MessagePostgres{}

// MessagePostgres implements MessageRepository using PostgreSQL
type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

func (r *MessagePostgres) CreateMessage(ctx context.Context, message entity.Message) (*entity.Message, error) {
	query := `
		INSERT INTO messages (id, user_id, session_id, role, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, session_id, role, content, created_at
	`

	var created entity.Message
	err := r.db.QueryRow(ctx, query,
		message.ID,
		message.UserID,
		message.SessionID,
		string(message.Role),
		message.Content,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.SessionID,
		&created.Role,
		&created.Content,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return &created, nil
}

// ListMessages returns the last limit messages of the session in
// chronological order. limit <= 0 means no limit.
func (r *MessagePostgres) ListMessages(ctx context.Context, userID, sessionID string, limit int) ([]entity.Message, error) {
	query := `
		SELECT id, user_id, session_id, role, content, created_at
		FROM (
			SELECT id, user_id, session_id, role, content, created_at
			FROM messages
			WHERE user_id = $1 AND session_id = $2
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) AS recent
		ORDER BY created_at ASC, id ASC
	`

	pgLimit := any(limit)
	if limit <= 0 {
		pgLimit = nil
	}

	rows, err := r.db.Query(ctx, query, userID, sessionID, pgLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
