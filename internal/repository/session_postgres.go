package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ragagent/internal/entity"
)

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	UpsertSession(ctx context.Context, userID, sessionID string) (*entity.Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error)
	ListSessionIDs(ctx context.Context, userID string) ([]string, error)
	TouchSession(ctx context.Context, userID, sessionID string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

var _ SessionRepository = &SessionPostgres{}

// SessionPostgres implements SessionRepository using PostgreSQL
type SessionPostgres struct {
	db *pgxpool.Pool
}

func NewSessionPostgres(db *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{db: db}
}

// UpsertSession creates the session row if it does not exist yet and returns
// it either way. Sessions are keyed by (user_id, id).
func (r *SessionPostgres) UpsertSession(ctx context.Context, userID, sessionID string) (*entity.Session, error) {
	query := `
		INSERT INTO sessions (user_id, id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, id) DO UPDATE SET updated_at = now()
		RETURNING user_id, id, created_at, updated_at
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, userID, sessionID).Scan(
		&session.UserID,
		&session.ID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}

	return &session, nil
}

func (r *SessionPostgres) GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error) {
	query := `
		SELECT user_id, id, created_at, updated_at
		FROM sessions
		WHERE user_id = $1 AND id = $2
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, userID, sessionID).Scan(
		&session.UserID,
		&session.ID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

func (r *SessionPostgres) ListSessionIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT id
		FROM sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return ids, nil
}

func (r *SessionPostgres) TouchSession(ctx context.Context, userID, sessionID string) error {
	query := `
		UPDATE sessions
		SET updated_at = now()
		WHERE user_id = $1 AND id = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, sessionID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrSessionNotFound
	}

	return nil
}

// DeleteSession removes the session; its messages go with it via cascade.
func (r *SessionPostgres) DeleteSession(ctx context.Context, userID, sessionID string) error {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1 AND id = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrSessionNotFound
	}

	return nil
}
