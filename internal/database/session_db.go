package database

import (
	"context"
	"fmt"
	"time"

	"github.com/valeriaulyamaeva/fintrack/models"
)

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, user_agent, ip, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := s.pool.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.UserAgent,
		session.IP,
		session.ExpiresAt).Scan(&session.CreatedAt)
	if err != nil {
		return wrap("ошибка создания сессии", err)
	}
	return nil
}

// GetActiveSession возвращает сессию и её владельца, если сессия не отозвана
// и не истекла. Иначе ErrNotFound.
func (s *Store) GetActiveSession(ctx context.Context, sessionID string) (*models.Session, *models.User, error) {
	query := `
		SELECT s.id, s.user_id, s.user_agent, s.ip, s.created_at, s.expires_at, s.revoked_at,
		       u.id, u.name, u.email, u.password_hash, u.is_admin, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.revoked_at IS NULL AND s.expires_at > NOW()`

	var sess models.Session
	var u models.User
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(
		&sess.ID, &sess.UserID, &sess.UserAgent, &sess.IP, &sess.CreatedAt, &sess.ExpiresAt, &sess.RevokedAt,
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, nil, wrap("ошибка получения сессии", err)
	}
	return &sess, &u, nil
}

func (s *Store) RevokeSession(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`, sessionID)
	return wrap("ошибка отзыва сессии", err)
}

// RevokeUserSessions отзывает все сессии пользователя, например после смены прав.
func (s *Store) RevokeUserSessions(ctx context.Context, userID int) (int64, error) {
	result, err := s.pool.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return 0, wrap("ошибка отзыва сессий пользователя", err)
	}
	return result.RowsAffected(), nil
}

// PurgeExpiredSessions удаляет сессии, истёкшие или отозванные раньше before.
func (s *Store) PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at < $1 OR revoked_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки сессий: %w", err)
	}
	return result.RowsAffected(), nil
}
