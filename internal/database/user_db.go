package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const userColumns = `id, name, email, password_hash, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RegisterUser хеширует пароль и сохраняет нового пользователя.
func (s *Store) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	user, err := scanUser(s.pool.QueryRow(ctx, query, req.Name, models.NormalizeEmail(req.Email), hash))
	if err != nil {
		return nil, wrap("ошибка при добавлении пользователя", err)
	}
	return user, nil
}

// AuthenticateUser проверяет email и пароль. Неизвестный email и неверный
// пароль дают одну и ту же ошибку ErrInvalidCredentials.
func (s *Store) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		auth.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrap(fmt.Sprintf("ошибка получения пользователя %d", id), err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		return nil, wrap("ошибка получения пользователя по email", err)
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrap("ошибка получения списка пользователей", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap("ошибка чтения пользователя", err)
		}
		users = append(users, *u)
	}
	return users, wrap("ошибка получения списка пользователей", rows.Err())
}

// SetUserAdmin выдаёт или снимает права администратора.
func (s *Store) SetUserAdmin(ctx context.Context, id int, isAdmin bool) (*models.User, error) {
	query := `
		UPDATE users SET is_admin = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	user, err := scanUser(s.pool.QueryRow(ctx, query, isAdmin, id))
	if err != nil {
		return nil, wrap(fmt.Sprintf("ошибка изменения прав пользователя %d", id), err)
	}
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrap("ошибка удаления пользователя", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("пользователь с ID %d: %w", id, ErrNotFound)
	}
	return nil
}
