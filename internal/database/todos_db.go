package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const todoColumns = `id, user_id, title, completed, due_date, priority, created_at, updated_at`

func scanTodo(row pgx.Row) (*models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.DueDate, &t.Priority, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTodo(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (user_id, title, completed, due_date, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns
	created, err := scanTodo(s.pool.QueryRow(ctx, query,
		todo.UserID, todo.Title, todo.Completed, todo.DueDate, todo.Priority))
	if err != nil {
		return wrap("ошибка при добавлении задачи", err)
	}
	*todo = *created
	return nil
}

func (s *Store) GetTodo(ctx context.Context, userID, id int) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	t, err := scanTodo(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, wrap(fmt.Sprintf("задача с ID %d", id), err)
	}
	return t, nil
}

// ListTodos возвращает задачи пользователя: сначала открытые, затем по сроку
// и приоритету. completed, если задан, фильтрует по статусу.
func (s *Store) ListTodos(ctx context.Context, userID int, completed *bool) ([]models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND ($2::boolean IS NULL OR completed = $2)
		ORDER BY completed,
		         due_date NULLS LAST,
		         CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
		         id`
	rows, err := s.pool.Query(ctx, query, userID, completed)
	if err != nil {
		return nil, wrap("ошибка при получении задач", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, wrap("ошибка чтения задачи", err)
		}
		todos = append(todos, *t)
	}
	return todos, wrap("ошибка при получении задач", rows.Err())
}

func (s *Store) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, completed = $2, due_date = $3, priority = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + todoColumns
	updated, err := scanTodo(s.pool.QueryRow(ctx, query,
		todo.Title, todo.Completed, todo.DueDate, todo.Priority, todo.ID, todo.UserID))
	if err != nil {
		return wrap("ошибка обновления задачи", err)
	}
	*todo = *updated
	return nil
}

func (s *Store) DeleteTodo(ctx context.Context, userID, id int) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrap("ошибка удаления задачи", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("задача с ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) BatchDeleteTodos(ctx context.Context, userID int, ids []int) (int64, error) {
	return s.batchDelete(ctx, "todos", userID, ids)
}
