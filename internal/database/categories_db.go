package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const categoryColumns = `id, user_id, name, type, color, icon, created_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory сохраняет категорию. category.UserID == nil создаёт глобальную категорию.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns
	created, err := scanCategory(s.pool.QueryRow(ctx, query,
		category.UserID, category.Name, category.Type, category.Color, category.Icon))
	if err != nil {
		return wrap("ошибка при добавлении категории", err)
	}
	*category = *created
	return nil
}

// GetCategory возвращает категорию, видимую пользователю: глобальную или его собственную.
func (s *Store) GetCategory(ctx context.Context, userID, id int) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`
	c, err := scanCategory(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, wrap(fmt.Sprintf("категория с ID %d", id), err)
	}
	return c, nil
}

// ListCategories возвращает глобальные категории и категории пользователя.
// Пустой categoryType не фильтрует по типу.
func (s *Store) ListCategories(ctx context.Context, userID int, categoryType models.TransactionType) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE (user_id IS NULL OR user_id = $1) AND ($2 = '' OR type = $2)
		ORDER BY type, user_id NULLS FIRST, name`
	rows, err := s.pool.Query(ctx, query, userID, string(categoryType))
	if err != nil {
		return nil, wrap("ошибка при получении категорий", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, wrap("ошибка чтения категории", err)
		}
		categories = append(categories, *c)
	}
	return categories, wrap("ошибка при получении категорий", rows.Err())
}

// UpdateCategory обновляет категорию с тем же владельцем, что и category.UserID.
// CategoryInUse сообщает, ссылаются ли на категорию транзакции или бюджеты.
func (s *Store) CategoryInUse(ctx context.Context, id int) (bool, error) {
	var used bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = $1)
			OR EXISTS (SELECT 1 FROM budgets WHERE category_id = $1)`, id).Scan(&used)
	if err != nil {
		return false, wrap("ошибка проверки использования категории", err)
	}
	return used, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, color = $3, icon = $4
		WHERE id = $5 AND user_id IS NOT DISTINCT FROM $6
		RETURNING ` + categoryColumns
	updated, err := scanCategory(s.pool.QueryRow(ctx, query,
		category.Name, category.Type, category.Color, category.Icon, category.ID, category.UserID))
	if err != nil {
		return wrap("ошибка обновления категории", err)
	}
	*category = *updated
	return nil
}

// DeleteCategory удаляет категорию владельца owner (nil для глобальной).
// Транзакции и бюджеты категории остаются, их category_id становится NULL.
func (s *Store) DeleteCategory(ctx context.Context, owner *int, id int) error {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id IS NOT DISTINCT FROM $2`, id, owner)
	if err != nil {
		return wrap("ошибка при удалении категории", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// BatchDeleteCategories удаляет собственные категории пользователя; глобальные
// категории в пакетном удалении не участвуют.
func (s *Store) BatchDeleteCategories(ctx context.Context, userID int, ids []int) (int64, error) {
	return s.batchDelete(ctx, "categories", userID, ids)
}
