package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// budgetSelect joins the expense transactions that fall inside each budget's
// range (and category, when set) to compute what has been spent.
const budgetSelect = `
	SELECT b.id, b.user_id, b.category_id, b.name, b.amount, b.start_date, b.end_date,
	       b.created_at, b.updated_at, COALESCE(SUM(t.amount), 0) AS spent
	FROM budgets b
	LEFT JOIN transactions t
	       ON t.user_id = b.user_id
	      AND t.type = 'expense'
	      AND t.date BETWEEN b.start_date AND b.end_date
	      AND (b.category_id IS NULL OR t.category_id = b.category_id)`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CategoryID,
		&b.Name,
		&b.Amount,
		&b.StartDate,
		&b.EndDate,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Spent,
	)
	if err != nil {
		return nil, err
	}
	b.Remaining = b.Amount.Sub(b.Spent)
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (user_id, category_id, name, amount, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		budget.UserID,
		budget.CategoryID,
		budget.Name,
		budget.Amount,
		budget.StartDate,
		budget.EndDate).Scan(&budget.ID)
	if err != nil {
		return wrap("ошибка при добавлении бюджета", err)
	}

	created, err := s.GetBudget(ctx, budget.UserID, budget.ID)
	if err != nil {
		return err
	}
	*budget = *created
	return nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id int) (*models.Budget, error) {
	query := budgetSelect + ` WHERE b.id = $1 AND b.user_id = $2 GROUP BY b.id`
	b, err := scanBudget(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, wrap(fmt.Sprintf("бюджет с ID %d", id), err)
	}
	return b, nil
}

// ListBudgets возвращает бюджеты пользователя. activeOn, если задан, оставляет
// только бюджеты, чей период включает эту дату.
func (s *Store) ListBudgets(ctx context.Context, userID int, activeOn *models.Date) ([]models.Budget, error) {
	query := budgetSelect + `
		WHERE b.user_id = $1 AND ($2::date IS NULL OR $2::date BETWEEN b.start_date AND b.end_date)
		GROUP BY b.id
		ORDER BY b.start_date DESC, b.id`
	rows, err := s.pool.Query(ctx, query, userID, activeOn)
	if err != nil {
		return nil, wrap("ошибка при получении бюджетов", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, wrap("ошибка чтения бюджета", err)
		}
		budgets = append(budgets, *b)
	}
	return budgets, wrap("ошибка при получении бюджетов", rows.Err())
}

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET category_id = $1, name = $2, amount = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7`

	result, err := s.pool.Exec(ctx, query,
		budget.CategoryID,
		budget.Name,
		budget.Amount,
		budget.StartDate,
		budget.EndDate,
		budget.ID,
		budget.UserID)
	if err != nil {
		return wrap("ошибка обновления бюджета", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d: %w", budget.ID, ErrNotFound)
	}

	updated, err := s.GetBudget(ctx, budget.UserID, budget.ID)
	if err != nil {
		return err
	}
	*budget = *updated
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id int) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrap("ошибка удаления бюджета", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) BatchDeleteBudgets(ctx context.Context, userID int, ids []int) (int64, error) {
	return s.batchDelete(ctx, "budgets", userID, ids)
}
