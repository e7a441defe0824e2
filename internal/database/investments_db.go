package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const investmentColumns = `id, user_id, name, type, quantity, purchase_price, current_price, purchase_date, created_at, updated_at`

func scanInvestment(row pgx.Row) (*models.Investment, error) {
	var i models.Investment
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Type,
		&i.Quantity,
		&i.PurchasePrice,
		&i.CurrentPrice,
		&i.PurchaseDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) CreateInvestment(ctx context.Context, investment *models.Investment) error {
	query := `
		INSERT INTO investments (user_id, name, type, quantity, purchase_price, current_price, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + investmentColumns
	created, err := scanInvestment(s.pool.QueryRow(ctx, query,
		investment.UserID,
		investment.Name,
		investment.Type,
		investment.Quantity,
		investment.PurchasePrice,
		investment.CurrentPrice,
		investment.PurchaseDate))
	if err != nil {
		return wrap("ошибка при добавлении инвестиции", err)
	}
	*investment = *created
	return nil
}

func (s *Store) GetInvestment(ctx context.Context, userID, id int) (*models.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 AND user_id = $2`
	i, err := scanInvestment(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, wrap(fmt.Sprintf("инвестиция с ID %d", id), err)
	}
	return i, nil
}

// ListInvestments возвращает инвестиции пользователя; пустой investmentType не фильтрует.
func (s *Store) ListInvestments(ctx context.Context, userID int, investmentType models.InvestmentType) ([]models.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE user_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY purchase_date DESC, id`
	rows, err := s.pool.Query(ctx, query, userID, string(investmentType))
	if err != nil {
		return nil, wrap("ошибка при получении инвестиций", err)
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		i, err := scanInvestment(rows)
		if err != nil {
			return nil, wrap("ошибка чтения инвестиции", err)
		}
		investments = append(investments, *i)
	}
	return investments, wrap("ошибка при получении инвестиций", rows.Err())
}

func (s *Store) UpdateInvestment(ctx context.Context, investment *models.Investment) error {
	query := `
		UPDATE investments
		SET name = $1, type = $2, quantity = $3, purchase_price = $4, current_price = $5,
		    purchase_date = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING ` + investmentColumns
	updated, err := scanInvestment(s.pool.QueryRow(ctx, query,
		investment.Name,
		investment.Type,
		investment.Quantity,
		investment.PurchasePrice,
		investment.CurrentPrice,
		investment.PurchaseDate,
		investment.ID,
		investment.UserID))
	if err != nil {
		return wrap("ошибка обновления инвестиции", err)
	}
	*investment = *updated
	return nil
}

func (s *Store) DeleteInvestment(ctx context.Context, userID, id int) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM investments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrap("ошибка удаления инвестиции", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("инвестиция с ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) BatchDeleteInvestments(ctx context.Context, userID int, ids []int) (int64, error) {
	return s.batchDelete(ctx, "investments", userID, ids)
}
