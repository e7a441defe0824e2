package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const transactionColumns = `id, user_id, category_id, amount, date, description, type, frequency,
	installment_number, installment_total, series_id, is_recurring, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CategoryID,
		&t.Amount,
		&t.Date,
		&t.Description,
		&t.Type,
		&t.Frequency,
		&t.InstallmentNumber,
		&t.InstallmentTotal,
		&t.SeriesID,
		&t.IsRecurring,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const insertTransactionSQL = `
	INSERT INTO transactions (user_id, category_id, amount, date, description, type, frequency,
		installment_number, installment_total, series_id, is_recurring)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + transactionColumns

func insertArgs(t *models.Transaction) []any {
	return []any{
		t.UserID,
		t.CategoryID,
		t.Amount,
		t.Date,
		t.Description,
		t.Type,
		t.Frequency,
		t.InstallmentNumber,
		t.InstallmentTotal,
		t.SeriesID,
		t.IsRecurring,
	}
}

func (s *Store) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	created, err := scanTransaction(s.pool.QueryRow(ctx, insertTransactionSQL, insertArgs(transaction)...))
	if err != nil {
		return wrap("ошибка при добавлении транзакции", err)
	}
	*transaction = *created
	return nil
}

// CreateTransactionSeries вставляет все части серии в одной транзакции БД:
// либо сохраняются все строки, либо ни одной.
func (s *Store) CreateTransactionSeries(ctx context.Context, series []models.Transaction) ([]models.Transaction, error) {
	created := make([]models.Transaction, 0, len(series))
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for i := range series {
			t, err := scanTransaction(tx.QueryRow(ctx, insertTransactionSQL, insertArgs(&series[i])...))
			if err != nil {
				return err
			}
			created = append(created, *t)
		}
		if first := &series[0]; first.IsRecurring && first.SeriesID != nil && first.InstallmentTotal == 0 {
			return createRecurringSeries(ctx, tx, first, len(series))
		}
		return nil
	})
	if err != nil {
		return nil, wrap("ошибка при добавлении серии транзакций", err)
	}
	return created, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	t, err := scanTransaction(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, wrap(fmt.Sprintf("транзакция с ID %d", id), err)
	}
	return t, nil
}

// filterClause builds the WHERE clause and arguments for ListTransactions.
// Placeholders are numbered after userID, which is always $1.
func filterClause(userID int, f models.TransactionFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.CategoryID > 0 {
		add("category_id = $%d", f.CategoryID)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	if f.MinAmount != nil {
		add("amount >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("amount <= $%d", *f.MaxAmount)
	}
	if f.Search != "" {
		add("description ILIKE $%d", "%"+escapeLike(f.Search)+"%")
	}
	if f.SeriesID != "" {
		add("series_id::text = $%d", f.SeriesID)
	}
	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListTransactions returns one page of the user's transactions and the total
// number of rows matching the filter.
func (s *Store) ListTransactions(ctx context.Context, userID int, f models.TransactionFilter) ([]models.Transaction, int, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, err
	}
	where, args := filterClause(userID, f)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap("ошибка подсчёта транзакций", err)
	}

	order := "DESC"
	if f.Sort == "asc" {
		order = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY date %s, id %s LIMIT $%d OFFSET $%d`,
		transactionColumns, where, order, order, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap("ошибка получения транзакций", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, wrap("ошибка чтения транзакции", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap("ошибка получения транзакций", err)
	}
	return transactions, total, nil
}

// UpdateTransaction перезаписывает изменяемые поля строки, принадлежащей
// transaction.UserID, и возвращает сохранённую версию.
func (s *Store) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, date = $3, description = $4, type = $5,
		    frequency = $6, is_recurring = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + transactionColumns

	updated, err := scanTransaction(s.pool.QueryRow(ctx, query,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Date,
		transaction.Description,
		transaction.Type,
		transaction.Frequency,
		transaction.IsRecurring,
		transaction.ID,
		transaction.UserID))
	if err != nil {
		return wrap("ошибка обновления транзакции", err)
	}
	*transaction = *updated
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrap("ошибка удаления транзакции", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTransactionSeries удаляет все части серии и возвращает их количество.
func (s *Store) DeleteTransactionSeries(ctx context.Context, userID int, seriesID string) (int64, error) {
	var deleted int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM transactions WHERE series_id::text = $1 AND user_id = $2`, seriesID, userID)
		if err != nil {
			return err
		}
		deleted = result.RowsAffected()
		if deleted == 0 {
			return nil
		}
		_, err = tx.Exec(ctx,
			`DELETE FROM recurring_series WHERE series_id::text = $1 AND user_id = $2`, seriesID, userID)
		return err
	})
	if err != nil {
		return 0, wrap("ошибка удаления серии транзакций", err)
	}
	if deleted == 0 {
		return 0, fmt.Errorf("серия %s: %w", seriesID, ErrNotFound)
	}
	return deleted, nil
}

// BatchDeleteTransactions удаляет перечисленные транзакции пользователя.
// Чужие и несуществующие ID пропускаются; возвращается число удалённых строк.
func (s *Store) BatchDeleteTransactions(ctx context.Context, userID int, ids []int) (int64, error) {
	return s.batchDelete(ctx, "transactions", userID, ids)
}

// batchDelete is shared by the batch-delete endpoints. table is never user input.
func (s *Store) batchDelete(ctx context.Context, table string, userID int, ids []int) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND id = ANY($2)`, table)
	result, err := s.pool.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, wrap("ошибка пакетного удаления ("+table+")", err)
	}
	return result.RowsAffected(), nil
}
