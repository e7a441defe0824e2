package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Summary считает доходы и расходы пользователя за период [from, to].
func (s *Store) Summary(ctx context.Context, userID int, from, to models.Date) (*models.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expense,
			COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND date BETWEEN $2 AND $3`

	summary := &models.Summary{From: from, To: to}
	err := s.pool.QueryRow(ctx, query, userID, from, to).Scan(&summary.Income, &summary.Expense, &summary.Count)
	if err != nil {
		return nil, wrap("ошибка при получении доходов и расходов", err)
	}
	summary.Finish()
	return summary, nil
}

// CategoryBreakdown группирует суммы транзакций типа txType по категориям.
// Транзакции без категории попадают в группу "Uncategorized".
func (s *Store) CategoryBreakdown(ctx context.Context, userID int, txType models.TransactionType, from, to models.Date) ([]models.CategoryTotal, error) {
	query := `
		SELECT c.id, COALESCE(c.name, 'Uncategorized'), COALESCE(c.color, '#6b7280'),
		       COALESCE(SUM(t.amount), 0) AS total, COUNT(*)
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.type = $2 AND t.date BETWEEN $3 AND $4
		GROUP BY c.id, c.name, c.color
		ORDER BY total DESC`
	rows, err := s.pool.Query(ctx, query, userID, txType, from, to)
	if err != nil {
		return nil, wrap("ошибка при получении расходов по категориям", err)
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Category, &ct.Color, &ct.Total, &ct.Count); err != nil {
			return nil, wrap("ошибка чтения итогов по категориям", err)
		}
		totals = append(totals, ct)
	}
	return totals, wrap("ошибка при получении расходов по категориям", rows.Err())
}

// MonthlyTotals возвращает доходы и расходы по месяцам за последние months
// месяцев, включая текущий. Месяцы без операций заполняются нулями.
func (s *Store) MonthlyTotals(ctx context.Context, userID int, months int, now time.Time) ([]models.MonthlyTotal, error) {
	start := models.NewDate(now.Year(), now.Month()-time.Month(months-1), 1)
	query := `
		SELECT TO_CHAR(DATE_TRUNC('month', date), 'YYYY-MM') AS month,
		       COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		GROUP BY month
		ORDER BY month`
	rows, err := s.pool.Query(ctx, query, userID, start)
	if err != nil {
		return nil, wrap("ошибка при получении месячных итогов", err)
	}
	defer rows.Close()

	monthlyData := make(map[string]models.MonthlyTotal)
	for rows.Next() {
		var mt models.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Income, &mt.Expense); err != nil {
			return nil, wrap("ошибка чтения месячных итогов", err)
		}
		monthlyData[mt.Month] = mt
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("ошибка при получении месячных итогов", err)
	}
	return FillMonths(start, months, monthlyData), nil
}

// FillMonths lays out months consecutive months from start, taking totals from
// data and zero for months without rows.
func FillMonths(start models.Date, months int, data map[string]models.MonthlyTotal) []models.MonthlyTotal {
	result := make([]models.MonthlyTotal, 0, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		mt, ok := data[key]
		if !ok {
			mt = models.MonthlyTotal{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
		}
		result = append(result, mt)
	}
	return result
}
