package database

import (
	"context"

	"github.com/valeriaulyamaeva/fintrack/models"
)

// AdminStats собирает общую статистику для панели администратора.
func (s *Store) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_admin = true) AS admin_users,
			(SELECT COUNT(*) FROM sessions WHERE revoked_at IS NULL AND expires_at > NOW()) AS active_sessions,
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM budgets),
			(SELECT COUNT(*) FROM investments),
			(SELECT COUNT(*) FROM todos)`

	var stats models.AdminStats
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.AdminUsers,
		&stats.ActiveSessions,
		&stats.Transactions,
		&stats.Budgets,
		&stats.Investments,
		&stats.Todos,
	)
	if err != nil {
		return nil, wrap("ошибка получения статистики пользователей", err)
	}
	stats.RegularUsers = stats.TotalUsers - stats.AdminUsers
	return &stats, nil
}
