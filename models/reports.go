package models

import "github.com/shopspring/decimal"

// Summary totals a user's transactions over a date range.
type Summary struct {
	From        Date            `json:"from"`
	To          Date            `json:"to"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Balance     decimal.Decimal `json:"balance"`
	Count       int             `json:"count"`
	SavingsRate decimal.Decimal `json:"savings_rate"`
}

// Finish derives Balance and SavingsRate from the income and expense totals.
func (s *Summary) Finish() {
	s.Balance = s.Income.Sub(s.Expense)
	if s.Income.IsPositive() {
		s.SavingsRate = s.Balance.Div(s.Income).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		s.SavingsRate = decimal.Zero
	}
}

type CategoryTotal struct {
	CategoryID *int            `json:"category_id"`
	Category   string          `json:"category"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

type MonthlyTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	AdminUsers     int `json:"admin_users"`
	RegularUsers   int `json:"regular_users"`
	ActiveSessions int `json:"active_sessions"`
	Transactions   int `json:"transactions"`
	Budgets        int `json:"budgets"`
	Investments    int `json:"investments"`
	Todos          int `json:"todos"`
}
