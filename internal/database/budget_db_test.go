package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func TestBudgetSpent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	user := newUser(t, store)

	in := models.BudgetInput{
		Name:      ptr("May"),
		Amount:    ptr(decimal.NewFromInt(100)),
		StartDate: ptr(models.NewDate(2025, 5, 1)),
		EndDate:   ptr(models.NewDate(2025, 5, 31)),
	}
	if err := in.ValidateCreate(); err != nil {
		t.Fatalf("невалидный бюджет: %v", err)
	}
	budget := in.NewBudget(user.ID)
	if err := store.CreateBudget(ctx, &budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}
	if !budget.Spent.IsZero() || !budget.Remaining.Equal(budget.Amount) {
		t.Errorf("пустой бюджет: spent=%s remaining=%s", budget.Spent, budget.Remaining)
	}

	for _, tx := range []models.Transaction{
		{Amount: decimal.RequireFromString("80.25"), Date: models.NewDate(2025, 5, 10), Type: models.TransactionExpense},
		{Amount: decimal.NewFromInt(40), Date: models.NewDate(2025, 5, 31), Type: models.TransactionExpense},
		{Amount: decimal.NewFromInt(500), Date: models.NewDate(2025, 5, 15), Type: models.TransactionIncome},
		{Amount: decimal.NewFromInt(70), Date: models.NewDate(2025, 6, 1), Type: models.TransactionExpense},
	} {
		tx.UserID = user.ID
		tx.Frequency = models.FrequencyOnce
		tx.InstallmentNumber, tx.InstallmentTotal = 1, 1
		if err := store.CreateTransaction(ctx, &tx); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	got, err := store.GetBudget(ctx, user.ID, budget.ID)
	if err != nil {
		t.Fatalf("ошибка получения бюджета: %v", err)
	}
	if !got.Spent.Equal(decimal.RequireFromString("120.25")) {
		t.Errorf("spent = %s, хотели 120.25", got.Spent)
	}
	if !got.Overspent() || !got.Remaining.Equal(decimal.RequireFromString("-20.25")) {
		t.Errorf("бюджет должен быть превышен: remaining=%s", got.Remaining)
	}

	active := models.NewDate(2025, 6, 15)
	list, err := store.ListBudgets(ctx, user.ID, &active)
	if err != nil {
		t.Fatalf("ошибка получения бюджетов: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("бюджет мая не активен в июне, получили %d", len(list))
	}

	got.Amount = decimal.NewFromInt(200)
	if err := store.UpdateBudget(ctx, got); err != nil {
		t.Fatalf("ошибка обновления бюджета: %v", err)
	}
	if !got.Remaining.Equal(decimal.RequireFromString("79.75")) {
		t.Errorf("remaining после обновления = %s", got.Remaining)
	}

	if err := store.DeleteBudget(ctx, user.ID, budget.ID); err != nil {
		t.Fatalf("ошибка удаления бюджета: %v", err)
	}
	if _, err := store.GetBudget(ctx, user.ID, budget.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("бюджет не удалён: %v", err)
	}
}
