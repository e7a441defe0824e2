package database_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func TestTodoOrderingAndBatchDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	user := newUser(t, store)

	due := models.NewDate(2025, 7, 1)
	inputs := []models.TodoInput{
		{Title: ptr("Pay rent"), DueDate: &due, Priority: ptr(models.PriorityHigh)},
		{Title: ptr("Review subscriptions")},
		{Title: ptr("File taxes"), Completed: ptr(true)},
	}
	var ids []int
	for _, in := range inputs {
		if err := in.ValidateCreate(); err != nil {
			t.Fatalf("невалидная задача: %v", err)
		}
		todo := in.NewTodo(user.ID)
		if err := store.CreateTodo(ctx, &todo); err != nil {
			t.Fatalf("ошибка создания задачи: %v", err)
		}
		ids = append(ids, todo.ID)
	}

	all, err := store.ListTodos(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("ошибка получения задач: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Pay rent" || !all[2].Completed {
		t.Errorf("неверный порядок задач: %+v", all)
	}

	open, err := store.ListTodos(ctx, user.ID, ptr(false))
	if err != nil {
		t.Fatalf("ошибка получения задач: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("открытых задач %d, хотели 2", len(open))
	}

	todo := all[0]
	update := models.TodoInput{DueDate: &models.Date{}, Completed: ptr(true)}
	update.Apply(&todo)
	if err := store.UpdateTodo(ctx, &todo); err != nil {
		t.Fatalf("ошибка обновления задачи: %v", err)
	}
	if todo.DueDate != nil || !todo.Completed {
		t.Errorf("задача не обновлена: %+v", todo)
	}

	n, err := store.BatchDeleteTodos(ctx, user.ID, ids)
	if err != nil || n != 3 {
		t.Errorf("пакетное удаление задач: n=%d err=%v", n, err)
	}
}

func TestInvestmentsCRUD(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	user := newUser(t, store)

	in := models.InvestmentInput{
		Name:          ptr("ACME"),
		Type:          ptr(models.InvestmentStock),
		Quantity:      ptr(decimal.NewFromInt(10)),
		PurchasePrice: ptr(decimal.RequireFromString("12.50")),
		PurchaseDate:  ptr(models.NewDate(2024, 9, 2)),
	}
	if err := in.ValidateCreate(); err != nil {
		t.Fatalf("невалидная инвестиция: %v", err)
	}
	inv := in.NewInvestment(user.ID)
	if err := store.CreateInvestment(ctx, &inv); err != nil {
		t.Fatalf("ошибка создания инвестиции: %v", err)
	}

	inv.CurrentPrice = decimal.NewFromInt(15)
	if err := store.UpdateInvestment(ctx, &inv); err != nil {
		t.Fatalf("ошибка обновления инвестиции: %v", err)
	}

	list, err := store.ListInvestments(ctx, user.ID, models.InvestmentStock)
	if err != nil {
		t.Fatalf("ошибка получения инвестиций: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("инвестиций %d, хотели 1", len(list))
	}
	summary := models.SummarizePortfolio(list)
	if !summary.Gain.Equal(decimal.NewFromInt(25)) || !summary.GainPercent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("неверная сводка портфеля: %+v", summary)
	}

	if none, _ := store.ListInvestments(ctx, user.ID, models.InvestmentCrypto); len(none) != 0 {
		t.Errorf("фильтр по типу вернул %d строк", len(none))
	}

	if err := store.DeleteInvestment(ctx, user.ID, inv.ID); err != nil {
		t.Fatalf("ошибка удаления инвестиции: %v", err)
	}
}
