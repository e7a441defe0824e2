package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// openStore подключается к тестовой БД из TEST_DATABASE_URL и применяет схему.
// Без переменной окружения тест пропускается.
func openStore(t *testing.T) *database.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL не задан, пропускаем интеграционный тест")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := database.Connect(ctx, url, 4)
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(store.Close)

	if _, err := store.Migrate(ctx); err != nil {
		t.Fatalf("ошибка миграции: %v", err)
	}
	return store
}

// newUser регистрирует пользователя со случайным email и удаляет его по завершении теста.
func newUser(t *testing.T, store *database.Store) *models.User {
	t.Helper()
	ctx := context.Background()

	user, err := store.RegisterUser(ctx, models.RegisterRequest{
		Name:     gofakeit.Name(),
		Email:    fmt.Sprintf("%d.%s", time.Now().UnixNano(), gofakeit.Email()),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	})
	if err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}
	t.Cleanup(func() {
		if err := store.DeleteUser(context.Background(), user.ID); err != nil {
			t.Logf("ошибка удаления пользователя %d: %v", user.ID, err)
		}
	})
	return user
}
