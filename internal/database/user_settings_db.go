package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goccy/go-json"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// GetPreferences возвращает настройки пользователя или значения по умолчанию,
// если пользователь их ещё не сохранял.
func (s *Store) GetPreferences(ctx context.Context, userID int) (*models.UserPreferences, error) {
	query := `SELECT user_id, currency, theme, language, settings, updated_at
              FROM user_preferences WHERE user_id = $1`

	var prefs models.UserPreferences
	var raw []byte
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.Currency, &prefs.Theme, &prefs.Language, &raw, &prefs.UpdatedAt,
	)
	if err != nil {
		err = wrap("ошибка получения настроек", err)
		if errors.Is(err, ErrNotFound) {
			defaults := models.DefaultPreferences(userID)
			return &defaults, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &prefs.Settings); err != nil {
		return nil, fmt.Errorf("ошибка разбора настроек user_id=%d: %w", userID, err)
	}
	if prefs.Settings == nil {
		prefs.Settings = map[string]any{}
	}
	return &prefs, nil
}

// UpsertPreferences сохраняет настройки целиком (insert или update).
func (s *Store) UpsertPreferences(ctx context.Context, prefs *models.UserPreferences) error {
	settings := prefs.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("ошибка сериализации настроек: %w", err)
	}

	query := `
		INSERT INTO user_preferences (user_id, currency, theme, language, settings, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET currency = EXCLUDED.currency, theme = EXCLUDED.theme, language = EXCLUDED.language,
		    settings = EXCLUDED.settings, updated_at = NOW()
		RETURNING updated_at`
	err = s.pool.QueryRow(ctx, query,
		prefs.UserID, prefs.Currency, prefs.Theme, prefs.Language, raw).Scan(&prefs.UpdatedAt)
	if err != nil {
		return wrap("ошибка обновления настроек пользователя", err)
	}

	log.Printf("Настройки успешно обновлены для user_id=%d", prefs.UserID)
	return nil
}
