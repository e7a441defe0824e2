package models

import (
	"strings"
	"time"
)

var supportedCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "BRL": true, "BYN": true, "RUB": true,
	"PLN": true, "JPY": true, "KRW": true, "CAD": true, "AUD": true, "CHF": true,
}

var supportedThemes = map[string]bool{"light": true, "dark": true, "system": true}

// UserPreferences holds per-user display settings. Settings is a free-form
// object for client-side options the server does not interpret.
type UserPreferences struct {
	UserID    int            `json:"user_id"`
	Currency  string         `json:"currency"`
	Theme     string         `json:"theme"`
	Language  string         `json:"language"`
	Settings  map[string]any `json:"settings"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func DefaultPreferences(userID int) UserPreferences {
	return UserPreferences{
		UserID:   userID,
		Currency: "USD",
		Theme:    "system",
		Language: "en",
		Settings: map[string]any{},
	}
}

type PreferencesInput struct {
	Currency *string        `json:"currency"`
	Theme    *string        `json:"theme"`
	Language *string        `json:"language"`
	Settings map[string]any `json:"settings"`
}

func (in *PreferencesInput) Validate() error {
	if in.Currency != nil && !supportedCurrencies[strings.ToUpper(*in.Currency)] {
		return invalid("currency", "is not supported")
	}
	if in.Theme != nil && !supportedThemes[*in.Theme] {
		return invalid("theme", "must be light, dark or system")
	}
	if in.Language != nil {
		lang := strings.TrimSpace(*in.Language)
		if len(lang) < 2 || len(lang) > 10 {
			return invalid("language", "must be a language tag like en or pt-BR")
		}
	}
	return nil
}

// Apply merges the request into p. Settings keys are merged one level deep; a
// null value removes a key.
func (in *PreferencesInput) Apply(p *UserPreferences) {
	if in.Currency != nil {
		p.Currency = strings.ToUpper(*in.Currency)
	}
	if in.Theme != nil {
		p.Theme = *in.Theme
	}
	if in.Language != nil {
		p.Language = strings.TrimSpace(*in.Language)
	}
	if in.Settings != nil && p.Settings == nil {
		p.Settings = map[string]any{}
	}
	for k, v := range in.Settings {
		if v == nil {
			delete(p.Settings, k)
			continue
		}
		p.Settings[k] = v
	}
}
