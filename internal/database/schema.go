package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
)

type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; each runs once and is recorded in
// schema_migrations. Never edit an applied migration, append a new one.
var migrations = []migration{
	{1, "initial schema", `
CREATE TABLE IF NOT EXISTS users (
    id            SERIAL PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sessions (
    id         UUID PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    user_agent TEXT NOT NULL DEFAULT '',
    ip         TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL,
    revoked_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS categories (
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER REFERENCES users(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    color      TEXT NOT NULL DEFAULT '#6b7280',
    icon       TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
    id                 SERIAL PRIMARY KEY,
    user_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id        INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    amount             NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
    date               DATE NOT NULL,
    description        TEXT NOT NULL DEFAULT '',
    type               TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    frequency          TEXT NOT NULL DEFAULT 'once',
    installment_number INTEGER NOT NULL DEFAULT 1,
    installment_total  INTEGER NOT NULL DEFAULT 1,
    series_id          UUID,
    is_recurring       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (series_id, installment_number)
);

CREATE TABLE IF NOT EXISTS budgets (
    id          SERIAL PRIMARY KEY,
    user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    name        TEXT NOT NULL,
    amount      NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
    start_date  DATE NOT NULL,
    end_date    DATE NOT NULL CHECK (end_date >= start_date),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS investments (
    id             SERIAL PRIMARY KEY,
    user_id        INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name           TEXT NOT NULL,
    type           TEXT NOT NULL,
    quantity       NUMERIC(18, 6) NOT NULL DEFAULT 1,
    purchase_price NUMERIC(14, 2) NOT NULL,
    current_price  NUMERIC(14, 2) NOT NULL,
    purchase_date  DATE NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS todos (
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    completed  BOOLEAN NOT NULL DEFAULT FALSE,
    due_date   DATE,
    priority   TEXT NOT NULL DEFAULT 'medium',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_preferences (
    user_id    INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    currency   TEXT NOT NULL DEFAULT 'USD',
    theme      TEXT NOT NULL DEFAULT 'system',
    language   TEXT NOT NULL DEFAULT 'en',
    settings   JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`},
	{2, "indexes", `
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_transactions_series ON transactions(series_id) WHERE series_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id);
CREATE INDEX IF NOT EXISTS idx_budgets_user ON budgets(user_id);
CREATE INDEX IF NOT EXISTS idx_investments_user ON investments(user_id);
CREATE INDEX IF NOT EXISTS idx_todos_user ON todos(user_id);
`},
	{3, "default categories", `
INSERT INTO categories (user_id, name, type, color, icon)
SELECT NULL, v.name, v.type, v.color, v.icon
FROM (VALUES
    ('Salary', 'income', '#16a34a', 'briefcase'),
    ('Investments', 'income', '#0d9488', 'trending-up'),
    ('Other income', 'income', '#65a30d', 'plus-circle'),
    ('Food', 'expense', '#ea580c', 'utensils'),
    ('Housing', 'expense', '#7c3aed', 'home'),
    ('Transport', 'expense', '#2563eb', 'car'),
    ('Health', 'expense', '#dc2626', 'heart'),
    ('Entertainment', 'expense', '#db2777', 'film'),
    ('Utilities', 'expense', '#ca8a04', 'zap'),
    ('Other', 'expense', '#6b7280', 'tag')
) AS v(name, type, color, icon)
WHERE NOT EXISTS (SELECT 1 FROM categories WHERE user_id IS NULL);
`},
	{4, "recurring series", `
CREATE TABLE IF NOT EXISTS recurring_series (
    series_id   UUID PRIMARY KEY,
    user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    frequency   TEXT NOT NULL,
    anchor_date DATE NOT NULL,
    last_number INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

INSERT INTO recurring_series (series_id, user_id, frequency, anchor_date, last_number)
SELECT series_id, MIN(user_id), MIN(frequency), MIN(date), MAX(installment_number)
FROM transactions
WHERE is_recurring AND series_id IS NOT NULL
GROUP BY series_id
ON CONFLICT (series_id) DO NOTHING;
`},
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING`,
				m.version, m.name)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return nil
			}
			if _, err := tx.Exec(ctx, m.sql); err != nil {
				return err
			}
			applied++
			log.Printf("Применена миграция %d: %s", m.version, m.name)
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("ошибка миграции %d (%s): %w", m.version, m.name, err)
		}
	}
	return applied, nil
}
