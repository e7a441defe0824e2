package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// maxCatchUp bounds how many occurrences of one series a single run inserts,
// so a long-idle daily series cannot produce an unbounded batch.
const maxCatchUp = 400

// RecurringSeries is the schedule of an open-ended series. It lives in its own
// table: deleting or editing rows of the series does not move the anchor or
// rewind LastNumber.
type RecurringSeries struct {
	SeriesID   string
	Frequency  models.Frequency
	Anchor     models.Date
	LastNumber int
}

func createRecurringSeries(ctx context.Context, tx pgx.Tx, first *models.Transaction, count int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO recurring_series (series_id, user_id, frequency, anchor_date, last_number)
		VALUES ($1, $2, $3, $4, $5)`,
		first.SeriesID, first.UserID, first.Frequency, first.Date, count)
	return err
}

// MaterializeRecurring добавляет очередные части повторяющихся серий, дата
// которых уже наступила (не позже today). Шаблоном служит последняя
// сохранившаяся строка серии. Возвращает число новых строк.
func (s *Store) MaterializeRecurring(ctx context.Context, today models.Date) (int, error) {
	query := `
		SELECT DISTINCT ON (r.series_id) r.series_id::text, r.frequency, r.anchor_date, r.last_number,
			t.id, t.user_id, t.category_id, t.amount, t.date, t.description, t.type, t.frequency,
			t.installment_number, t.installment_total, t.series_id, t.is_recurring, t.created_at, t.updated_at
		FROM recurring_series r
		JOIN transactions t ON t.series_id = r.series_id
		ORDER BY r.series_id, t.installment_number DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return 0, wrap("ошибка выборки повторяющихся серий", err)
	}

	type pending struct {
		series   RecurringSeries
		template models.Transaction
	}
	var all []pending
	for rows.Next() {
		var p pending
		r, t := &p.series, &p.template
		err := rows.Scan(
			&r.SeriesID, &r.Frequency, &r.Anchor, &r.LastNumber,
			&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Date, &t.Description, &t.Type, &t.Frequency,
			&t.InstallmentNumber, &t.InstallmentTotal, &t.SeriesID, &t.IsRecurring, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			rows.Close()
			return 0, wrap("ошибка чтения серии", err)
		}
		all = append(all, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, wrap("ошибка выборки повторяющихся серий", err)
	}

	inserted := 0
	for _, p := range all {
		next := PendingOccurrences(p.series, p.template, today)
		if len(next) == 0 {
			continue
		}
		added := 0
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			added = 0
			for i := range next {
				tag, err := tx.Exec(ctx, `
					INSERT INTO transactions (user_id, category_id, amount, date, description, type, frequency,
						installment_number, installment_total, series_id, is_recurring)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
					ON CONFLICT (series_id, installment_number) DO NOTHING`, insertArgs(&next[i])...)
				if err != nil {
					return err
				}
				added += int(tag.RowsAffected())
			}
			_, err := tx.Exec(ctx,
				`UPDATE recurring_series SET last_number = GREATEST(last_number, $2) WHERE series_id::text = $1`,
				p.series.SeriesID, next[len(next)-1].InstallmentNumber)
			return err
		})
		if err != nil {
			return inserted, fmt.Errorf("ошибка добавления повторов серии %s: %w", p.series.SeriesID, err)
		}
		inserted += added
		log.Printf("Серия %s: добавлено повторов %d", p.series.SeriesID, added)
	}
	return inserted, nil
}

// PendingOccurrences returns the rows that continue series after its last
// generated part, up to and including today. Dates are computed from the
// series anchor; amount, category and description come from template, the
// newest surviving row. A template that is no longer recurring stops the series.
func PendingOccurrences(series RecurringSeries, template models.Transaction, today models.Date) []models.Transaction {
	if !template.IsRecurring || series.Frequency == models.FrequencyOnce || !series.Frequency.Valid() {
		return nil
	}
	sid := series.SeriesID
	var out []models.Transaction
	for n := series.LastNumber; len(out) < maxCatchUp; n++ {
		date := series.Frequency.Occurrence(series.Anchor, n)
		if date.After(today) {
			break
		}
		t := template
		t.ID = 0
		t.Date = date
		t.Frequency = series.Frequency
		t.InstallmentNumber = n + 1
		t.InstallmentTotal = 0
		t.SeriesID = &sid
		out = append(out, t)
	}
	return out
}
