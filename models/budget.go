package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Budget caps spending over a date range, either for one category or, with a
// nil CategoryID, for all expenses. Spent and Remaining are computed on read.
type Budget struct {
	ID         int             `json:"id" db:"id"`
	UserID     int             `json:"user_id" db:"user_id"`
	CategoryID *int            `json:"category_id" db:"category_id"`
	Name       string          `json:"name" db:"name"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	StartDate  Date            `json:"start_date" db:"start_date"`
	EndDate    Date            `json:"end_date" db:"end_date"`
	Spent      decimal.Decimal `json:"spent" db:"-"`
	Remaining  decimal.Decimal `json:"remaining" db:"-"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Overspent reports whether spending in the range exceeds the budget amount.
func (b *Budget) Overspent() bool {
	return b.Spent.GreaterThan(b.Amount)
}

type BudgetInput struct {
	CategoryID *int             `json:"category_id"`
	Name       *string          `json:"name"`
	Amount     *decimal.Decimal `json:"amount"`
	StartDate  *Date            `json:"start_date"`
	EndDate    *Date            `json:"end_date"`
}

func (in *BudgetInput) validateFields() error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return required("name")
		}
		if utf8.RuneCountInString(name) > 100 {
			return invalid("name", "must be at most 100 characters")
		}
	}
	if in.Amount != nil {
		if err := validateAmount("amount", *in.Amount); err != nil {
			return err
		}
	}
	if in.CategoryID != nil && *in.CategoryID < 0 {
		return invalid("category_id", "must be positive")
	}
	if in.StartDate != nil && in.StartDate.IsZero() {
		return required("start_date")
	}
	if in.EndDate != nil && in.EndDate.IsZero() {
		return required("end_date")
	}
	return nil
}

func (in *BudgetInput) ValidateCreate() error {
	switch {
	case in.Name == nil:
		return required("name")
	case in.Amount == nil:
		return required("amount")
	case in.StartDate == nil || in.StartDate.IsZero():
		return required("start_date")
	case in.EndDate == nil || in.EndDate.IsZero():
		return required("end_date")
	}
	if err := in.validateFields(); err != nil {
		return err
	}
	if in.EndDate.Before(*in.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	return nil
}

func (in *BudgetInput) ValidateUpdate() error {
	return in.validateFields()
}

func (in *BudgetInput) NewBudget(userID int) Budget {
	b := Budget{UserID: userID}
	in.Apply(&b)
	return b
}

// Apply copies the non-nil fields onto b and re-checks the date range, which
// may only become invalid once merged with the stored row.
func (in *BudgetInput) Apply(b *Budget) error {
	if in.CategoryID != nil {
		b.CategoryID = nonZero(in.CategoryID)
	}
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Amount != nil {
		b.Amount = *in.Amount
	}
	if in.StartDate != nil {
		b.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		b.EndDate = *in.EndDate
	}
	if b.EndDate.Before(b.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	return nil
}
