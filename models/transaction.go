package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Frequency is the spacing between the parts of an installment or recurring series.
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

const MaxInstallments = 120

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Occurrence returns the date of the n-th part of a series anchored at start
// (n = 0 is start itself). Monthly and yearly steps are computed from the
// anchor and clamped to the end of the month, so a series started on Jan 31
// continues Feb 28/29, Mar 31, Apr 30.
func (f Frequency) Occurrence(start Date, n int) Date {
	switch f {
	case FrequencyDaily:
		return Date{start.AddDate(0, 0, n)}
	case FrequencyWeekly:
		return Date{start.AddDate(0, 0, 7*n)}
	case FrequencyMonthly:
		return addMonthsClamped(start, n)
	case FrequencyYearly:
		return addMonthsClamped(start, 12*n)
	}
	return start
}

func addMonthsClamped(d Date, months int) Date {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

type Transaction struct {
	ID                int             `json:"id" db:"id"`
	UserID            int             `json:"user_id" db:"user_id"`
	CategoryID        *int            `json:"category_id" db:"category_id"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	Date              Date            `json:"date" db:"date"`
	Description       string          `json:"description" db:"description"`
	Type              TransactionType `json:"type" db:"type"`
	Frequency         Frequency       `json:"frequency" db:"frequency"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	InstallmentTotal  int             `json:"installment_total" db:"installment_total"`
	SeriesID          *string         `json:"series_id,omitempty" db:"series_id"`
	IsRecurring       bool            `json:"is_recurring" db:"is_recurring"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// TransactionInput is the body of create and update requests. Absent fields
// are nil; on update only non-nil fields are written.
type TransactionInput struct {
	CategoryID   *int             `json:"category_id"`
	Amount       *decimal.Decimal `json:"amount"`
	Date         *Date            `json:"date"`
	Description  *string          `json:"description"`
	Type         *TransactionType `json:"type"`
	Frequency    *Frequency       `json:"frequency"`
	Installments *int             `json:"installments"`
	IsRecurring  *bool            `json:"is_recurring"`
}

// MaxAmount is the largest value a NUMERIC(14,2) column holds.
var MaxAmount = decimal.RequireFromString("999999999999.99")

func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	if amount.GreaterThan(MaxAmount) {
		return invalid(field, "must not exceed %s", MaxAmount)
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return invalid(field, "must have at most two decimal places")
	}
	return nil
}

func (in *TransactionInput) validateFields() error {
	if in.Amount != nil {
		if err := validateAmount("amount", *in.Amount); err != nil {
			return err
		}
	}
	if in.Type != nil && !in.Type.Valid() {
		return invalid("type", "must be income or expense")
	}
	if in.Frequency != nil && !in.Frequency.Valid() {
		return invalid("frequency", "must be one of once, daily, weekly, monthly, yearly")
	}
	if in.Installments != nil && (*in.Installments < 1 || *in.Installments > MaxInstallments) {
		return invalid("installments", "must be between 1 and %d", MaxInstallments)
	}
	if in.Date != nil && in.Date.IsZero() {
		return required("date")
	}
	if in.CategoryID != nil && *in.CategoryID < 0 {
		return invalid("category_id", "must be positive")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > 500 {
		return invalid("description", "must be at most 500 characters")
	}
	return nil
}

func (in *TransactionInput) ValidateCreate() error {
	switch {
	case in.Amount == nil:
		return required("amount")
	case in.Date == nil:
		return required("date")
	case in.Type == nil:
		return required("type")
	}
	if err := in.validateFields(); err != nil {
		return err
	}
	if in.Installments != nil && *in.Installments > 1 && (in.Frequency == nil || *in.Frequency == FrequencyOnce) {
		return invalid("frequency", "is required when installments is greater than one")
	}
	if in.IsRecurring != nil && *in.IsRecurring {
		if in.Frequency == nil || *in.Frequency == FrequencyOnce {
			return invalid("frequency", "is required for recurring transactions")
		}
		if in.Installments != nil && *in.Installments > 1 {
			return invalid("installments", "cannot be combined with is_recurring")
		}
	}
	return nil
}

func (in *TransactionInput) ValidateUpdate() error {
	if in.Installments != nil {
		return invalid("installments", "cannot be changed after creation")
	}
	return in.validateFields()
}

// NewTransactions expands a validated create request into the rows of its
// series: a single row, or one row per installment spaced by the frequency.
// Rows of a multi-part series share seriesID. A recurring series starts with
// one row and an InstallmentTotal of 0; later parts are added as they fall due.
func (in *TransactionInput) NewTransactions(userID int, seriesID string) []Transaction {
	base := Transaction{
		UserID:           userID,
		CategoryID:       nonZero(in.CategoryID),
		Amount:           *in.Amount,
		Date:             *in.Date,
		Type:             *in.Type,
		Frequency:        FrequencyOnce,
		InstallmentTotal: 1,
	}
	if in.Description != nil {
		base.Description = strings.TrimSpace(*in.Description)
	}
	if in.Frequency != nil {
		base.Frequency = *in.Frequency
	}
	if in.IsRecurring != nil {
		base.IsRecurring = *in.IsRecurring
	}
	total := 1
	if in.Installments != nil {
		total = *in.Installments
	}
	base.InstallmentTotal = total
	base.InstallmentNumber = 1

	if base.IsRecurring {
		sid := seriesID
		base.InstallmentTotal = 0
		base.SeriesID = &sid
		return []Transaction{base}
	}
	if total == 1 {
		return []Transaction{base}
	}

	sid := seriesID
	rows := make([]Transaction, 0, total)
	for i := 0; i < total; i++ {
		t := base
		t.InstallmentNumber = i + 1
		t.Date = base.Frequency.Occurrence(base.Date, i)
		t.SeriesID = &sid
		rows = append(rows, t)
	}
	return rows
}

// Apply copies the non-nil fields of an update request onto t.
func (in *TransactionInput) Apply(t *Transaction) {
	if in.CategoryID != nil {
		t.CategoryID = nonZero(in.CategoryID)
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Date != nil {
		t.Date = *in.Date
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Frequency != nil {
		t.Frequency = *in.Frequency
	}
	if in.IsRecurring != nil {
		t.IsRecurring = *in.IsRecurring
	}
}

// Validate checks a row after an update has been merged into it. Only rows of
// an open-ended series can be recurring.
func (t *Transaction) Validate() error {
	if !t.IsRecurring {
		return nil
	}
	if t.SeriesID == nil || t.InstallmentTotal != 0 {
		return invalid("is_recurring", "can only be set on recurring series")
	}
	if t.Frequency == FrequencyOnce {
		return invalid("frequency", "is required for recurring transactions")
	}
	return nil
}

// nonZero maps an explicit 0 to nil so clients can clear a reference.
func nonZero(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	Type       TransactionType
	CategoryID int
	From       *Date
	To         *Date
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string
	SeriesID   string
	Sort       string
	Limit      int
	Offset     int
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

func (f *TransactionFilter) Normalize() error {
	if f.Type != "" && !f.Type.Valid() {
		return invalid("type", "must be income or expense")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return invalid("to", "must not be before from")
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MaxAmount.LessThan(*f.MinAmount) {
		return invalid("max_amount", "must not be less than min_amount")
	}
	switch strings.ToLower(f.Sort) {
	case "", "desc":
		f.Sort = "desc"
	case "asc":
		f.Sort = "asc"
	default:
		return invalid("sort", "must be asc or desc")
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return nil
}

// BatchDeleteRequest is the body of the batch-delete endpoints.
type BatchDeleteRequest struct {
	IDs []int `json:"ids"`
}

const MaxBatchSize = 1000

func (r *BatchDeleteRequest) Validate() error {
	if len(r.IDs) == 0 {
		return required("ids")
	}
	if len(r.IDs) > MaxBatchSize {
		return invalid("ids", "must contain at most %d ids", MaxBatchSize)
	}
	for _, id := range r.IDs {
		if id <= 0 {
			return invalid("ids", "must contain positive ids")
		}
	}
	return nil
}
