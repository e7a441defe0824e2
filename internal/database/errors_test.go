package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{pgx.ErrNoRows, ErrNotFound},
		{&pgconn.PgError{Code: codeUniqueViolation}, ErrConflict},
		{fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeForeignKeyViolation}), ErrInvalidReference},
		{&pgconn.PgError{Code: codeCheckViolation, ColumnName: "amount"}, ErrInvalidValue},
		{&pgconn.PgError{Code: codeNotNullViolation, ColumnName: "start_date"}, ErrInvalidValue},
		{&pgconn.PgError{Code: codeNumericOutOfRange}, ErrInvalidValue},
	}
	for _, tt := range tests {
		if got := wrap("операция", tt.err); !errors.Is(got, tt.want) {
			t.Errorf("wrap(%v) = %v, хотели %v", tt.err, got, tt.want)
		}
	}

	other := errors.New("connection reset")
	got := wrap("операция", other)
	if !errors.Is(got, other) || errors.Is(got, ErrInvalidValue) {
		t.Errorf("wrap(%v) = %v", other, got)
	}
	if wrap("операция", nil) != nil {
		t.Error("wrap(nil) != nil")
	}
}
