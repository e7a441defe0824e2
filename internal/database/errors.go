package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidValue is a value the schema rejects: a failed CHECK, a missing
	// required column or a number that does not fit its column.
	ErrInvalidValue = errors.New("value violates a column constraint")
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeNumericOutOfRange   = "22003"
)

// wrap annotates err with op and maps driver errors onto the package sentinels
// so callers can branch with errors.Is.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrConflict)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrInvalidReference)
		case codeCheckViolation, codeNotNullViolation, codeNumericOutOfRange:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ColumnName, ErrInvalidValue)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
