package postgres

import (
	"errors"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint-violation classes from the SQLSTATE listing.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// TranslateError maps known relational constraint violations to the
// user-facing taxonomy. Raw database text never reaches callers:
// recognized codes become specific sentences, any other database error
// becomes a generic PersistenceError. Non-database errors pass through
// unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return apperr.Conflict("A record with this information already exists")
	case codeForeignKeyViolation:
		return apperr.Validation("A referenced record does not exist")
	case codeNotNullViolation:
		return apperr.Validation("A required field is missing")
	case codeCheckViolation:
		return apperr.Validation("A field value is not allowed")
	default:
		return apperr.Persistence("A database error occurred", err)
	}
}
