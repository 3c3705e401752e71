package database

import (
	"strings"

	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/lib/pq"
)

// MapPQError converts a PostgreSQL error to an AppError.
// Returns nil if the error is not a pq.Error or has no useful mapping.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case "23514": // check_violation
		if strings.Contains(pqErr.Constraint, "key_not_empty") {
			return errors.Validation(map[string]string{"key": "must not be empty"})
		}
		return errors.BadRequest("data validation failed: " + pqErr.Constraint)
	case "23505": // unique_violation
		return errors.Conflict("a record with this key already exists")
	case "23502": // not_null_violation
		col := pqErr.Column
		if col == "" {
			col = "value"
		}
		return errors.Validation(map[string]string{col: "must not be empty"})
	case "22P02": // invalid_text_representation, malformed jsonb
		return errors.BadRequest("stored value is not valid JSON")
	default:
		return nil
	}
}
