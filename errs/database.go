package errs

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// gormErrors are the ORM sentinels that are not mapped to a specific client error.
var gormErrors = []error{
	gorm.ErrInvalidTransaction,
	gorm.ErrNotImplemented,
	gorm.ErrMissingWhereClause,
	gorm.ErrUnsupportedRelation,
	gorm.ErrPrimaryKeyRequired,
	gorm.ErrModelValueRequired,
	gorm.ErrInvalidData,
	gorm.ErrUnsupportedDriver,
	gorm.ErrRegistered,
	gorm.ErrInvalidField,
	gorm.ErrEmptySlice,
	gorm.ErrDryRunModeUnsupported,
	gorm.ErrInvalidDB,
	gorm.ErrInvalidValue,
	gorm.ErrInvalidValueOfLength,
	gorm.ErrPreloadNotAllowed,
}

// fromDatabase maps storage-layer failures to the public error contract.
// The second return value is false when err did not come from the ORM or the driver.
func fromDatabase(err error) (*ApiErr, bool) {
	var pgErr *pgconn.PgError
	isPg := errors.As(err, &pgErr)

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isPg && pgErr.Code == uniqueViolationCode:
		e := NewConflictError("a record with the same unique value already exists")
		e.Cause = err
		if isPg && pgErr.ConstraintName != "" {
			e.Details = map[string]string{"constraint": pgErr.ConstraintName}
		}
		return e, true
	case errors.Is(err, gorm.ErrForeignKeyViolated), isPg && pgErr.Code == foreignKeyViolationCode:
		e := NewBadRequestError("referenced record does not exist")
		e.Cause = err
		return e, true
	case errors.Is(err, gorm.ErrRecordNotFound):
		e := NewNotFoundError("record not found")
		e.Cause = err
		return e, true
	case isPg:
		return NewInternalErrorWithCause("database error", err), true
	}

	for _, sentinel := range gormErrors {
		if errors.Is(err, sentinel) {
			return NewInternalErrorWithCause("database error", err), true
		}
	}
	return nil, false
}
