package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the claim store can run into
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
	pgStringTooLong    = "22001"
	pgBadTextRepr      = "22P02"
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
	pgReadOnlyTx       = "25006"
)

var pgCodes = map[string]ErrorCode{
	pgUniqueViolation:  ErrorCodeDuplicateKey,
	pgNotNullViolation: ErrorCodeValidation,
	pgCheckViolation:   ErrorCodeValidation,
	pgStringTooLong:    ErrorCodeInvalidArgument,
	pgBadTextRepr:      ErrorCodeInvalidArgument,
	pgLockNotAvailable: ErrorCodeUnavailable,
	pgQueryCanceled:    ErrorCodeUnavailable,
	pgReadOnlyTx:       ErrorCodeUnavailable,
}

// PgError returns the *pgconn.PgError in err's chain
func PgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// PgCode maps a postgres error to an ErrorCode
// connection class 08 and operator intervention class 57 count as unavailable, other server errors as DB
// ok is false when err carries no PgError
func PgCode(err error) (ErrorCode, bool) {
	pe, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, ok := pgCodes[pe.Code]; ok {
		return c, true
	}
	switch {
	case strings.HasPrefix(pe.Code, "08"), strings.HasPrefix(pe.Code, "57"):
		return ErrorCodeUnavailable, true
	default:
		return ErrorCodeDB, true
	}
}

// IsDuplicateKey reports a unique violation anywhere in err's chain
func IsDuplicateKey(err error) bool {
	pe, ok := PgError(err)
	return ok && pe.Code == pgUniqueViolation
}

// IsLockTimeout reports that a statement gave up waiting for a lock
func IsLockTimeout(err error) bool {
	pe, ok := PgError(err)
	return ok && pe.Code == pgLockNotAvailable
}

// FromPostgres wraps err with the code PgCode picks, ErrorCodeDB for non postgres errors, nil for nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := PgCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresWithField is FromPostgres plus the offending column when postgres names one
// a constraint like ip_claims_content_hash_key yields content_hash
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	pe, ok := PgError(err)
	if !ok {
		return out
	}
	if col := strings.TrimSpace(pe.ColumnName); col != "" {
		return WithField(out, col)
	}
	if f := constraintField(pe.TableName, pe.ConstraintName); f != "" {
		return WithField(out, f)
	}
	return out
}

// constraintField strips the table prefix and the postgres suffix from a generated constraint name
func constraintField(table, constraint string) string {
	c := strings.TrimPrefix(strings.TrimSpace(constraint), table+"_")
	for _, suffix := range []string{"_key", "_check", "_not_null"} {
		if s, ok := strings.CutSuffix(c, suffix); ok {
			return s
		}
	}
	return ""
}
