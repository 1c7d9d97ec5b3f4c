package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// PostgreSQL SQLSTATE codes we react to.
const (
	pqExclusionViolation   = pq.ErrorCode("23P01")
	pqUniqueViolation      = pq.ErrorCode("23505")
	pqForeignKeyViolation  = pq.ErrorCode("23503")
	pqSerializationFailure = pq.ErrorCode("40001")
	pqDeadlockDetected     = pq.ErrorCode("40P01")
)

func asSQLite(err error) (sqlite3.Error, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr, true
	}
	return sqliteErr, false
}

func asPQ(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// isOverlapViolation reports the sqlite trigger abort or the postgres exclusion constraint.
func isOverlapViolation(err error) bool {
	if e, ok := asSQLite(err); ok {
		return e.Code == sqlite3.ErrConstraint && strings.Contains(e.Error(), overlapGuardMessage)
	}
	if e, ok := asPQ(err); ok {
		return e.Code == pqExclusionViolation
	}
	return false
}

func isUniqueViolation(err error) bool {
	if e, ok := asSQLite(err); ok {
		return e.ExtendedCode == sqlite3.ErrConstraintUnique || e.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	if e, ok := asPQ(err); ok {
		return e.Code == pqUniqueViolation
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if e, ok := asSQLite(err); ok {
		return e.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	if e, ok := asPQ(err); ok {
		return e.Code == pqForeignKeyViolation
	}
	return false
}

// isRetryable marks errors caused by a concurrent writer; the whole
// transaction can be replayed safely.
func isRetryable(err error) bool {
	if e, ok := asSQLite(err); ok {
		return e.Code == sqlite3.ErrBusy || e.Code == sqlite3.ErrLocked
	}
	if e, ok := asPQ(err); ok {
		return e.Code == pqSerializationFailure || e.Code == pqDeadlockDetected
	}
	return false
}
