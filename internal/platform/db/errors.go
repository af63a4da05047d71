package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"ITAM-backend/internal/platform/apperr"
)

const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

// MapError translates constraint violations into the domain taxonomy.
// Other errors are returned unchanged.
func MapError(err error, conflictMsg, invalidMsg string) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case errDupEntry:
		return apperr.Conflict(conflictMsg)
	case errNoReferencedRow:
		return apperr.Invalid(invalidMsg)
	case errRowIsReferenced:
		return apperr.Conflict("row is still referenced")
	}
	return err
}

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}
