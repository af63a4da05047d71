package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"ITAM-backend/internal/platform/apperr"
)

func TestMapError(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	other := errors.New("timeout")

	assert.True(t, apperr.Is(MapError(dup, "serial exists", "bad ref"), apperr.CodeConflict))
	assert.True(t, apperr.Is(MapError(fk, "serial exists", "bad ref"), apperr.CodeInvalidArgument))
	assert.Same(t, other, MapError(other, "x", "y"))
	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(other))
}
