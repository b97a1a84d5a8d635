package store

import (
	"context"
	"errors"
	"testing"

	"github.com/raf-alpha/api-go/apperr"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil, "unit", "1"))

	err := mapError(gorm.ErrRecordNotFound, "unit", "1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "unit 1: not found", err.Error())

	assert.ErrorIs(t, mapError(gorm.ErrDuplicatedKey, "user", "a@b.c"), apperr.ErrConflict)

	err = mapError(context.Canceled, "unit", "1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)

	boom := errors.New("boom")
	assert.ErrorIs(t, mapError(boom, "unit", "1"), boom)
}

func TestNotFoundIfNone(t *testing.T) {
	assert.ErrorIs(t, notFoundIfNone(&gorm.DB{}, "unit", "1"), apperr.ErrNotFound)
	assert.NoError(t, notFoundIfNone(&gorm.DB{RowsAffected: 1}, "unit", "1"))
	assert.ErrorIs(t, notFoundIfNone(&gorm.DB{Error: gorm.ErrDuplicatedKey}, "unit", "1"), apperr.ErrConflict)
}
