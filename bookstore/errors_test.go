package bookstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	driverErr := errors.New("disk I/O error")

	tests := []struct {
		name     string
		err      error
		want     Kind
		business bool
	}{
		{"nil", nil, KindNone, false},
		{"date", ErrInvalidDateFormat, KindInvalidDateFormat, true},
		{"wrapped not found", fmt.Errorf("%w: sale 9", ErrNotFound), KindNotFound, true},
		{"stock", &InsufficientStockError{BookID: "B001", Stock: 1, Requested: 2}, KindInsufficientStock, true},
		{"write", writeErr("insert sale", driverErr), KindStorageWriteFailure, false},
		{"read", storageErr("get book", driverErr), KindStorageError, false},
		{"foreign", driverErr, KindStorageError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.Equal(t, tt.business, IsBusinessError(tt.err))
		})
	}
}

func TestStorageErrorsKeepCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := writeErr("commit sale", cause)

	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "StorageWriteFailure", KindOf(err).String())
}
