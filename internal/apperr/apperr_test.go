package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedKindsMatch(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("%w: write export.csv: %w", ErrIO, cause)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDatabase)
	assert.Equal(t, "io error: write export.csv: disk full", err.Error())
}
