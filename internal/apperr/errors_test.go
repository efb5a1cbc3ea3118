package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	err := NotFound("car %d not found", 7)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "car 7 not found", err.Error())
}

func TestWrappedKindSurvives(t *testing.T) {
	err := fmt.Errorf("reserve: %w", Conflict("overlap"))
	assert.True(t, errors.Is(err, ErrConflict))
}
