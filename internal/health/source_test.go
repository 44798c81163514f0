package health

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := &QueryError{Reason: "running query", Err: cause}

	assert.Equal(t, "failed to fetch workouts: running query: disk I/O error", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsQueryFailed(err))
	assert.True(t, IsQueryFailed(fmt.Errorf("load: %w", err)))

	assert.Equal(t, "failed to fetch workouts: store offline", (&QueryError{Reason: "store offline"}).Error())
}

func TestIsQueryFailed_OtherErrors(t *testing.T) {
	assert.False(t, IsQueryFailed(nil))
	assert.False(t, IsQueryFailed(ErrAuthorizationDenied))
	assert.False(t, IsQueryFailed(errors.New("other")))
}
