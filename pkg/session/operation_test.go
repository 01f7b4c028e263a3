package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationLifecycle(t *testing.T) {
	var op Operation

	state, err := op.Status()
	assert.Equal(t, Idle, state)
	assert.NoError(t, err)

	assert.NoError(t, op.Begin())
	assert.ErrorIs(t, op.Begin(), ErrBusy)

	op.Reset()
	state, _ = op.Status()
	assert.Equal(t, Pending, state, "reset leaves a pending operation alone")

	cause := errors.New("boom")
	op.Finish(cause)
	state, err = op.Status()
	assert.Equal(t, Failed, state)
	assert.Equal(t, cause, err)

	assert.NoError(t, op.Begin())
	op.Finish(nil)
	state, err = op.Status()
	assert.Equal(t, Succeeded, state)
	assert.NoError(t, err)

	op.Reset()
	state, _ = op.Status()
	assert.Equal(t, Idle, state)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
