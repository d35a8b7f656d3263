package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New[struct{}](Config{Name: "smtp", ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)
	boom := errors.New("boom")
	fail := func() (struct{}, error) { return struct{}{}, boom }

	_, err := cb.Execute(fail)
	assert.ErrorIs(t, err, boom)
	_, err = cb.Execute(fail)
	assert.ErrorIs(t, err, boom)

	called := false
	_, err = cb.Execute(func() (struct{}, error) {
		called = true
		return struct{}{}, nil
	})
	assert.True(t, IsOpen(err))
	assert.False(t, called)
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := New[int](DefaultConfig("ok"), nil)

	v, err := cb.Execute(func() (int, error) { return 42, nil })
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.False(t, IsOpen(err))
}
