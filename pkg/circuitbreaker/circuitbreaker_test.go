package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failed")

func failingCall() error { return errDownstream }
func okCall() error      { return nil }

func TestExecute_PassesThroughWhenClosed(t *testing.T) {
	cb := New(DefaultConfig())

	require.NoError(t, cb.Execute(okCall))
	assert.Equal(t, StateClosed, cb.GetState())

	err := cb.Execute(failingCall)
	assert.ErrorIs(t, err, errDownstream)
	assert.Equal(t, StateClosed, cb.GetState(), "one failure must not trip the breaker")
}

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailureThreshold = 3
	cb := New(cfg)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failingCall), errDownstream)
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// Calls are rejected without reaching the downstream.
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestExecute_SuccessResetsFailureCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailureThreshold = 3
	cb := New(cfg)

	assert.Error(t, cb.Execute(failingCall))
	assert.Error(t, cb.Execute(failingCall))
	require.NoError(t, cb.Execute(okCall))
	assert.Error(t, cb.Execute(failingCall))
	assert.Error(t, cb.Execute(failingCall))

	assert.Equal(t, StateClosed, cb.GetState())
}

func TestExecute_RecoversThroughHalfOpen(t *testing.T) {
	cfg := Config{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 3,
	}
	cb := New(cfg)

	assert.Error(t, cb.Execute(failingCall))
	assert.Equal(t, StateOpen, cb.GetState())

	time.Sleep(15 * time.Millisecond)

	require.NoError(t, cb.Execute(okCall))
	assert.Equal(t, StateHalfOpen, cb.GetState())
	require.NoError(t, cb.Execute(okCall))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestExecute_FailedProbeReopens(t *testing.T) {
	cfg := Config{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 3,
	}
	cb := New(cfg)

	assert.Error(t, cb.Execute(failingCall))
	time.Sleep(15 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(failingCall), errDownstream)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailureThreshold = 1
	cb := New(cfg)

	assert.Error(t, cb.Execute(failingCall))
	assert.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(okCall))
}
