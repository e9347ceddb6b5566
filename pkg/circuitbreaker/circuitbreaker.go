package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State of the breaker.
type State int

const (
	StateClosed   State = iota // normal operation, calls pass through
	StateOpen                  // tripped, calls rejected immediately
	StateHalfOpen              // probing, a limited number of calls pass
)

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker open.
	FailureThreshold int
	// SuccessThreshold is the number of successes in half-open state that
	// closes the breaker again.
	SuccessThreshold int
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// HalfOpenMaxCalls caps concurrent probe calls in half-open state.
	HalfOpenMaxCalls int
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// CircuitBreaker protects a downstream dependency from being hammered while
// it is failing.
type CircuitBreaker struct {
	config Config

	state         State
	failureCount  int
	successCount  int
	halfOpenCalls int
	lastStateTime time.Time

	mu sync.RWMutex
}

func New(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config:        config,
		state:         StateClosed,
		lastStateTime: time.Now(),
	}
}

// Execute runs fn under breaker protection. When the breaker is open the
// call is rejected with ErrOpen without invoking fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()

	cb.transition()

	switch cb.state {
	case StateOpen:
		cb.mu.Unlock()
		return ErrOpen
	case StateHalfOpen:
		if cb.halfOpenCalls >= cb.config.HalfOpenMaxCalls {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.halfOpenCalls++
	}

	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}

	return err
}

func (cb *CircuitBreaker) transition() {
	now := time.Now()

	switch cb.state {
	case StateOpen:
		if now.Sub(cb.lastStateTime) >= cb.config.Timeout {
			cb.state = StateHalfOpen
			cb.halfOpenCalls = 0
			cb.successCount = 0
			cb.lastStateTime = now
		}
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.lastStateTime = now
		}
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++

	// A failed probe reopens immediately.
	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.halfOpenCalls = 0
		cb.lastStateTime = time.Now()
	} else if cb.state == StateClosed && cb.failureCount >= cb.config.FailureThreshold {
		cb.state = StateOpen
		cb.lastStateTime = time.Now()
	}
}

func (cb *CircuitBreaker) onSuccess() {
	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.halfOpenCalls > 0 {
			cb.halfOpenCalls--
		}
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.lastStateTime = time.Now()
		}
	} else {
		cb.failureCount = 0
	}
}

// GetState returns the current state.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset forces the breaker back to closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenCalls = 0
	cb.lastStateTime = time.Now()
}
