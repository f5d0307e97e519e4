package github

import (
	"fmt"
	"sync"
	"time"

	"github.com/ghdash/internal/constants"
)

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation, requests pass through
	StateOpen     CircuitState = "open"      // Circuit is open, requests fail fast
	StateHalfOpen CircuitState = "half-open" // Testing if GitHub recovered
)

// CircuitBreaker tracks upstream health per endpoint group (repos, search, issues, pulls)
type CircuitBreaker struct {
	mu                sync.Mutex
	circuits          map[string]*Circuit
	threshold         int           // Number of failures before opening circuit
	timeout           time.Duration // How long to wait before attempting half-open
	halfOpenSuccesses int           // Number of successes needed to close circuit in half-open state
	now               func() time.Time
}

// Circuit represents a single circuit breaker for an endpoint group
type Circuit struct {
	state             CircuitState
	failures          int
	successes         int
	lastFailureTime   time.Time
	lastStateChange   time.Time
	halfOpenSuccesses int
}

// NewCircuitBreaker creates a new circuit breaker manager
func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{
		circuits:          make(map[string]*Circuit),
		threshold:         constants.CircuitBreakerFailureThreshold,
		timeout:           constants.CircuitBreakerOpenTimeout,
		halfOpenSuccesses: constants.CircuitBreakerHalfOpenSuccesses,
		now:               time.Now,
	}
}

// IsOpen checks if the circuit is open for a given key.
// An open circuit past its timeout moves to half-open and lets the request through.
func (cb *CircuitBreaker) IsOpen(key string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit, exists := cb.circuits[key]
	if !exists {
		return false
	}

	if circuit.state == StateOpen {
		if cb.now().Sub(circuit.lastStateChange) > cb.timeout {
			circuit.state = StateHalfOpen
			circuit.halfOpenSuccesses = 0
			circuit.lastStateChange = cb.now()
			return false
		}
		return true
	}

	return false
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit, exists := cb.circuits[key]
	if !exists {
		return
	}

	circuit.successes++
	circuit.failures = 0

	switch circuit.state {
	case StateHalfOpen:
		circuit.halfOpenSuccesses++
		if circuit.halfOpenSuccesses >= cb.halfOpenSuccesses {
			circuit.state = StateClosed
			circuit.lastStateChange = cb.now()
			circuit.halfOpenSuccesses = 0
		}
	case StateOpen:
		circuit.state = StateClosed
		circuit.lastStateChange = cb.now()
	}
}

// RecordFailure records a failed request
func (cb *CircuitBreaker) RecordFailure(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit, exists := cb.circuits[key]
	if !exists {
		circuit = &Circuit{
			state:           StateClosed,
			lastStateChange: cb.now(),
		}
		cb.circuits[key] = circuit
	}

	circuit.failures++
	circuit.lastFailureTime = cb.now()

	switch circuit.state {
	case StateClosed:
		if circuit.failures >= cb.threshold {
			circuit.state = StateOpen
			circuit.lastStateChange = cb.now()
		}
	case StateHalfOpen:
		// Failure in half-open state, go back to open
		circuit.state = StateOpen
		circuit.lastStateChange = cb.now()
		circuit.halfOpenSuccesses = 0
	}
}

// GetStats returns statistics for a circuit
func (cb *CircuitBreaker) GetStats(key string) CircuitStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	circuit, exists := cb.circuits[key]
	if !exists {
		return CircuitStats{State: StateClosed}
	}

	return CircuitStats{
		State:           circuit.state,
		Failures:        circuit.failures,
		Successes:       circuit.successes,
		LastFailure:     circuit.lastFailureTime,
		LastStateChange: circuit.lastStateChange,
	}
}

// Reset forgets a circuit
func (cb *CircuitBreaker) Reset(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.circuits, key)
}

// CircuitStats holds statistics about a circuit
type CircuitStats struct {
	State           CircuitState
	Failures        int
	Successes       int
	LastFailure     time.Time
	LastStateChange time.Time
}

// CircuitOpenError is returned when a circuit is open
type CircuitOpenError struct {
	Key   string
	Stats CircuitStats
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open for %s (failures: %d, state: %s)",
		e.Key, e.Stats.Failures, e.Stats.State)
}
