// Package breaker builds the circuit breakers that guard upstream calls
// (Finnhub, Yahoo, Redis) and reports their state transitions.
package breaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
)

const openDelay = 30 * time.Second

// ErrOpen is returned by Run when the breaker rejects a call.
var ErrOpen = circuitbreaker.ErrOpen

// StateListener observes breaker transitions, typically to export metrics.
type StateListener func(name string, from, to circuitbreaker.State)

// New builds a breaker that opens at a 60% failure rate over at least five
// calls in a 10s window, waits 30s, and closes again after one success.
func New(name string, onChange StateListener) circuitbreaker.CircuitBreaker[any] {
	return circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(openDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			if onChange != nil {
				onChange(name, e.OldState, e.NewState)
			}
		}).
		Build()
}

// StateValue maps a state onto the gauge encoding closed=0, half-open=1, open=2.
func StateValue(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// Run executes fn under cb. Errors for which countable returns false (for
// example "not found" answers) are passed through but recorded as successes,
// since the upstream itself responded fine.
func Run[T any](cb circuitbreaker.CircuitBreaker[any], countable func(error) bool, fn func() (T, error)) (T, error) {
	var zero T
	if !cb.TryAcquirePermit() {
		return zero, fmt.Errorf("circuit breaker rejected call: %w", ErrOpen)
	}

	val, err := fn()
	if err != nil && (countable == nil || countable(err)) {
		cb.RecordError(err)
		return zero, err
	}
	cb.RecordSuccess()
	return val, err
}

// IsOpen reports whether err came from a rejecting breaker.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}
