package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconciler's failure taxonomy. Use errors.Is
// against these to classify a failure; wrap with fmt.Errorf("...: %w", ErrX)
// for context rather than introducing a bespoke error package.
var (
	// ErrInvariantViolation marks an internal consistency break (e.g. part
	// lengths don't sum to entire). The update is aborted and the previous
	// buffer is preserved.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrStaleState marks a pending state referencing keys absent from both
	// prev and pending maps.
	ErrStaleState = errors.New("stale state")

	// ErrPointMappingFailure marks a selection point that could not be
	// mapped to an absolute location. Selection reconcile is skipped but
	// text changes still commit.
	ErrPointMappingFailure = errors.New("point mapping failure")

	// ErrReadOnly marks a mutation attempted inside a read-only scope.
	ErrReadOnly = errors.New("read-only scope")

	// ErrCompositionProtocol marks a marked-text operation inconsistent
	// with the current composition state.
	ErrCompositionProtocol = errors.New("composition protocol error")

	// ErrReentrantUpdate marks a nested Update call on the same actor.
	ErrReentrantUpdate = errors.New("reentrant update")
)

// InvariantViolation wraps ErrInvariantViolation with the failing check's
// description.
func InvariantViolation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvariantViolation)
}

// StaleState wraps ErrStaleState with the offending key.
func StaleState(key NodeKey) error {
	return fmt.Errorf("key %q: %w", key, ErrStaleState)
}

// PointMappingFailure wraps ErrPointMappingFailure with the offending point.
func PointMappingFailure(p Point) error {
	return fmt.Errorf("point %+v: %w", p, ErrPointMappingFailure)
}
