package manifest

import (
	"errors"
	"fmt"

	"feature-manifest/core/feature"
)

var (
	// ErrMissingRule indicates a feature has no availability rule.
	ErrMissingRule = errors.New("feature has no availability rule")

	// ErrOrderingInvariant indicates a dependency was not resolved before its dependent.
	ErrOrderingInvariant = errors.New("dependency resolved out of order")

	// ErrNotFound indicates an archived manifest does not exist.
	ErrNotFound = errors.New("manifest not found")
)

// MissingRuleError is returned by Resolve under PolicyFail when a feature has no rule.
type MissingRuleError struct {
	ID feature.ID
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingRule, string(e.ID))
}

func (e *MissingRuleError) Is(target error) bool {
	return target == ErrMissingRule
}

// OrderingInvariantError means a dependency had not been resolved when its
// dependent was evaluated. It always indicates a bug in the ordering.
type OrderingInvariantError struct {
	Feature    feature.ID
	Dependency feature.ID
}

func (e *OrderingInvariantError) Error() string {
	return fmt.Sprintf("%s: %q evaluated before its dependency %q", ErrOrderingInvariant, string(e.Feature), string(e.Dependency))
}

func (e *OrderingInvariantError) Is(target error) bool {
	return target == ErrOrderingInvariant
}
