package feature

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle indicates the dependency graph contains a cycle.
	ErrCycle = errors.New("feature dependency cycle")

	// ErrUnknownFeature indicates a query for a feature that was never registered.
	ErrUnknownFeature = errors.New("unknown feature")
)

// CycleError reports the dependency path that closes a cycle.
// The first and last entries of Path are the same feature.
type CycleError struct {
	Path []ID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(parts, " -> "))
}

// Is lets errors.Is match CycleError against ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// UnknownFeatureError is returned when a feature id is not part of the graph or manifest.
type UnknownFeatureError struct {
	ID ID
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownFeature, string(e.ID))
}

// Is lets errors.Is match UnknownFeatureError against ErrUnknownFeature.
func (e *UnknownFeatureError) Is(target error) bool {
	return target == ErrUnknownFeature
}
