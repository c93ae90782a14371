package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStatDefinition is returned when a registry lookup misses.
	ErrUnknownStatDefinition = errors.New("unknown stat definition")

	// ErrInvalidDefinition is returned when a definition fails validation at load time.
	ErrInvalidDefinition = errors.New("invalid stat definition")

	// ErrKeyCollision is returned when caller-supplied extra keys shadow a computed stat.
	ErrKeyCollision = errors.New("extra key collides with computed stat")

	// ErrNonNumericField is returned when a summed field holds a non-numeric value.
	ErrNonNumericField = errors.New("non-numeric stat field")

	// ErrUngroupableKey is returned when a group key value cannot partition records.
	ErrUngroupableKey = errors.New("ungroupable key value")
)

// UnknownDefinitionError names the definition that was requested.
type UnknownDefinitionError struct {
	Name string
}

func (e *UnknownDefinitionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownStatDefinition, e.Name)
}

func (e *UnknownDefinitionError) Is(target error) bool {
	return target == ErrUnknownStatDefinition
}
