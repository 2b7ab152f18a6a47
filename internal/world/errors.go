package world

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachableRoom is returned when a room stays disconnected after repair.
	ErrUnreachableRoom = errors.New("unreachable room")
	// ErrUndersizedLevel is returned when fewer than two rooms could be placed.
	ErrUndersizedLevel = errors.New("undersized level")
	// ErrUnknownSpecial is returned for a special level name with no map.
	ErrUnknownSpecial = errors.New("unknown special level")
)

// GenerationError reports a level that could not be built within the
// attempt budget.
type GenerationError struct {
	Attempts int
	Depth    int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("world: generation failed at depth %d after %d attempts: %v", e.Depth, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
