// Package game provides the turn scheduler and the simulation state it drives.
package game

import "errors"

// ErrGameOver is returned by Step once the game has ended.
var ErrGameOver = errors.New("game: game is over")

// ErrSchedulerStalled is returned when the movement loop cannot hand
// control back to the player.
var ErrSchedulerStalled = errors.New("game: scheduler stalled")

// Status represents the current game state.
type Status int

const (
	// StatusRunning accepts commands.
	StatusRunning Status = iota
	// StatusGameOver rejects further commands with ErrGameOver.
	StatusGameOver
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome is how a step ended.
type Outcome int

const (
	// OutcomeContinue means the game goes on.
	OutcomeContinue Outcome = iota
	// OutcomeDied means the player died; Cause names what killed them.
	OutcomeDied
	// OutcomeEscaped means the player left the dungeon by the top stairs.
	OutcomeEscaped
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeDied:
		return "died"
	case OutcomeEscaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o != OutcomeContinue
}

// Result describes what happened during one Step.
type Result struct {
	Turn     int
	Outcome  Outcome
	Cause    string
	TookTime bool
	Messages []string
}
