package game

import "github.com/samdwyer/nhparity/internal/world"

// Display receives presentation events from the simulation. The core
// never reads anything back from it.
type Display interface {
	Message(text string)
	LevelChanged(level *world.Level)
	TurnEnded(c *Context)
	GameOver(result Result)
}

// nopDisplay discards everything.
type nopDisplay struct{}

func (nopDisplay) Message(string)            {}
func (nopDisplay) LevelChanged(*world.Level) {}
func (nopDisplay) TurnEnded(*Context)        {}
func (nopDisplay) GameOver(Result)           {}
