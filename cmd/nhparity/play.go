package main

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/game"
	"github.com/samdwyer/nhparity/internal/ui"
)

var playSeed uint64

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the built-in engine in the terminal",
	Long: `Play a game from --seed interactively. Movement uses the vi keys
(h j k l y u b n) or the arrow keys; s searches, . waits, < and > take
stairs. q or Esc quits.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Uint64Var(&playSeed, "seed", 42, "Game seed")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	screen, err := ui.NewScreen()
	if err != nil {
		return faultError(err)
	}
	defer screen.Close()

	renderer := ui.NewRenderer(screen)
	ctx := cmd.Context()
	c, err := game.New(ctx, gameConfig(playSeed, false), renderer)
	if err != nil {
		return faultError(err)
	}
	renderer.Render(c)

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if quitKey(ev) {
				return nil
			}
			if renderer.Over() {
				// Any key leaves the final screen.
				return nil
			}
			command, ok := keyCommand(ev)
			if !ok {
				continue
			}
			if err := step(ctx, c, command); err != nil {
				return faultError(err)
			}
		case *tcell.EventResize:
			screen.Sync()
			renderer.Render(c)
		case nil:
			// Screen finalized.
			return nil
		}
	}
}

func step(ctx context.Context, c *game.Context, command entity.Command) error {
	res, err := c.Step(ctx, command)
	if err != nil && !errors.Is(err, game.ErrGameOver) {
		return err
	}
	app.log.Debug("turn", "command", command.String(), "turn", res.Turn, "outcome", res.Outcome.String())
	return nil
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

var arrowKeys = map[tcell.Key]entity.Direction{
	tcell.KeyUp:    entity.North,
	tcell.KeyDown:  entity.South,
	tcell.KeyLeft:  entity.West,
	tcell.KeyRight: entity.East,
}

// keyCommand maps a key press to a game command.
func keyCommand(ev *tcell.EventKey) (entity.Command, bool) {
	if d, ok := arrowKeys[ev.Key()]; ok {
		return entity.MoveDir(d), true
	}
	if ev.Key() != tcell.KeyRune {
		return entity.Command{}, false
	}
	command, err := entity.ParseCommand(string(ev.Rune()))
	if err != nil {
		return entity.Command{}, false
	}
	return command, true
}
