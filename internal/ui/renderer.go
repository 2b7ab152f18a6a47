package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/game"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/world"
)

// Screen rows: messages on top, the map below it, then two status lines.
const (
	messageRow = 0
	mapTop     = 1
	statusRow  = mapTop + world.ROWNO
)

// Renderer draws the game to the screen. It implements game.Display.
type Renderer struct {
	screen   *Screen
	messages []string
	over     *game.Result
}

var _ game.Display = (*Renderer)(nil)

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Message queues a line for the message row.
func (r *Renderer) Message(text string) {
	r.messages = append(r.messages, text)
}

// LevelChanged clears the screen for the new level.
func (r *Renderer) LevelChanged(*world.Level) {
	r.screen.Clear()
}

// TurnEnded redraws the whole screen.
func (r *Renderer) TurnEnded(c *game.Context) {
	r.Render(c)
}

// GameOver records the final result for the message row.
func (r *Renderer) GameOver(result game.Result) {
	r.over = &result
	switch result.Outcome {
	case game.OutcomeDied:
		r.Message("You die... (" + result.Cause + ")")
	case game.OutcomeEscaped:
		r.Message("You escaped the dungeon.")
	}
}

// Over reports whether the game has ended.
func (r *Renderer) Over() bool {
	return r.over != nil
}

// Render draws the level, its contents, the player and the status lines.
func (r *Renderer) Render(c *game.Context) {
	r.screen.Clear()

	r.screen.Text(0, messageRow, strings.Join(r.messages, "  "), tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.messages = r.messages[:0]

	l := c.Level
	for x := range world.COLNO {
		for y := range world.ROWNO {
			t := l.Cells[x][y].Type
			r.screen.SetContent(x, mapTop+y, t.Rune(), cellStyle(t))
		}
	}
	for _, s := range l.Stairs {
		glyph := '>'
		if s.Up {
			glyph = '<'
		}
		r.screen.SetContent(s.X, mapTop+s.Y, glyph, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
	for _, t := range l.Traps {
		if t.Seen {
			r.screen.SetContent(t.X, mapTop+t.Y, '^', tcell.StyleDefault.Foreground(tcell.ColorRed))
		}
	}
	for _, o := range l.Objects {
		glyph, style := objectGlyph(o.Kind)
		r.screen.SetContent(o.X, mapTop+o.Y, glyph, style)
	}
	for _, m := range c.Monsters.All() {
		r.screen.SetContent(m.X, mapTop+m.Y, m.Glyph(), tcell.StyleDefault.Foreground(m.Color()))
	}

	p := c.Player
	r.screen.SetContent(p.X, mapTop+p.Y, p.Symbol, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))

	r.screen.Text(0, statusRow, statusLine1(p), tcell.StyleDefault)
	r.screen.Text(0, statusRow+1, statusLine2(c), tcell.StyleDefault)
	r.screen.Show()
}

func statusLine1(p *entity.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s the %s ", p.Name, p.Role.Name)
	for i, name := range gamedata.AttrNames {
		fmt.Fprintf(&b, " %s:%d", strings.ToUpper(name[:1])+name[1:2], p.Attrs[i])
	}
	return b.String()
}

func statusLine2(c *game.Context) string {
	p := c.Player
	s := fmt.Sprintf("Dlvl:%d $:%d HP:%d(%d) Pw:%d(%d) AC:%d Xp:%d/%d T:%d",
		c.Level.Depth, p.Gold, p.HP, p.HPMax, p.Energy, p.EnergyMax, p.AC, p.Level, p.Exp, c.Turn)
	if p.HungerState != entity.NotHungry {
		s += " " + p.HungerState.String()
	}
	return s
}

// cellStyle returns the appropriate style for a cell type.
func cellStyle(t world.CellType) tcell.Style {
	switch {
	case t.IsWall():
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case t == world.Door:
		return tcell.StyleDefault.Foreground(tcell.ColorOlive)
	case t == world.Pool || t == world.Moat || t == world.Water:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case t == world.Lava:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

func objectGlyph(k world.ObjectKind) (rune, tcell.Style) {
	switch k {
	case world.ObjectGold:
		return '$', tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case world.ObjectBoulder:
		return '0', tcell.StyleDefault.Foreground(tcell.ColorWhite)
	default:
		return '*', tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	}
}
