// Package snapshot projects a running game onto a flat, comparable state
// and diffs two such states field by field.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/samdwyer/nhparity/internal/game"
	"github.com/samdwyer/nhparity/internal/gamedata"
	"github.com/samdwyer/nhparity/internal/world"
)

// ErrMalformed is returned when a decoded state does not have the shape
// every engine must produce.
var ErrMalformed = errors.New("malformed snapshot")

// State is the comparable projection of a game after a turn. It is a
// value: nothing in it aliases the game it was taken from.
type State struct {
	Turn      int       `json:"turn"`
	Outcome   string    `json:"outcome"`
	Cause     string    `json:"cause,omitempty"`
	Player    Player    `json:"player"`
	Dungeon   Dungeon   `json:"dungeon"`
	Inventory []Item    `json:"inventory"`
	Monsters  []Monster `json:"monsters"`
	Level     Level     `json:"level"`
	Draws     uint64    `json:"draws"`
}

// Player is the player's part of a snapshot.
type Player struct {
	X          int                    `json:"x"`
	Y          int                    `json:"y"`
	HP         int                    `json:"hp"`
	HPMax      int                    `json:"hpmax"`
	Energy     int                    `json:"energy"`
	EnergyMax  int                    `json:"energymax"`
	AC         int                    `json:"ac"`
	Level      int                    `json:"level"`
	Experience int                    `json:"experience"`
	Gold       int                    `json:"gold"`
	Hunger     int                    `json:"hunger"`
	Attrs      [gamedata.NumAttrs]int `json:"attrs"`
	Polymorph  string                 `json:"polymorph,omitempty"`
}

// Dungeon locates the current level.
type Dungeon struct {
	Depth int    `json:"depth"`
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
}

// Item is one inventory slot.
type Item struct {
	Kind        string `json:"kind"`
	Quantity    int    `json:"quantity"`
	Enchantment int    `json:"enchantment"`
	BUC         string `json:"buc"`
}

// Monster is one entry of the monster list, in list order.
type Monster struct {
	ID       int    `json:"id"`
	Species  string `json:"species"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	HP       int    `json:"hp"`
	HPMax    int    `json:"hpmax"`
	Sleeping bool   `json:"sleeping"`
	Peaceful bool   `json:"peaceful"`
	Speed    int    `json:"speed"`
}

// Level holds the terrain of the current level. Cells are type codes
// indexed [x][y].
type Level struct {
	Cells   [][]int  `json:"cells"`
	Rooms   []Room   `json:"rooms"`
	Doors   []Door   `json:"doors"`
	Objects []Object `json:"objects"`
}

// Room is a room's floor bounds.
type Room struct {
	Lx int `json:"lx"`
	Ly int `json:"ly"`
	Hx int `json:"hx"`
	Hy int `json:"hy"`
}

// Door is a door position with its state mask.
type Door struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Mask int `json:"mask"`
}

// Object is a floor object.
type Object struct {
	Kind        string `json:"kind"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Quantity    int    `json:"quantity"`
	Enchantment int    `json:"enchantment"`
	BUC         string `json:"buc"`
}

// Capture takes a snapshot of c. It never draws from any stream.
func Capture(c *game.Context) State {
	p := c.Player
	final := c.Final()
	s := State{
		Turn:    c.Turn,
		Outcome: final.Outcome.String(),
		Cause:   final.Cause,
		Player: Player{
			X:          p.X,
			Y:          p.Y,
			HP:         p.HP,
			HPMax:      p.HPMax,
			Energy:     p.Energy,
			EnergyMax:  p.EnergyMax,
			AC:         p.AC,
			Level:      p.Level,
			Experience: p.Exp,
			Gold:       p.Gold,
			Hunger:     p.Hunger,
			Attrs:      p.Attrs,
			Polymorph:  p.PolyForm,
		},
		Dungeon: Dungeon{
			Depth: c.Level.Depth,
			Kind:  c.Level.Kind.String(),
			Name:  c.Level.Name,
		},
		Inventory: make([]Item, 0, len(p.Inventory)),
		Monsters:  make([]Monster, 0, c.Monsters.Len()),
		Level:     captureLevel(c.Level),
		Draws:     c.CoreStream().Draws(),
	}
	for _, it := range p.Inventory {
		s.Inventory = append(s.Inventory, Item{
			Kind:        it.Kind.String(),
			Quantity:    it.Quantity,
			Enchantment: it.Enchantment,
			BUC:         it.BUC.String(),
		})
	}
	for _, m := range c.Monsters.All() {
		s.Monsters = append(s.Monsters, Monster{
			ID:       m.ID,
			Species:  m.Species.ID,
			X:        m.X,
			Y:        m.Y,
			HP:       m.HP,
			HPMax:    m.HPMax,
			Sleeping: m.Asleep,
			Peaceful: m.Peaceful,
			Speed:    m.BaseSpeed(),
		})
	}
	return s
}

func captureLevel(l *world.Level) Level {
	out := Level{
		Cells:   make([][]int, world.COLNO),
		Rooms:   make([]Room, 0, len(l.Rooms)),
		Doors:   make([]Door, 0, len(l.Doors)),
		Objects: make([]Object, 0, len(l.Objects)),
	}
	for x := range world.COLNO {
		col := make([]int, world.ROWNO)
		for y := range world.ROWNO {
			col[y] = int(l.Cells[x][y].Type)
		}
		out.Cells[x] = col
	}
	for _, r := range l.Rooms {
		out.Rooms = append(out.Rooms, Room{Lx: r.Lx, Ly: r.Ly, Hx: r.Hx, Hy: r.Hy})
	}
	for _, d := range l.Doors {
		out.Doors = append(out.Doors, Door{X: d.X, Y: d.Y, Mask: int(l.Cells[d.X][d.Y].Door)})
	}
	for _, o := range l.Objects {
		out.Objects = append(out.Objects, Object{
			Kind:        o.Kind.String(),
			X:           o.X,
			Y:           o.Y,
			Quantity:    o.Quantity,
			Enchantment: o.Enchantment,
			BUC:         o.BUC.String(),
		})
	}
	return out
}

// Encode returns the canonical JSON encoding of s: fixed field order,
// no insignificant whitespace, no trailing newline.
func Encode(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// Decode parses and validates an encoded state. Unknown fields are
// rejected.
func Decode(data []byte) (State, error) {
	var s State
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return State{}, fmt.Errorf("snapshot: %w: %v", ErrMalformed, err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate checks the fixed dimensions of s.
func (s State) Validate() error {
	if len(s.Level.Cells) != world.COLNO {
		return fmt.Errorf("snapshot: %w: %d columns, want %d", ErrMalformed, len(s.Level.Cells), world.COLNO)
	}
	for x, col := range s.Level.Cells {
		if len(col) != world.ROWNO {
			return fmt.Errorf("snapshot: %w: column %d has %d rows, want %d", ErrMalformed, x, len(col), world.ROWNO)
		}
	}
	if s.Turn < 1 {
		return fmt.Errorf("snapshot: %w: turn %d", ErrMalformed, s.Turn)
	}
	return nil
}

// Digest returns the xxhash of the canonical encoding of s.
func Digest(s State) (uint64, error) {
	data, err := Encode(s)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Terminal reports whether the game in s has ended.
func (s State) Terminal() bool {
	return s.Outcome != "" && s.Outcome != game.OutcomeContinue.String()
}
