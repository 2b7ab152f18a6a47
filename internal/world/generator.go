package world

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/telemetry"
)

const (
	// DefaultMaxAttempts bounds whole-level retries.
	DefaultMaxAttempts = 10

	minRooms = 2

	// room placement
	roomTargetBase = 5
	roomTargetRnd  = 4
	roomWidthRnd   = 7
	roomHeightRnd  = 5
	roomSizeBase   = 2
	roomBuffer     = 1
)

// Params selects what kind of level to build.
type Params struct {
	Depth       int
	Kind        LevelKind
	Special     string // Sokoban map name, e.g. "soko1" or "soko1a"
	MaxAttempts int
}

// Generator builds levels from the core random stream.
type Generator struct {
	rng *rng.Stream
}

// NewGenerator creates a generator drawing from s.
func NewGenerator(s *rng.Stream) *Generator {
	return &Generator{rng: s}
}

// Generate builds a level. Ordinary levels that end up undersized or
// disconnected are rebuilt from scratch, continuing the same stream, up to
// MaxAttempts times before a *GenerationError is returned.
func (g *Generator) Generate(ctx context.Context, p Params) (*Level, error) {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "level.generate")
	defer span.End()

	startTime := time.Now()
	if p.Depth < 1 {
		p.Depth = 1
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var (
		l       *Level
		err     error
		attempt int
	)
	for attempt = 1; attempt <= attempts; attempt++ {
		if err = ctx.Err(); err != nil {
			break
		}
		l, err = g.build(p)
		if err == nil || !retryable(err) {
			break
		}
	}
	if err != nil && retryable(err) {
		err = &GenerationError{Attempts: attempts, Depth: p.Depth, Err: err}
	}

	span.SetAttributes(
		attribute.Int("level.depth", p.Depth),
		attribute.String("level.kind", p.Kind.String()),
		attribute.Int("level.attempts", min(attempt, attempts)),
		attribute.Int64("level.generation_ms", time.Since(startTime).Milliseconds()),
	)
	if err != nil {
		telemetry.Fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("level.room_count", len(l.Rooms)))
	return l, nil
}

func retryable(err error) bool {
	return errors.Is(err, ErrUnreachableRoom) || errors.Is(err, ErrUndersizedLevel)
}

func (g *Generator) build(p Params) (*Level, error) {
	switch p.Kind {
	case KindOrdinary:
		return g.ordinary(p.Depth)
	case KindMaze:
		return g.maze(p.Depth)
	case KindSokoban:
		return g.sokoban(p.Depth, p.Special)
	case KindBigRoom:
		return g.bigRoom(p.Depth)
	default:
		return nil, errors.New("world: unsupported level kind " + p.Kind.String())
	}
}

// ordinary builds a rooms-and-corridors level.
func (g *Generator) ordinary(depth int) (*Level, error) {
	s := g.rng
	l := NewLevel(depth, KindOrdinary)

	l.makeRooms(s)
	if len(l.Rooms) < minRooms {
		return nil, ErrUndersizedLevel
	}
	l.sortRooms()
	for i := range l.Rooms {
		l.carveRoom(i)
	}

	t := l.makeCorridors(s)
	l.placeStairs(s)
	l.furnishRooms(s)

	if lost := l.repairConnectivity(s, t); len(lost) > 0 {
		return nil, ErrUnreachableRoom
	}
	return l, nil
}

// makeRooms places up to the target number of non-overlapping rooms. Each
// attempt that collides is dropped rather than retried.
func (l *Level) makeRooms(s *rng.Stream) {
	target := s.Rnd(roomTargetRnd) + roomTargetBase
	for i := 0; i < target*3; i++ {
		w := s.Rnd(roomWidthRnd) + roomSizeBase
		h := s.Rnd(roomHeightRnd) + roomSizeBase

		maxX := satSub(COLNO, w+2)
		maxY := satSub(ROWNO, h+2)
		if maxX < 2 || maxY < 2 {
			continue
		}
		x := s.Rn2(maxX-1) + 1
		y := s.Rn2(maxY-1) + 1

		r := NewRoom(x, y, w, h)
		if l.overlapsAny(r) {
			continue
		}
		l.Rooms = append(l.Rooms, r)
		if len(l.Rooms) >= target {
			break
		}
	}
}

func (l *Level) overlapsAny(r Room) bool {
	for _, o := range l.Rooms {
		if r.Overlaps(o, roomBuffer) {
			return true
		}
	}
	return false
}

// sortRooms orders rooms left to right.
func (l *Level) sortRooms() {
	slices.SortStableFunc(l.Rooms, func(a, b Room) int {
		return a.Lx - b.Lx
	})
}

// carveRoom writes room i's floor and surrounding walls.
func (l *Level) carveRoom(i int) {
	r := l.Rooms[i]
	for x := r.Lx - 1; x <= r.Hx+1; x++ {
		for y := r.Ly - 1; y <= r.Hy+1; y++ {
			if !InBounds(x, y) {
				continue
			}
			c := &l.Cells[x][y]
			left, right := x == r.Lx-1, x == r.Hx+1
			top, bottom := y == r.Ly-1, y == r.Hy+1
			switch {
			case top && left:
				c.Type = TLCorner
			case top && right:
				c.Type = TRCorner
			case bottom && left:
				c.Type = BLCorner
			case bottom && right:
				c.Type = BRCorner
			case top || bottom:
				c.Type = HWall
			case left || right:
				c.Type = VWall
			default:
				c.Type = RoomFloor
				c.Roomno = i + 1
			}
			c.Lit = r.Lit
		}
	}
}

// placeStairs puts the down stairs in a random room and the up stairs in a
// different one.
func (l *Level) placeStairs(s *rng.Stream) {
	n := len(l.Rooms)
	if n == 0 {
		return
	}
	down := s.Rn2(n)
	x, y := l.Rooms[down].Somexy(s)
	l.addStairs(x, y, false)

	if n < 2 {
		return
	}
	up := s.Rn2(n - 1)
	if up == down {
		up++
	}
	x, y = l.Rooms[up].Somexy(s)
	l.addStairs(x, y, true)
}

// furnishRooms drops gold, fountains and sinks room by room.
func (l *Level) furnishRooms(s *rng.Stream) {
	for _, r := range l.Rooms {
		if s.Rn2(3) == 0 {
			x, y := r.Somexy(s)
			amount := 1 + s.Rnd(l.Depth+2)*s.Rnd(30)
			l.AddObject(Object{Kind: ObjectGold, X: x, Y: y, Quantity: amount})
		}
		if s.Rn2(10) == 0 {
			x, y := r.Somexy(s)
			if l.Cells[x][y].Type == RoomFloor {
				l.Cells[x][y].Type = Fountain
				l.Flags.Fountains++
			}
		}
		if s.Rn2(60) == 0 {
			x, y := r.Somexy(s)
			if l.Cells[x][y].Type == RoomFloor {
				l.Cells[x][y].Type = Sink
				l.Flags.Sinks++
			}
		}
	}
}
