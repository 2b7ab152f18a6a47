package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/parity"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/world"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, parity.ExitOK},
		{"divergence", &exitError{code: parity.ExitDivergence}, parity.ExitDivergence},
		{"fault", faultError(errors.New("engine crashed")), parity.ExitFault},
		{"usage", usageError(errors.New("bad flag")), parity.ExitUsage},
		{"wrapped fault", fmt.Errorf("run: %w", faultError(errors.New("x"))), parity.ExitFault},
		{"cobra error", errors.New(`unknown command "nope"`), parity.ExitUsage},
		{"cancelled run", runError(fmt.Errorf("turn 12: %w", context.Canceled)), parity.ExitInterrupted},
		{"engine timeout", runError(fmt.Errorf("turn 12: %w", context.DeadlineExceeded)), parity.ExitFault},
		{"engine crash", runError(errors.New("broken pipe")), parity.ExitFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want entity.Command
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), entity.MoveDir(entity.North), true},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), entity.MoveDir(entity.East), true},
		{tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone), entity.MoveDir(entity.NorthWest), true},
		{tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), entity.Search(), true},
		{tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone), entity.Wait(), true},
		{tcell.NewEventKey(tcell.KeyRune, 'Z', tcell.ModNone), entity.Command{}, false},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), entity.Command{}, false},
	}
	for _, tt := range tests {
		got, ok := keyCommand(tt.ev)
		if ok != tt.ok || got != tt.want {
			t.Errorf("keyCommand(%q) = %v, %t, want %v, %t", tt.ev.Name(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestQuitKey(t *testing.T) {
	if !quitKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("quitKey(Esc) = false")
	}
	if !quitKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("quitKey(q) = false")
	}
	if quitKey(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone)) {
		t.Error("quitKey(l) = true")
	}
}

func TestLevelRows(t *testing.T) {
	l := world.NewLevel(1, world.KindOrdinary)
	for x := 10; x <= 14; x++ {
		l.SetType(x, 5, world.RoomFloor)
	}
	l.Stairs = []world.Stairway{{X: 10, Y: 5, Up: true}, {X: 14, Y: 5}}
	l.AddObject(world.Object{Kind: world.ObjectGold, X: 12, Y: 5, Quantity: 3})

	rows := levelRows(l)
	if len(rows) != world.ROWNO {
		t.Fatalf("len(levelRows()) = %d, want %d", len(rows), world.ROWNO)
	}
	got := strings.TrimSpace(rows[5])
	if got != "<.$.>" {
		t.Errorf("row 5 = %q, want %q", got, "<.$.>")
	}
}

func TestEntryAt(t *testing.T) {
	trace := []rng.TraceEntry{{Seq: 3, Kind: rng.KindRn2, Arg: 6, Result: 4}}
	if got := entryAt(trace, 0); got != "#3 rn2(6)=4" {
		t.Errorf("entryAt(0) = %q", got)
	}
	if got := entryAt(trace, 1); got != "-" {
		t.Errorf("entryAt(1) = %q, want -", got)
	}
}
