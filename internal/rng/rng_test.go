package rng

import (
	"bytes"
	"testing"
)

func TestStreamReproducibility(t *testing.T) {
	s1 := NewStream("core", 42)
	s2 := NewStream("core", 42)

	for i := 0; i < 1000; i++ {
		a, b := s1.Uint64(), s2.Uint64()
		if a != b {
			t.Fatalf("draw %d mismatch: %d != %d", i, a, b)
		}
	}
}

func TestIsaac64KnownAnswers(t *testing.T) {
	zero := NewIsaac64(nil)
	for i, want := range []uint64{
		0x9d39247e33776d41, 0x2af7398005aaa5c7, 0x44db015024623547,
		0x9c15f73e62a76ae2, 0x75834465489c0c89,
	} {
		if got := zero.Uint64(); got != want {
			t.Errorf("zero seed draw %d = %#x, want %#x", i, got, want)
		}
	}

	// Draws 255 and 256 straddle the first batch refill.
	want := map[int]uint64{
		0:   0xbbd61fa5105a596a,
		1:   0x9b3cc89c4acb57ba,
		255: 0xcb713848c3cb3ad2,
		256: 0x074ee3cee3bf5fbe,
		298: 0x1ee9a14d9f011828,
		299: 0xf00220e07154d220,
	}
	s := NewStream("core", 42)
	for i := 0; i < 300; i++ {
		got := s.Uint64()
		if w, ok := want[i]; ok && got != w {
			t.Errorf("seed 42 draw %d = %#x, want %#x", i, got, w)
		}
	}
}

func TestStreamDifferentSeeds(t *testing.T) {
	s1 := NewStream("core", 1)
	s2 := NewStream("core", 2)

	identical := true
	for i := 0; i < 16; i++ {
		if s1.Uint64() != s2.Uint64() {
			identical = false
		}
	}
	if identical {
		t.Error("streams with different seeds should not be identical")
	}
}

func TestSeedPadding(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
	}{
		{"empty vs zero integer", nil, SeedBytes(0)},
		{"short vs zero padded", []byte{1, 2, 3}, []byte{1, 2, 3, 0, 0, 0, 0, 0, 0, 0}},
		{"truncated", bytes.Repeat([]byte{7}, MaxSeedBytes), append(bytes.Repeat([]byte{7}, MaxSeedBytes), 9, 9, 9)},
	}

	for _, tt := range tests {
		g1 := NewIsaac64(tt.a)
		g2 := NewIsaac64(tt.b)
		for i := 0; i < 300; i++ {
			if x, y := g1.Uint64(), g2.Uint64(); x != y {
				t.Errorf("%s: draw %d = %d, want %d", tt.name, i, x, y)
				break
			}
		}
	}
}

func TestSeedBytesLittleEndian(t *testing.T) {
	got := SeedBytes(0x0102030405060708)
	want := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("SeedBytes() = %v, want %v", got, want)
	}
}

func TestBatchRefill(t *testing.T) {
	g := NewIsaac64(SeedBytes(42))
	if g.Remaining() != size {
		t.Errorf("Remaining() = %d, want %d", g.Remaining(), size)
	}
	for i := 0; i < size; i++ {
		g.Uint64()
	}
	if g.Remaining() != 0 {
		t.Errorf("Remaining() after full batch = %d, want 0", g.Remaining())
	}
	g.Uint64()
	if g.Remaining() != size-1 {
		t.Errorf("Remaining() after refill = %d, want %d", g.Remaining(), size-1)
	}
}

func TestRn2MatchesRawModulo(t *testing.T) {
	raw := NewStream("core", 99)
	bounded := NewStream("core", 99)

	for _, x := range []int{1, 2, 3, 7, 20, 100, 1000, 1 << 30} {
		want := int(raw.Uint64() % uint64(x))
		if got := bounded.Rn2(x); got != want {
			t.Errorf("Rn2(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestNonPositiveArgumentsDoNotDraw(t *testing.T) {
	s := NewStream("core", 5)
	if got := s.Rn2(0); got != 0 {
		t.Errorf("Rn2(0) = %d, want 0", got)
	}
	if got := s.Rnd(-3); got != 0 {
		t.Errorf("Rnd(-3) = %d, want 0", got)
	}
	if s.Draws() != 0 {
		t.Errorf("Draws() = %d, want 0", s.Draws())
	}
}

func TestRanges(t *testing.T) {
	s := NewStream("core", 7)
	for i := 0; i < 500; i++ {
		if v := s.Rn2(6); v < 0 || v >= 6 {
			t.Fatalf("Rn2(6) = %d out of range", v)
		}
		if v := s.Rnd(6); v < 1 || v > 6 {
			t.Fatalf("Rnd(6) = %d out of range", v)
		}
		if v := s.D(3, 6); v < 3 || v > 18 {
			t.Fatalf("D(3, 6) = %d out of range", v)
		}
		if v := s.Rn1(5, 10); v < 10 || v >= 15 {
			t.Fatalf("Rn1(5, 10) = %d out of range", v)
		}
		if v := s.Rnl(7, 10); v < 0 || v >= 7 {
			t.Fatalf("Rnl(7, 10) = %d out of range", v)
		}
		if v := s.Rne(4, 1); v < 1 || v > 5 {
			t.Fatalf("Rne(4, 1) = %d out of range", v)
		}
	}
}

func TestDiceDrawCount(t *testing.T) {
	s := NewStream("core", 11)
	s.D(4, 6)
	if s.Draws() != 4 {
		t.Errorf("Draws() after D(4, 6) = %d, want 4", s.Draws())
	}
	s.Rnd(20)
	if s.Draws() != 5 {
		t.Errorf("Draws() after Rnd(20) = %d, want 5", s.Draws())
	}
}

func TestRnlZeroLuckSingleDraw(t *testing.T) {
	s := NewStream("core", 11)
	s.Rnl(7, 0)
	if s.Draws() != 1 {
		t.Errorf("Draws() after Rnl(7, 0) = %d, want 1", s.Draws())
	}
	s.Rnl(7, 5)
	if s.Draws() != 3 {
		t.Errorf("Draws() after Rnl(7, 5) = %d, want 3", s.Draws())
	}
}

func TestTracingOffByDefault(t *testing.T) {
	s := NewStream("core", 1)
	s.Rn2(10)
	if s.Tracing() {
		t.Error("Tracing() = true, want false")
	}
	if got := s.Trace(); got != nil {
		t.Errorf("Trace() = %v, want nil", got)
	}
}

func TestTraceRecordsDraws(t *testing.T) {
	s := NewStream("core", 1)
	s.Rn2(10)
	s.EnableTrace(16)
	r2 := s.Rn2(10)
	r3 := s.Rnd(6)
	s.D(2, 4)

	trace := s.Trace()
	if len(trace) != 4 {
		t.Fatalf("len(Trace()) = %d, want 4", len(trace))
	}

	tests := []struct {
		kind   Kind
		arg    uint64
		seq    uint64
		result uint64
	}{
		{KindRn2, 10, 1, uint64(r2)},
		{KindRnd, 6, 2, uint64(r3 - 1)},
		{KindDice, 4, 3, trace[2].Result},
		{KindDice, 4, 4, trace[3].Result},
	}
	for i, tt := range tests {
		e := trace[i]
		if e.Kind != tt.kind || e.Arg != tt.arg || e.Seq != tt.seq || e.Result != tt.result {
			t.Errorf("Trace()[%d] = %+v, want kind=%s arg=%d seq=%d result=%d", i, e, tt.kind, tt.arg, tt.seq, tt.result)
		}
		if e.Raw%e.Arg != e.Result {
			t.Errorf("Trace()[%d] raw %d mod %d != result %d", i, e.Raw, e.Arg, e.Result)
		}
	}

	s.ResetTrace()
	if len(s.Trace()) != 0 {
		t.Errorf("len(Trace()) after ResetTrace = %d, want 0", len(s.Trace()))
	}
}

func TestTraceRingEviction(t *testing.T) {
	tr := NewTrace(3)
	for i := 0; i < 5; i++ {
		tr.Append(TraceEntry{Seq: uint64(i)})
	}

	entries := tr.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(Entries()) = %d, want 3", len(entries))
	}
	for i, want := range []uint64{2, 3, 4} {
		if entries[i].Seq != want {
			t.Errorf("Entries()[%d].Seq = %d, want %d", i, entries[i].Seq, want)
		}
	}
	if tr.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", tr.Dropped())
	}
}

func TestIndependentStreams(t *testing.T) {
	core := NewStream("core", 42)
	display := NewStream("display", 42)
	reference := NewStream("core", 42)

	for i := 0; i < 50; i++ {
		display.Rn2(100)
	}
	for i := 0; i < 50; i++ {
		if a, b := core.Rn2(1000), reference.Rn2(1000); a != b {
			t.Fatalf("core draw %d = %d, want %d", i, a, b)
		}
	}
}
