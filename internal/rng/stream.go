package rng

// mask is the 64-bit arithmetic mask used by the bounded rejection check.
const mask = ^uint64(0)

// Stream wraps one ISAAC64 generator with the dice helpers used by the
// simulation. Streams share nothing; the core and display channels are
// two separate values.
type Stream struct {
	name  string
	gen   *Isaac64
	draws uint64
	trace *Trace
}

// NewStream seeds a stream from an integer seed.
func NewStream(name string, seed uint64) *Stream {
	return NewStreamBytes(name, SeedBytes(seed))
}

// NewStreamBytes seeds a stream from raw seed bytes.
func NewStreamBytes(name string, seed []byte) *Stream {
	return &Stream{name: name, gen: NewIsaac64(seed)}
}

// Name returns the stream's channel name.
func (s *Stream) Name() string {
	return s.name
}

// Draws returns the number of raw values consumed so far.
func (s *Stream) Draws() uint64 {
	return s.draws
}

// EnableTrace starts recording draws into a fresh ring of the given capacity.
func (s *Stream) EnableTrace(capacity int) {
	s.trace = NewTrace(capacity)
}

// DisableTrace stops recording and discards the ring.
func (s *Stream) DisableTrace() {
	s.trace = nil
}

// Tracing reports whether draws are being recorded.
func (s *Stream) Tracing() bool {
	return s.trace != nil
}

// ResetTrace empties the ring without disabling tracing.
func (s *Stream) ResetTrace() {
	if s.trace != nil {
		s.trace.Reset()
	}
}

// Trace returns the recorded draws oldest first, or nil when tracing is off.
func (s *Stream) Trace() []TraceEntry {
	if s.trace == nil {
		return nil
	}
	return s.trace.Entries()
}

func (s *Stream) raw() uint64 {
	s.draws++
	return s.gen.Uint64()
}

func (s *Stream) record(kind Kind, arg, result, raw uint64) {
	if s.trace == nil {
		return
	}
	s.trace.Append(TraceEntry{
		Seq:    s.draws - 1,
		Kind:   kind,
		Arg:    arg,
		Result: result,
		Raw:    raw,
	})
}

// Uint64 returns the next raw 64-bit value.
func (s *Stream) Uint64() uint64 {
	r := s.raw()
	s.record(KindRaw, 0, r, r)
	return r
}

// Bounded returns a value in [0, n). Raw values whose block would wrap
// past 2^64 are discarded and redrawn; each discard is a real draw.
func (s *Stream) Bounded(n uint64) uint64 {
	return s.bounded(KindRaw, n)
}

func (s *Stream) bounded(kind Kind, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	for {
		r := s.raw()
		v := r % n
		d := r - v
		if ((d + n - 1) & mask) < d {
			s.record(KindReject, n, v, r)
			continue
		}
		s.record(kind, n, v, r)
		return v
	}
}

func (s *Stream) rn2(kind Kind, x int) int {
	if x <= 0 {
		return 0
	}
	return int(s.bounded(kind, uint64(x)))
}

// Rn2 returns a value in [0, x). Non-positive x returns 0 without drawing.
func (s *Stream) Rn2(x int) int {
	return s.rn2(KindRn2, x)
}

// Rnd returns a value in [1, x] using a single draw.
func (s *Stream) Rnd(x int) int {
	if x <= 0 {
		return 0
	}
	return s.rn2(KindRnd, x) + 1
}

// Rn1 returns Rn2(x) + y.
func (s *Stream) Rn1(x, y int) int {
	return s.rn2(KindRn1, x) + y
}

// D rolls n dice of x sides: n plus n draws of Rn2(x).
func (s *Stream) D(n, x int) int {
	total := n
	for i := 0; i < n; i++ {
		total += s.rn2(KindDice, x)
	}
	return total
}

// Rnl is a luck-adjusted Rn2: good luck pulls results toward zero.
func (s *Stream) Rnl(x, luck int) int {
	if x <= 0 {
		return 0
	}
	adjustment := luck
	if x <= 15 {
		adjustment = (abs(adjustment) + 1) / 3 * sign(adjustment)
	}
	i := s.rn2(KindRnl, x)
	if adjustment != 0 && s.rn2(KindRnl, 37+abs(adjustment)) != 0 {
		i -= adjustment
		if i < 0 {
			i = 0
		} else if i >= x {
			i = x - 1
		}
	}
	return i
}

// Rne returns a small exponentially distributed value, capped by level.
func (s *Stream) Rne(x, ulevel int) int {
	return s.rne(KindRne, x, ulevel)
}

func (s *Stream) rne(kind Kind, x, ulevel int) int {
	limit := 5
	if ulevel >= 15 {
		limit = ulevel / 3
	}
	n := 1
	for n < limit && s.rn2(kind, x) == 0 {
		n++
	}
	return n
}

// Rnz returns a wide spread of values centred on i.
func (s *Stream) Rnz(i, ulevel int) int {
	x := int64(i)
	tmp := int64(1000)
	tmp += int64(s.rn2(KindRnz, 1000))
	tmp *= int64(s.rne(KindRnz, 4, ulevel))
	if s.rn2(KindRnz, 2) != 0 {
		x *= tmp
		x /= 1000
	} else {
		x *= 1000
		x /= tmp
	}
	return int(x)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
