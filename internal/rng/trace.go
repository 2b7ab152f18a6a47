package rng

// Kind names the public call that consumed a draw.
type Kind string

const (
	KindRaw    Kind = "raw"
	KindRn2    Kind = "rn2"
	KindRnd    Kind = "rnd"
	KindRn1    Kind = "rn1"
	KindDice   Kind = "d"
	KindRnl    Kind = "rnl"
	KindRne    Kind = "rne"
	KindRnz    Kind = "rnz"
	KindReject Kind = "reject" // raw value discarded by bounded rejection
)

// DefaultTraceCapacity is the ring size used when none is given.
const DefaultTraceCapacity = 1 << 16

// TraceEntry records a single raw draw.
type TraceEntry struct {
	Seq    uint64 `json:"seq"`
	Kind   Kind   `json:"kind"`
	Arg    uint64 `json:"arg"`
	Result uint64 `json:"result"`
	Raw    uint64 `json:"raw"`
}

// Trace is an append-only ring buffer of draws. When full, the oldest
// entries are overwritten and counted in Dropped.
type Trace struct {
	entries []TraceEntry
	start   int
	count   int
	dropped uint64
}

// NewTrace creates a trace ring holding up to capacity entries.
func NewTrace(capacity int) *Trace {
	if capacity <= 0 {
		capacity = DefaultTraceCapacity
	}
	return &Trace{entries: make([]TraceEntry, capacity)}
}

// Append adds an entry, evicting the oldest if the ring is full.
func (t *Trace) Append(e TraceEntry) {
	capacity := len(t.entries)
	if t.count < capacity {
		t.entries[(t.start+t.count)%capacity] = e
		t.count++
		return
	}
	t.entries[t.start] = e
	t.start = (t.start + 1) % capacity
	t.dropped++
}

// Entries returns the buffered entries oldest first.
func (t *Trace) Entries() []TraceEntry {
	out := make([]TraceEntry, t.count)
	for i := 0; i < t.count; i++ {
		out[i] = t.entries[(t.start+i)%len(t.entries)]
	}
	return out
}

// Len returns the number of buffered entries.
func (t *Trace) Len() int {
	return t.count
}

// Dropped returns how many entries were evicted since the last reset.
func (t *Trace) Dropped() uint64 {
	return t.dropped
}

// Reset empties the ring.
func (t *Trace) Reset() {
	t.start = 0
	t.count = 0
	t.dropped = 0
}
