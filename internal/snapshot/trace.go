package snapshot

import (
	"fmt"

	"github.com/samdwyer/nhparity/internal/rng"
)

// TraceContext is how many entries either side of a trace divergence are
// kept for the report.
const TraceContext = 5

// TraceDivergence locates the first draw on which two traces disagree.
type TraceDivergence struct {
	Index     int              `json:"index"`
	Reason    string           `json:"reason"`
	Reference []rng.TraceEntry `json:"reference"`
	Candidate []rng.TraceEntry `json:"candidate"`
}

func (t *TraceDivergence) String() string {
	return fmt.Sprintf("draw %d: %s", t.Index, t.Reason)
}

// CompareTraces returns the first point where the two traces differ in
// kind, argument, result or raw value, or where one ends before the
// other. It returns nil when they agree. Sequence numbers are not
// compared since the engines may number from different origins.
func CompareTraces(ref, cand []rng.TraceEntry) *TraceDivergence {
	n := min(len(ref), len(cand))
	for i := range n {
		r, c := ref[i], cand[i]
		var reason string
		switch {
		case r.Kind != c.Kind:
			reason = fmt.Sprintf("kind mismatch: reference=%s(%d) candidate=%s(%d)", r.Kind, r.Arg, c.Kind, c.Arg)
		case r.Arg != c.Arg:
			reason = fmt.Sprintf("argument mismatch: %s(reference=%d, candidate=%d)", r.Kind, r.Arg, c.Arg)
		case r.Result != c.Result:
			reason = fmt.Sprintf("result mismatch: %s(%d) reference=%d candidate=%d", r.Kind, r.Arg, r.Result, c.Result)
		case r.Raw != c.Raw:
			reason = fmt.Sprintf("raw mismatch: reference=%#x candidate=%#x", r.Raw, c.Raw)
		default:
			continue
		}
		return &TraceDivergence{
			Index:     i,
			Reason:    reason,
			Reference: window(ref, i),
			Candidate: window(cand, i),
		}
	}
	if len(ref) != len(cand) {
		return &TraceDivergence{
			Index:     n,
			Reason:    fmt.Sprintf("length mismatch: reference=%d draws candidate=%d draws", len(ref), len(cand)),
			Reference: window(ref, n),
			Candidate: window(cand, n),
		}
	}
	return nil
}

// window returns up to TraceContext entries on either side of i, and i
// itself when present.
func window(t []rng.TraceEntry, i int) []rng.TraceEntry {
	lo := max(i-TraceContext, 0)
	hi := min(i+TraceContext+1, len(t))
	if lo >= hi {
		return nil
	}
	return append([]rng.TraceEntry(nil), t[lo:hi]...)
}
