package world

// ConnectivityTracker records which rooms have been joined. Each room holds
// a class label; a merge rewrites only one of the two labels, so classes can
// look split until a later join relabels them.
type ConnectivityTracker struct {
	smeq []int
}

// NewConnectivityTracker gives each of n rooms its own class.
func NewConnectivityTracker(n int) *ConnectivityTracker {
	smeq := make([]int, n)
	for i := range smeq {
		smeq[i] = i
	}
	return &ConnectivityTracker{smeq: smeq}
}

// Connected reports whether rooms a and b share a class label.
func (t *ConnectivityTracker) Connected(a, b int) bool {
	if !t.valid(a) || !t.valid(b) {
		return false
	}
	return t.smeq[a] == t.smeq[b]
}

// Merge copies the lower label of a and b onto the other.
func (t *ConnectivityTracker) Merge(a, b int) {
	if !t.valid(a) || !t.valid(b) {
		return
	}
	if t.smeq[a] < t.smeq[b] {
		t.smeq[b] = t.smeq[a]
	} else {
		t.smeq[a] = t.smeq[b]
	}
}

// AllConnected reports whether every room carries the same label.
func (t *ConnectivityTracker) AllConnected() bool {
	for _, c := range t.smeq {
		if c != t.smeq[0] {
			return false
		}
	}
	return true
}

func (t *ConnectivityTracker) valid(i int) bool {
	return i >= 0 && i < len(t.smeq)
}
