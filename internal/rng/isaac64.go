// Package rng provides the ISAAC64 random stream shared by every
// randomness-consuming part of the simulation.
package rng

const (
	sizeLog = 8
	size    = 1 << sizeLog

	// MaxSeedBytes is the largest seed that contributes to the initial state.
	MaxSeedBytes = size * 8

	golden = 0x9E3779B97F4A7C13
)

var mixShift = [8]uint{9, 9, 23, 15, 14, 20, 17, 14}

// Isaac64 is the raw ISAAC64 generator state.
type Isaac64 struct {
	r [size]uint64 // results buffer, consumed from the top down
	m [size]uint64 // mixing array
	a uint64
	b uint64
	c uint64
	n int // results remaining in r
}

// NewIsaac64 returns a generator seeded with the given bytes.
// Bytes past MaxSeedBytes are ignored; a nil or empty seed is valid.
func NewIsaac64(seed []byte) *Isaac64 {
	g := &Isaac64{}
	g.reseed(seed)
	return g
}

// SeedBytes expands an integer seed into its little-endian byte form.
func SeedBytes(seed uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(seed & 0xFF)
		seed >>= 8
	}
	return b
}

// Uint64 returns the next raw value, refilling the batch when it runs out.
func (g *Isaac64) Uint64() uint64 {
	if g.n == 0 {
		g.update()
	}
	g.n--
	return g.r[g.n]
}

// Remaining reports how many values are left in the current batch.
func (g *Isaac64) Remaining() int {
	return g.n
}

func (g *Isaac64) reseed(seed []byte) {
	if len(seed) > MaxSeedBytes {
		seed = seed[:MaxSeedBytes]
	}

	words := len(seed) / 8
	for i := 0; i < words; i++ {
		var v uint64
		for j := 7; j >= 0; j-- {
			v = v<<8 | uint64(seed[i*8+j])
		}
		g.r[i] ^= v
	}
	if rest := len(seed) - words*8; rest > 0 {
		var v uint64
		for j := rest - 1; j >= 0; j-- {
			v = v<<8 | uint64(seed[words*8+j])
		}
		g.r[words] ^= v
	}

	var x [8]uint64
	for i := range x {
		x[i] = golden
	}
	for i := 0; i < 4; i++ {
		mix(&x)
	}
	for i := 0; i < size; i += 8 {
		for j := 0; j < 8; j++ {
			x[j] += g.r[i+j]
		}
		mix(&x)
		copy(g.m[i:i+8], x[:])
	}
	for i := 0; i < size; i += 8 {
		for j := 0; j < 8; j++ {
			x[j] += g.m[i+j]
		}
		mix(&x)
		copy(g.m[i:i+8], x[:])
	}

	g.update()
}

func mix(x *[8]uint64) {
	for i := 0; i < 8; i += 2 {
		x[i] -= x[(i+4)&7]
		x[(i+5)&7] ^= x[(i+7)&7] >> mixShift[i]
		x[(i+7)&7] += x[i]

		j := i + 1
		x[j] -= x[(j+4)&7]
		x[(j+5)&7] ^= x[(j+7)&7] << mixShift[j]
		x[(j+7)&7] += x[j]
	}
}

func lowerIndex(x uint64) uint64 {
	return (x & ((size - 1) << 3)) >> 3
}

func upperIndex(y uint64) uint64 {
	return (y >> (sizeLog + 3)) & (size - 1)
}

// update refills r with the next 256 results.
func (g *Isaac64) update() {
	const half = size / 2

	a := g.a
	g.c++
	b := g.b + g.c

	step := func(i, other int, na uint64) {
		x := g.m[i]
		a = na + g.m[other]
		y := g.m[lowerIndex(x)] + a + b
		g.m[i] = y
		b = g.m[upperIndex(y)] + x
		g.r[i] = b
	}

	for i := 0; i < half; i += 4 {
		step(i, i+half, ^(a ^ a<<21))
		step(i+1, i+1+half, a^a>>5)
		step(i+2, i+2+half, a^a<<12)
		step(i+3, i+3+half, a^a>>33)
	}
	for i := half; i < size; i += 4 {
		step(i, i-half, ^(a ^ a<<21))
		step(i+1, i+1-half, a^a>>5)
		step(i+2, i+2-half, a^a<<12)
		step(i+3, i+3-half, a^a>>33)
	}

	g.a = a
	g.b = b
	g.n = size
}
