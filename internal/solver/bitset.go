package solver

import "math/bits"

// bitset is a fixed-width set of requirement positions.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) has(i int) bool {
	return b[i/64]&(1<<(uint(i)%64)) != 0
}

func (b bitset) clone() bitset {
	out := make(bitset, len(b))
	copy(out, b)
	return out
}

func (b bitset) union(o bitset) bitset {
	out := make(bitset, len(b))
	for i := range b {
		out[i] = b[i] | o[i]
	}
	return out
}

// unionInto ORs o into b.
func (b bitset) unionInto(o bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}

// gain counts the bits of b that are not yet in covered.
func (b bitset) gain(covered bitset) int {
	n := 0
	for i := range b {
		n += bits.OnesCount64(b[i] &^ covered[i])
	}
	return n
}

// contains reports whether o ⊆ b.
func (b bitset) contains(o bitset) bool {
	for i := range b {
		if o[i]&^b[i] != 0 {
			return false
		}
	}
	return true
}

func (b bitset) isZero() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b bitset) equal(o bitset) bool {
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}
