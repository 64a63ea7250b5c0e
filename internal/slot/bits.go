// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package slot

import "math/bits"

// bitv is a growable bit vector recording which slots
// of a Table are occupied.
type bitv struct {
	s   []uint64
	rem int
}

// Len returns the number of bits in the vector.
func (v *bitv) Len() int { return len(v.s) * 64 }

// Rem returns the number of unset bits in the vector.
func (v *bitv) Rem() int { return v.rem }

// Grow appends nplus zeroed words to the vector.
// It returns the index of the first new bit.
func (v *bitv) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * 64
		v.s = append(v.s, make([]uint64, nplus)...)
	}
	return
}

// Set sets a given bit.
func (v *bitv) Set(index int) {
	i := index / 64
	b := uint64(1) << (index & 63)
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *bitv) Unset(index int) {
	i := index / 64
	b := uint64(1) << (index & 63)
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// IsSet checks whether a given bit is set.
// Out of range indices are never set.
func (v *bitv) IsSet(index int) bool {
	if index < 0 || index >= v.Len() {
		return false
	}
	return v.s[index/64]&(uint64(1)<<(index&63)) != 0
}

// Search locates the lowest unset bit.
// It fails only when v.Rem() == 0.
func (v *bitv) Search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^uint64(0) {
			continue
		}
		return i*64 + bits.TrailingZeros64(^x), true
	}
	return
}
