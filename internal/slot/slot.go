// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package slot implements a generational slot table.
// Each stored value is identified by an ID that becomes
// invalid once the value is removed, even if the slot is
// later reused by another value.
package slot

// ID identifies a value stored in a Table.
// The low 20 bits hold the slot index plus one and the
// high 12 bits hold the slot generation, so an ID fits
// in a uintptr on 32-bit targets too.
// Generations wrap after 4096 reuses of the same slot.
// The zero ID is never valid.
type ID uint32

// Nil is the invalid ID.
const Nil ID = 0

const (
	indexBits = 20
	genMask   = 1<<(32-indexBits) - 1

	// MaxLen is the maximum number of values a Table
	// can hold at once.
	MaxLen = 1<<indexBits - 1
)

func makeID(index int, gen uint16) ID { return ID(gen)<<indexBits | ID(index+1) }

func (id ID) index() int { return int(id&MaxLen) - 1 }

func (id ID) gen() uint16 { return uint16(id >> indexBits) }

// Table is a collection of values addressed by ID.
// The zero value is an empty table ready for use.
// Table is not safe for concurrent use.
type Table[T any] struct {
	used bitv
	gens []uint16
	vals []T
}

// Insert stores v and returns its ID.
// It panics if the table already holds MaxLen values.
func (t *Table[T]) Insert(v T) ID {
	i, ok := t.used.Search()
	if !ok {
		i = t.used.Grow(1)
		t.gens = append(t.gens, make([]uint16, 64)...)
		t.vals = append(t.vals, make([]T, 64)...)
	}
	if i >= MaxLen {
		panic("slot: table full")
	}
	t.used.Set(i)
	t.vals[i] = v
	return makeID(i, t.gens[i])
}

// Get returns the value identified by id.
// ok is false if id does not refer to a live value.
func (t *Table[T]) Get(id ID) (v T, ok bool) {
	if !t.valid(id) {
		return
	}
	return t.vals[id.index()], true
}

// Remove removes the value identified by id.
// It reports whether id referred to a live value.
// The slot's generation is bumped, so id and any copy
// of it are rejected from then on.
func (t *Table[T]) Remove(id ID) bool {
	if !t.valid(id) {
		return false
	}
	i := id.index()
	var zero T
	t.vals[i] = zero
	t.gens[i] = (t.gens[i] + 1) & genMask
	t.used.Unset(i)
	return true
}

// Len returns the number of live values.
func (t *Table[_]) Len() int { return t.used.Len() - t.used.Rem() }

func (t *Table[_]) valid(id ID) bool {
	i := id.index()
	return id != Nil && t.used.IsSet(i) && t.gens[i] == id.gen()
}
