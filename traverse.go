// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import "iter"

type travState int

const (
	notStarted travState = iota
	active
	exhausted
)

type frame struct {
	p     Prim
	depth int
}

// Traversal is a forward-only, depth-first (pre-order)
// iterator over the prims of a Stage.
// Children are fetched from the native library only when
// the iteration moves past their parent.
//
//	t := stage.Traverse()
//	for t.Next() {
//		p := t.Prim()
//		...
//	}
//	if err := t.Err(); err != nil {
//		...
//	}
type Traversal struct {
	s     *Stage
	state travState
	stack []frame
	cur   frame
	err   error
}

// Traverse returns a new Traversal over s.
// Every call creates an independent iterator.
func (s *Stage) Traverse() *Traversal { return &Traversal{s: s} }

// Next advances t to the next prim.
// It returns false when the traversal is exhausted or
// fails. Once Next returns false, it always does.
func (t *Traversal) Next() bool {
	switch t.state {
	case exhausted:
		return false
	case notStarted:
		roots, err := t.s.RootPrims()
		if err != nil {
			return t.fail(err)
		}
		t.push(roots, 0)
		t.state = active
	case active:
		kids, err := t.cur.p.Children()
		if err != nil {
			return t.fail(err)
		}
		t.push(kids, t.cur.depth+1)
	}
	if len(t.stack) == 0 {
		t.state = exhausted
		t.cur = frame{}
		return false
	}
	n := len(t.stack) - 1
	t.cur = t.stack[n]
	t.stack = t.stack[:n]
	return true
}

// push pushes ps in reverse so that ps[0] is popped first.
func (t *Traversal) push(ps []Prim, depth int) {
	for i := len(ps) - 1; i >= 0; i-- {
		t.stack = append(t.stack, frame{ps[i], depth})
	}
}

func (t *Traversal) fail(err error) bool {
	t.err = err
	t.state = exhausted
	t.stack = nil
	t.cur = frame{}
	return false
}

// Prim returns the current prim.
// It is only valid after a call to Next returns true.
func (t *Traversal) Prim() Prim { return t.cur.p }

// Depth returns the depth of the current prim.
// Top-level prims have depth 0.
func (t *Traversal) Depth() int { return t.cur.depth }

// Err returns the error that stopped the traversal,
// if any.
func (t *Traversal) Err() error { return t.err }

// All returns an iterator over the prims of s in
// traversal order.
// If the traversal fails, the error is yielded with the
// zero Prim as the last pair.
func (s *Stage) All() iter.Seq2[Prim, error] {
	return func(yield func(Prim, error) bool) {
		t := s.Traverse()
		for t.Next() {
			if !yield(t.Prim(), nil) {
				return
			}
		}
		if err := t.Err(); err != nil {
			yield(Prim{}, err)
		}
	}
}
