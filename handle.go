// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"github.com/gviegas/usd/native"
)

// handle is the sole owner of one native handle.
// The release function is called at most once, by the
// first call to close.
// A handle must not be copied after it is stored.
type handle struct {
	h       native.Handle
	release func(native.Handle) error
}

// own takes ownership of h.
// It fails if h is the native sentinel, in which case
// release is not called.
func own(h native.Handle, release func(native.Handle) error) (handle, error) {
	if h == native.Nil {
		return handle{}, ErrInvalidHandle
	}
	return handle{h, release}, nil
}

// get returns the native handle.
// ok is false if the handle was released.
func (h *handle) get() (native.Handle, bool) { return h.h, h.h != native.Nil }

// close releases the native handle.
// Calling close more than once has no effect.
func (h *handle) close() error {
	if h.h == native.Nil {
		return nil
	}
	x, f := h.h, h.release
	*h = handle{}
	return f(x)
}
