// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"github.com/gviegas/usd/native"
)

// Property is a named attribute slot declared on a Prim.
type Property struct {
	prim Prim
	name string
}

// Name returns the name of the property
// (e.g., "xformOp:scale").
func (p Property) Name() string { return p.name }

// Prim returns the prim that declares the property.
func (p Property) Prim() Prim { return p.prim }

// Value always fails: the native library does not
// expose property values. The error is ErrUnsupported,
// or ErrStale if the stage was closed.
func (p Property) Value() (any, error) {
	err := p.prim.s.do(func(native.Library, native.Handle) error {
		return native.Fail(native.CodeUnsupported, "value of property "+p.name)
	})
	return nil, err
}
