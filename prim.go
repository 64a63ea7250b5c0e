// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"fmt"
	"slices"

	"github.com/gviegas/usd/native"
)

// Prim is a node of a Stage's scene graph.
//
// A Prim is a view: it owns no native memory and is only
// usable while its Stage is open. After the stage is
// closed, every method fails with ErrStale.
// The zero Prim is invalid.
type Prim struct {
	s    *Stage
	h    native.Handle
	path string
}

// Stage returns the stage that p belongs to.
func (p Prim) Stage() *Stage { return p.s }

// IsValid reports whether p refers to a prim of a stage
// that is still open.
func (p Prim) IsValid() bool {
	return p.s.do(func(native.Library, native.Handle) error { return nil }) == nil
}

// Name returns the leaf name of p.
func (p Prim) Name() (string, error) {
	var name string
	err := p.s.do(func(lib native.Library, h native.Handle) (err error) {
		name, err = lib.PrimName(h, p.h)
		return
	})
	return name, err
}

// Path returns the full scene-graph path of p
// (e.g., "/scene/Meshes").
func (p Prim) Path() (string, error) {
	path := p.path
	err := p.s.do(func(lib native.Library, h native.Handle) (err error) {
		if p.s.paths != nil {
			path, err = p.s.paths.PrimPath(h, p.h)
		}
		return
	})
	return path, err
}

// TypeName returns the schema type of p (e.g., "Xform",
// "Mesh"). It is empty for untyped prims.
func (p Prim) TypeName() (string, error) {
	var typ string
	err := p.s.do(func(lib native.Library, h native.Handle) (err error) {
		typ, err = lib.TypeName(h, p.h)
		return
	})
	return typ, err
}

// PropertyNames returns the names of the properties
// declared on p, in declaration order.
func (p Prim) PropertyNames() ([]string, error) {
	var names []string
	err := p.s.do(func(lib native.Library, h native.Handle) (err error) {
		names, err = lib.PropertyNames(h, p.h)
		return
	})
	return names, err
}

// Children returns the direct children of p, in native
// order.
func (p Prim) Children() ([]Prim, error) {
	var ps []Prim
	err := p.s.do(func(lib native.Library, h native.Handle) error {
		hs, err := lib.Children(h, p.h)
		if err != nil {
			return err
		}
		ps, err = p.s.wrap(lib, h, p.path, hs)
		return err
	})
	return ps, err
}

// NumChildren returns the number of direct children of p.
func (p Prim) NumChildren() (int, error) {
	var n int
	err := p.s.do(func(lib native.Library, h native.Handle) error {
		hs, err := lib.Children(h, p.h)
		n = len(hs)
		return err
	})
	return n, err
}

// Child returns the i-th direct child of p.
// It fails with ErrInvalidHandle if i is out of range.
func (p Prim) Child(i int) (Prim, error) {
	var c Prim
	err := p.s.do(func(lib native.Library, h native.Handle) error {
		hs, err := lib.Children(h, p.h)
		if err != nil {
			return err
		}
		if i < 0 || i >= len(hs) {
			return fmt.Errorf("%w: child %d of %d", ErrInvalidHandle, i, len(hs))
		}
		ps, err := p.s.wrap(lib, h, p.path, hs[i:i+1])
		if err != nil {
			return err
		}
		c = ps[0]
		return nil
	})
	return c, err
}

// Property returns the property of p named name.
// It fails with ErrPropertyNotFound if p does not declare
// such a property.
func (p Prim) Property(name string) (Property, error) {
	names, err := p.PropertyNames()
	if err != nil {
		return Property{}, err
	}
	if !slices.Contains(names, name) {
		return Property{}, wrap(ErrPropertyNotFound, name)
	}
	return Property{p, name}, nil
}

// Dump returns the native library's textual description
// of p.
func (p Prim) Dump() (string, error) {
	var str string
	err := p.s.do(func(lib native.Library, h native.Handle) (err error) {
		str, err = lib.PrimString(h, p.h)
		return
	})
	return str, err
}

// Info is a snapshot of a prim's metadata.
type Info struct {
	Name        string
	Path        string
	TypeName    string
	Properties  []string
	NumChildren int
}

// Info queries all metadata of p at once.
func (p Prim) Info() (Info, error) {
	var info Info
	err := p.s.do(func(lib native.Library, h native.Handle) (err error) {
		if info.Name, err = lib.PrimName(h, p.h); err != nil {
			return
		}
		if info.TypeName, err = lib.TypeName(h, p.h); err != nil {
			return
		}
		if info.Properties, err = lib.PropertyNames(h, p.h); err != nil {
			return
		}
		hs, err := lib.Children(h, p.h)
		if err != nil {
			return
		}
		info.NumChildren = len(hs)
		info.Path = p.path
		if p.s.paths != nil {
			info.Path, err = p.s.paths.PrimPath(h, p.h)
		}
		return
	})
	return info, err
}
