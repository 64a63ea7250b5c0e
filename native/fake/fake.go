// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package fake implements native.Library over scene
// descriptions held in memory or read from YAML files.
//
// It exists for testing code that consumes the native
// boundary: it counts stage acquisitions and releases,
// rejects stale handles, and can be told to fail specific
// queries.
package fake

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gviegas/usd/internal/slot"
	"github.com/gviegas/usd/native"
)

// Op identifies a Library query for failure injection.
type Op int

// Injectable queries.
const (
	OpChildren Op = iota
	OpPrimName
	OpTypeName
	OpPropertyNames
	OpPrimString
)

type stageData struct {
	scene *Scene
	root  native.Handle
	prims []native.Handle
}

type primData struct {
	stage    native.Handle
	p        *Prim
	path     string
	children []native.Handle
}

type injection struct {
	op   Op
	path string
}

// Library is a fake native.Library.
// It is safe for concurrent use.
type Library struct {
	name string

	mu       sync.Mutex
	open     bool
	files    map[string]*Scene
	stages   slot.Table[*stageData]
	prims    slot.Table[*primData]
	opened   int
	releases map[native.Handle]int
	inject   map[injection]*native.Failure
}

// New creates a Library with the given name.
func New(name string) *Library {
	return &Library{
		name:     name,
		files:    make(map[string]*Scene),
		releases: make(map[native.Handle]int),
		inject:   make(map[injection]*native.Failure),
	}
}

// Add makes s available to OpenStage at path.
// Paths added this way take precedence over the file
// system.
func (l *Library) Add(path string, s *Scene) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files[filepath.Clean(path)] = s
}

// Fail makes every op on the prim at path fail with f.
// A nil f removes the injection.
func (l *Library) Fail(op Op, path string, f *native.Failure) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := injection{op, path}
	if f == nil {
		delete(l.inject, k)
	} else {
		l.inject[k] = f
	}
}

// Opened returns the number of stages successfully
// opened so far.
func (l *Library) Opened() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opened
}

// Live returns the number of stages not yet released.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stages.Len()
}

// Releases returns how many times ReleaseStage was called
// with stage, including calls that failed.
func (l *Library) Releases(stage native.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releases[stage]
}

// Name implements native.Library.
func (l *Library) Name() string { return l.name }

// Open implements native.Library.
func (l *Library) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = true
	return nil
}

// Close implements native.Library.
// Stages that are still live remain valid.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
}

var errNotOpen = native.Fail(native.CodeInternal, "library not open")

// load finds the scene at path.
// It must be called with l.mu held.
func (l *Library) load(path string) (*Scene, *native.Failure) {
	if s, ok := l.files[filepath.Clean(path)]; ok {
		return s, nil
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, native.Fail(native.CodeNotFound, path)
	case err != nil:
		return nil, native.Fail(native.CodeInternal, err.Error())
	}
	s, err := Decode(data)
	if err != nil {
		return nil, native.Fail(native.CodeParse, err.Error())
	}
	return s, nil
}

// OpenStage implements native.Library.
func (l *Library) OpenStage(path string) (native.Handle, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return native.Nil, "", errNotOpen
	}
	s, f := l.load(path)
	if f != nil {
		return native.Nil, "", f
	}
	if len(s.Requires) > 0 {
		return native.Nil, "", native.Fail(native.CodeUnsupported, strings.Join(s.Requires, ", "))
	}

	st := &stageData{scene: s}
	h := native.Handle(l.stages.Insert(st))
	var add func(p *Prim, path string) native.Handle
	add = func(p *Prim, path string) native.Handle {
		x := &primData{stage: h, p: p, path: path}
		ph := native.Handle(l.prims.Insert(x))
		st.prims = append(st.prims, ph)
		for _, c := range p.Children {
			x.children = append(x.children, add(c, strings.TrimSuffix(path, "/")+"/"+c.Name))
		}
		return ph
	}
	st.root = add(&Prim{Children: s.Prims}, "/")
	l.opened++

	var warn string
	if s.Count() == 0 {
		warn = "stage has no prims"
	}
	return h, warn, nil
}

// ReleaseStage implements native.Library.
func (l *Library) ReleaseStage(stage native.Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases[stage]++
	st, ok := l.stages.Get(slot.ID(stage))
	if !ok {
		return native.Fail(native.CodeInvalidHandle, "release of unknown stage")
	}
	for _, p := range st.prims {
		l.prims.Remove(slot.ID(p))
	}
	l.stages.Remove(slot.ID(stage))
	return nil
}

// lookup validates stage and prim.
// It must be called with l.mu held.
func (l *Library) lookup(stage, prim native.Handle) (*primData, *native.Failure) {
	if !l.open {
		return nil, errNotOpen
	}
	if _, ok := l.stages.Get(slot.ID(stage)); !ok {
		return nil, native.Fail(native.CodeInvalidHandle, "unknown stage")
	}
	p, ok := l.prims.Get(slot.ID(prim))
	if !ok || p.stage != stage {
		return nil, native.Fail(native.CodeInvalidHandle, "unknown prim")
	}
	return p, nil
}

// query is lookup followed by the check for an injected
// failure.
func (l *Library) query(op Op, stage, prim native.Handle) (*primData, error) {
	p, f := l.lookup(stage, prim)
	if f != nil {
		return nil, f
	}
	if f := l.inject[injection{op, p.path}]; f != nil {
		return nil, f
	}
	return p, nil
}

// Root implements native.Library.
func (l *Library) Root(stage native.Handle) (native.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return native.Nil, errNotOpen
	}
	st, ok := l.stages.Get(slot.ID(stage))
	if !ok {
		return native.Nil, native.Fail(native.CodeInvalidHandle, "unknown stage")
	}
	return st.root, nil
}

// Children implements native.Library.
func (l *Library) Children(stage, prim native.Handle) ([]native.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.query(OpChildren, stage, prim)
	if err != nil {
		return nil, err
	}
	return append([]native.Handle(nil), p.children...), nil
}

// PrimName implements native.Library.
func (l *Library) PrimName(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.query(OpPrimName, stage, prim)
	if err != nil {
		return "", err
	}
	return p.p.Name, nil
}

// TypeName implements native.Library.
func (l *Library) TypeName(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.query(OpTypeName, stage, prim)
	if err != nil {
		return "", err
	}
	return p.p.Type, nil
}

// PropertyNames implements native.Library.
func (l *Library) PropertyNames(stage, prim native.Handle) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.query(OpPropertyNames, stage, prim)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), p.p.Properties...), nil
}

// StageString implements native.Library.
func (l *Library) StageString(stage native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return "", errNotOpen
	}
	st, ok := l.stages.Get(slot.ID(stage))
	if !ok {
		return "", native.Fail(native.CodeInvalidHandle, "unknown stage")
	}
	var b strings.Builder
	b.WriteString("#usda 1.0\n")
	var write func(p *Prim, depth int)
	write = func(p *Prim, depth int) {
		ind := strings.Repeat("    ", depth)
		b.WriteString("\n" + ind + "def ")
		if p.Type != "" {
			b.WriteString(p.Type + " ")
		}
		fmt.Fprintf(&b, "%q\n%s{\n", p.Name, ind)
		for _, prop := range p.Properties {
			fmt.Fprintf(&b, "%s    custom token %s\n", ind, prop)
		}
		for _, c := range p.Children {
			write(c, depth+1)
		}
		b.WriteString(ind + "}\n")
	}
	for _, p := range st.scene.Prims {
		write(p, 0)
	}
	return b.String(), nil
}

// PrimString implements native.Library.
func (l *Library) PrimString(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.query(OpPrimString, stage, prim)
	if err != nil {
		return "", err
	}
	typ := p.p.Type
	if typ == "" {
		typ = "(untyped)"
	}
	return fmt.Sprintf("%s %s [%d children, %d properties]",
		typ, p.path, len(p.children), len(p.p.Properties)), nil
}

// DetectFormat implements native.Library.
func (l *Library) DetectFormat(path string) native.Format {
	l.mu.Lock()
	s, f := l.load(path)
	l.mu.Unlock()
	if f != nil {
		return native.FormatUnknown
	}
	return s.format()
}

// IsUSDFile implements native.Library.
func (l *Library) IsUSDFile(path string) bool {
	return l.DetectFormat(path) != native.FormatUnknown
}

// IsUSDMemory implements native.Library.
func (l *Library) IsUSDMemory(data []byte) bool {
	_, err := Decode(data)
	return err == nil
}

// pathLibrary adds native.PathQuerier to Library.
type pathLibrary struct{ *Library }

// WithPaths returns a native.Library that also implements
// native.PathQuerier.
func WithPaths(l *Library) native.Library { return pathLibrary{l} }

// PrimPath implements native.PathQuerier.
func (l pathLibrary) PrimPath(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, f := l.lookup(stage, prim)
	if f != nil {
		return "", f
	}
	return p.path, nil
}
