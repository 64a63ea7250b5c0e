// Copyright 2024 Gustavo C. Viegas. All rights reserved.

//go:build cgo && !windows

package tinyusdz

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/gviegas/usd/native"
)

func init() {
	native.Register(&lib)
}

var lib Library

// Library implements native.Library using the tinyusdz
// C API.
// A single Library exists; it is registered on init.
type Library struct {
	mu     sync.Mutex
	p      proc
	path   string
	stages map[native.Handle]*stageData
}

type stageData struct {
	// Prims with no parent, computed on first use.
	roots []native.Handle
}

// SetPath sets the location of the shared object that
// Open loads. It has no effect if the library is already
// open.
// If SetPath is not called, the TINYUSD_LIBRARY environment
// variable is used, falling back to the system's default
// search for libc-tinyusd.
func SetPath(path string) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	lib.path = path
}

func (l *Library) soname() string {
	if l.path != "" {
		return l.path
	}
	if s := os.Getenv("TINYUSD_LIBRARY"); s != "" {
		return s
	}
	if runtime.GOOS == "darwin" {
		return "libc-tinyusd.dylib"
	}
	return "libc-tinyusd.so"
}

// Name implements native.Library.
func (l *Library) Name() string { return "tinyusdz" }

// Open implements native.Library.
func (l *Library) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.p.h != nil {
		return nil
	}
	if err := l.p.open(l.soname()); err != nil {
		return err
	}
	l.stages = make(map[native.Handle]*stageData)
	slog.Debug("tinyusdz: library loaded", "path", l.soname())
	return nil
}

// Close implements native.Library.
// The library stays loaded while any stage is live.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := len(l.stages); n > 0 {
		slog.Warn("tinyusdz: not unloading library with live stages", "stages", n)
		return
	}
	l.p.close()
	l.stages = nil
}

var errNotOpen = native.Fail(native.CodeInternal, "tinyusdz: library not open")

// stage checks that h is a live stage.
// It must be called with l.mu held.
func (l *Library) stage(h native.Handle) (*stageData, error) {
	if l.p.h == nil {
		return nil, errNotOpen
	}
	st, ok := l.stages[h]
	if !ok {
		return nil, native.Fail(native.CodeInvalidHandle, "unknown stage")
	}
	return st, nil
}

// classify converts a load error message into a Failure.
func classify(msg string) *native.Failure {
	s := strings.ToLower(msg)
	if strings.Contains(s, "not supported") || strings.Contains(s, "unsupported") {
		return native.Fail(native.CodeUnsupported, msg)
	}
	if msg == "" {
		msg = "failed to load USD file"
	}
	return native.Fail(native.CodeParse, msg)
}

// OpenStage implements native.Library.
func (l *Library) OpenStage(path string) (native.Handle, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.p.h == nil {
		return native.Nil, "", errNotOpen
	}
	switch _, err := os.Stat(path); {
	case errors.Is(err, fs.ErrNotExist):
		return native.Nil, "", native.Fail(native.CodeNotFound, path)
	case err != nil:
		return native.Nil, "", native.Fail(native.CodeInternal, err.Error())
	}
	s := l.p.stageNew()
	if s == 0 {
		return native.Nil, "", native.Fail(native.CodeInvalidHandle, "c_tinyusd_stage_new returned null")
	}
	ok, warn, msg := l.p.load(path, s)
	if !ok {
		l.p.stageFree(s)
		return native.Nil, "", classify(msg)
	}
	h := native.Handle(s)
	l.stages[h] = &stageData{}
	return h, warn, nil
}

// ReleaseStage implements native.Library.
func (l *Library) ReleaseStage(stage native.Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.stage(stage); err != nil {
		return err
	}
	delete(l.stages, stage)
	if !l.p.stageFree(uintptr(stage)) {
		return native.Fail(native.CodeInternal, "c_tinyusd_stage_free failed")
	}
	return nil
}

// Root implements native.Library.
// The C API has no pseudo-root prim, so the stage handle
// itself stands for it.
func (l *Library) Root(stage native.Handle) (native.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.stage(stage); err != nil {
		return native.Nil, err
	}
	return stage, nil
}

// roots computes the top-level prims of stage: those that
// the traversal visits but that are nobody's child.
// It must be called with l.mu held.
func (l *Library) roots(stage native.Handle, st *stageData) ([]native.Handle, error) {
	if st.roots != nil {
		return st.roots, nil
	}
	all, msg, ok := l.p.traverse(uintptr(stage))
	if !ok {
		return nil, native.Fail(native.CodeInternal, "traversal failed: "+msg)
	}
	child := make(map[uintptr]bool, len(all))
	for _, p := range all {
		cs, ok := l.p.primChildren(p)
		if !ok {
			return nil, native.Fail(native.CodeInvalidHandle, "c_tinyusd_prim_get_child failed")
		}
		for _, c := range cs {
			child[c] = true
		}
	}
	st.roots = make([]native.Handle, 0, max(0, len(all)-len(child)))
	for _, p := range all {
		if !child[p] {
			st.roots = append(st.roots, native.Handle(p))
		}
	}
	return st.roots, nil
}

// prim checks stage and prim.
// It must be called with l.mu held.
func (l *Library) prim(stage, prim native.Handle) error {
	if _, err := l.stage(stage); err != nil {
		return err
	}
	if prim == native.Nil || prim == stage {
		return native.Fail(native.CodeInvalidHandle, "not a prim")
	}
	return nil
}

// Children implements native.Library.
func (l *Library) Children(stage, prim native.Handle) ([]native.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, err := l.stage(stage)
	if err != nil {
		return nil, err
	}
	if prim == stage {
		rs, err := l.roots(stage, st)
		return append([]native.Handle(nil), rs...), err
	}
	if prim == native.Nil {
		return nil, native.Fail(native.CodeInvalidHandle, "nil prim")
	}
	cs, ok := l.p.primChildren(uintptr(prim))
	if !ok {
		return nil, native.Fail(native.CodeInvalidHandle, "c_tinyusd_prim_get_child failed")
	}
	hs := make([]native.Handle, len(cs))
	for i, c := range cs {
		hs[i] = native.Handle(c)
	}
	return hs, nil
}

// PrimName implements native.Library.
func (l *Library) PrimName(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.prim(stage, prim); err != nil {
		return "", err
	}
	return l.p.primName(uintptr(prim)), nil
}

// TypeName implements native.Library.
func (l *Library) TypeName(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.prim(stage, prim); err != nil {
		return "", err
	}
	return l.p.primType(uintptr(prim)), nil
}

// PropertyNames implements native.Library.
func (l *Library) PropertyNames(stage, prim native.Handle) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.prim(stage, prim); err != nil {
		return nil, err
	}
	names, ok := l.p.primPropertyNames(uintptr(prim))
	if !ok {
		return nil, native.Fail(native.CodeInternal, "c_tinyusd_prim_get_property_names failed")
	}
	return names, nil
}

// StageString implements native.Library.
func (l *Library) StageString(stage native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.stage(stage); err != nil {
		return "", err
	}
	s, ok := l.p.stageString(uintptr(stage))
	if !ok {
		return "", native.Fail(native.CodeInternal, "c_tinyusd_stage_to_string failed")
	}
	return s, nil
}

// PrimString implements native.Library.
func (l *Library) PrimString(stage, prim native.Handle) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.prim(stage, prim); err != nil {
		return "", err
	}
	s, ok := l.p.primString(uintptr(prim))
	if !ok {
		return "", native.Fail(native.CodeInternal, "c_tinyusd_prim_to_string failed")
	}
	return s, nil
}

// DetectFormat implements native.Library.
func (l *Library) DetectFormat(path string) native.Format {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.p.h == nil {
		return native.FormatUnknown
	}
	return l.p.detectFormat(path)
}

// IsUSDFile implements native.Library.
func (l *Library) IsUSDFile(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.h != nil && l.p.isUSDFile(path)
}

// IsUSDMemory implements native.Library.
func (l *Library) IsUSDMemory(data []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.h != nil && l.p.isUSDMemory(data)
}
