// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/gviegas/usd/native"
)

// Stage is one parsed scene.
// It is the sole owner of the native memory allocated
// for the scene, which is freed by Close.
//
// All native calls made on behalf of a stage, including
// those made through its Prims, are serialized. Stages
// that are not closed are released when garbage
// collected, but callers should not rely on this.
type Stage struct {
	mu    sync.Mutex
	lib   native.Library
	h     handle
	root  native.Handle
	path  string
	paths native.PathQuerier
}

// OpenLibrary parses the file at path using lib.
// It fails with ErrNotFound if path does not exist,
// *ParseError if the content is malformed and
// ErrUnsupported if the scene uses constructs that lib
// cannot handle. No Stage exists if OpenLibrary fails.
func OpenLibrary(lib native.Library, path string) (*Stage, error) {
	return openLibrary(lib, path, path)
}

// openLibrary parses file. path is what the Stage and
// its errors report as the stage's path.
func openLibrary(lib native.Library, file, path string) (*Stage, error) {
	if err := lib.Open(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoLibrary, lib.Name(), err)
	}
	nh, warn, err := lib.OpenStage(file)
	if err != nil {
		return nil, checkResult(err, path)
	}
	h, err := own(nh, lib.ReleaseStage)
	if err != nil {
		return nil, err
	}
	root, err := lib.Root(nh)
	if err == nil && root == native.Nil {
		err = native.Fail(native.CodeInvalidHandle, "nil root prim")
	}
	if err != nil {
		if e := h.close(); e != nil {
			slog.Warn("usd: release failed", "path", path, "err", checkResult(e, path))
		}
		return nil, checkResult(err, path)
	}
	if warn != "" {
		slog.Warn("usd: parser warning", "path", path, "warn", warn)
	}
	s := &Stage{lib: lib, h: h, root: root, path: path}
	s.paths, _ = lib.(native.PathQuerier)
	runtime.SetFinalizer(s, (*Stage).finalize)
	slog.Debug("usd: stage opened", "path", path, "library", lib.Name())
	return s, nil
}

// OpenContext is like OpenLibrary, but gives up waiting
// when ctx is done.
// The native parse cannot be interrupted: it keeps running
// in the background and the stage it produces, if any, is
// closed as soon as it completes.
func OpenContext(ctx context.Context, lib native.Library, path string) (*Stage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		s   *Stage
		err error
	}
	ch := make(chan result, 1)
	go func() {
		s, err := OpenLibrary(lib, path)
		ch <- result{s, err}
	}()
	select {
	case r := <-ch:
		return r.s, r.err
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.s != nil {
				r.s.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// Path returns the path that s was opened from.
func (s *Stage) Path() string { return s.path }

// Library returns the native library that parsed s.
func (s *Stage) Library() native.Library { return s.lib }

// Close releases the native memory of s.
// Prims and Traversals derived from s are unusable
// afterwards. Calling Close more than once has no effect.
func (s *Stage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	runtime.SetFinalizer(s, nil)
	return checkResult(s.h.close(), s.path)
}

func (s *Stage) finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.h.get(); !ok {
		return
	}
	slog.Warn("usd: stage garbage collected without Close", "path", s.path)
	if err := s.h.close(); err != nil {
		slog.Warn("usd: release failed", "path", s.path, "err", checkResult(err, s.path))
	}
}

// do calls f with the native stage handle while holding
// s.mu. It fails with ErrStale if s is closed.
// Native failures returned by f are converted.
func (s *Stage) do(f func(lib native.Library, h native.Handle) error) error {
	if s == nil {
		return ErrInvalidHandle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.h.get()
	if !ok {
		return ErrStale
	}
	return checkResult(f(s.lib, h), s.path)
}

// wrap creates the Prims for the given child handles of
// the prim at parent.
// It must be called from within s.do.
func (s *Stage) wrap(lib native.Library, h native.Handle, parent string, hs []native.Handle) ([]Prim, error) {
	ps := make([]Prim, len(hs))
	for i, c := range hs {
		if c == native.Nil {
			return nil, native.Fail(native.CodeInvalidHandle, "nil child prim")
		}
		ps[i] = Prim{s: s, h: c}
		if s.paths != nil {
			continue
		}
		name, err := lib.PrimName(h, c)
		if err != nil {
			return nil, err
		}
		ps[i].path = join(parent, name)
	}
	return ps, nil
}

func join(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}

// RootPrims returns the top-level prims of s, that is,
// the children of the pseudo-root.
func (s *Stage) RootPrims() ([]Prim, error) {
	var ps []Prim
	err := s.do(func(lib native.Library, h native.Handle) error {
		hs, err := lib.Children(h, s.root)
		if err != nil {
			return err
		}
		ps, err = s.wrap(lib, h, "/", hs)
		return err
	})
	return ps, err
}

// USDA serializes s as USDA text.
func (s *Stage) USDA() (string, error) {
	var str string
	err := s.do(func(lib native.Library, h native.Handle) (err error) {
		str, err = lib.StageString(h)
		return
	})
	return str, err
}
