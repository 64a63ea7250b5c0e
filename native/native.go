// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package native defines the boundary between the usd
// package and a native USD parser.
// Implementations wrap a specific library (e.g., tinyusdz)
// and report every failure as a *Failure, so that callers
// never see a raw sentinel value.
package native

import (
	"errors"
	"log/slog"
	"sync"
)

// Handle is an opaque reference to an object owned by
// a Library. Its value is meaningful only to the Library
// that produced it.
type Handle uintptr

// Nil represents an invalid Handle.
const Nil Handle = 0

// Format is the encoding of a USD document.
type Format int

// Formats.
const (
	FormatUnknown Format = iota
	FormatUSDA
	FormatUSDC
	FormatUSDZ
)

func (f Format) String() string {
	switch f {
	case FormatUSDA:
		return "usda"
	case FormatUSDC:
		return "usdc"
	case FormatUSDZ:
		return "usdz"
	}
	return "unknown"
}

// Ext returns the file extension of f, including the dot.
// It returns the empty string for FormatUnknown.
func (f Format) Ext() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// Library is the interface that a native USD parser
// must implement.
//
// Stage handles are owned by the caller from OpenStage
// until ReleaseStage. Prim handles are borrowed from the
// stage that produced them and become invalid when it is
// released.
//
// Callers should assume that Library methods are not safe
// for parallel execution on the same stage.
type Library interface {
	// Name returns the name of the library.
	// It must not cause the library to be loaded.
	Name() string

	// Open loads the library.
	// If it succeeds, further calls have no effect.
	// It returns ErrNotInstalled if the library is not
	// present in the system.
	Open() error

	// Close unloads the library.
	// Closing a library that is not open has no effect.
	Close()

	// OpenStage parses the file at path.
	// On success, it returns a stage handle and any warnings
	// that the parser produced. On failure, no stage exists.
	OpenStage(path string) (stage Handle, warn string, err error)

	// ReleaseStage frees all memory associated with stage.
	ReleaseStage(stage Handle) error

	// Root returns the pseudo-root prim of stage.
	Root(stage Handle) (Handle, error)

	// Children returns the direct children of prim,
	// in native order.
	Children(stage, prim Handle) ([]Handle, error)

	// PrimName returns the leaf name of prim.
	PrimName(stage, prim Handle) (string, error)

	// TypeName returns the schema type of prim.
	// Untyped prims have an empty type name.
	TypeName(stage, prim Handle) (string, error)

	// PropertyNames returns the names of the properties
	// declared on prim, in native order.
	PropertyNames(stage, prim Handle) ([]string, error)

	// StageString serializes stage as USDA text.
	StageString(stage Handle) (string, error)

	// PrimString returns a textual description of prim.
	PrimString(stage, prim Handle) (string, error)

	// DetectFormat identifies the format of the file at path.
	DetectFormat(path string) Format

	// IsUSDFile reports whether the file at path holds USD data.
	IsUSDFile(path string) bool

	// IsUSDMemory reports whether data holds USD data.
	IsUSDMemory(data []byte) bool
}

// PathQuerier is implemented by libraries that can report
// the full scene-graph path of a prim.
type PathQuerier interface {
	PrimPath(stage, prim Handle) (string, error)
}

// ErrNotInstalled means that the shared library that a
// Library wraps is not present in the system.
var ErrNotInstalled = errors.New("native: missing required library")

// Libraries returns the registered Libraries.
// Client code imports specific library packages, which
// register themselves on init.
func Libraries() []Library {
	mu.Lock()
	defer mu.Unlock()
	libs := make([]Library, len(libraries))
	copy(libs, libraries)
	return libs
}

// Register registers a Library.
// If a library with the same name has already been
// registered, it will be replaced by lib.
func Register(lib Library) {
	mu.Lock()
	defer mu.Unlock()
	for i := range libraries {
		if libraries[i].Name() == lib.Name() {
			libraries[i] = lib
			slog.Warn("native library replaced", "name", lib.Name())
			return
		}
	}
	libraries = append(libraries, lib)
	slog.Debug("native library registered", "name", lib.Name())
}

var (
	mu        sync.Mutex
	libraries = make([]Library, 0, 1)
)
