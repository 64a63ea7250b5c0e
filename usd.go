// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package usd provides read-only access to USD scenes
// (USDA, USDC and USDZ) parsed by a native library.
//
// A native library is made available by importing its
// package for side effects:
//
//	import _ "github.com/gviegas/usd/native/tinyusdz"
//
// A Stage owns the memory of one parsed scene and must be
// closed when no longer needed. Prims are views into the
// stage; they own nothing and fail with ErrStale once the
// stage is closed.
package usd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gviegas/usd/native"
)

// Format is the encoding of a USD document.
type Format = native.Format

// Formats.
const (
	FormatUnknown = native.FormatUnknown
	FormatUSDA    = native.FormatUSDA
	FormatUSDC    = native.FormatUSDC
	FormatUSDZ    = native.FormatUSDZ
)

var (
	libMu  sync.Mutex
	deflib native.Library
)

// Load selects the native library used by the package
// level functions (Open, FromUSDA, DetectFormat, etc).
// It picks the first registered library whose name
// contains name (case insensitive) and that loads
// successfully. The empty name matches any library.
func Load(name string) (native.Library, error) {
	libMu.Lock()
	defer libMu.Unlock()
	return load(name)
}

// load must be called with libMu held.
func load(name string) (native.Library, error) {
	err := ErrNoLibrary
	name = strings.ToLower(name)
	for _, l := range native.Libraries() {
		if !strings.Contains(strings.ToLower(l.Name()), name) {
			continue
		}
		if e := l.Open(); e != nil {
			err = fmt.Errorf("%w: %s: %v", ErrNoLibrary, l.Name(), e)
			continue
		}
		deflib = l
		return l, nil
	}
	return nil, err
}

// Use makes l the library used by the package level
// functions. It loads l if needed.
func Use(l native.Library) error {
	if err := l.Open(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoLibrary, l.Name(), err)
	}
	libMu.Lock()
	deflib = l
	libMu.Unlock()
	return nil
}

// Library returns the library used by the package level
// functions, loading one if none was selected yet.
func Library() (native.Library, error) {
	libMu.Lock()
	defer libMu.Unlock()
	if deflib != nil {
		return deflib, nil
	}
	return load("")
}

// Open parses the file at path using Library().
// The format is detected by the native library.
func Open(path string) (*Stage, error) {
	l, err := Library()
	if err != nil {
		return nil, err
	}
	return OpenLibrary(l, path)
}

// DetectFormat identifies the format of the file at path.
func DetectFormat(path string) (Format, error) {
	l, err := Library()
	if err != nil {
		return FormatUnknown, err
	}
	return l.DetectFormat(path), nil
}

// IsUSDFile reports whether the file at path holds
// USD data.
func IsUSDFile(path string) (bool, error) {
	l, err := Library()
	if err != nil {
		return false, err
	}
	return l.IsUSDFile(path), nil
}

// IsUSDMemory reports whether data holds USD data.
func IsUSDMemory(data []byte) (bool, error) {
	l, err := Library()
	if err != nil {
		return false, err
	}
	return l.IsUSDMemory(data), nil
}
