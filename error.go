// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"errors"
	"fmt"

	"github.com/gviegas/usd/native"
)

// ErrNotFound means that the path given to Open does
// not resolve to a file.
var ErrNotFound = errors.New("usd: file not found")

// ErrInvalidHandle means that the native library returned
// an invalid handle or rejected one that it was given.
var ErrInvalidHandle = errors.New("usd: invalid native handle")

// ErrUnsupported means that the native library recognized
// a construct or capability that it does not implement.
// Property values are always reported this way.
var ErrUnsupported = errors.New("usd: unsupported feature")

// ErrStale means that a Prim, Property or Traversal was
// used after its Stage was closed.
var ErrStale = errors.New("usd: stale reference")

// ErrPropertyNotFound means that a prim does not declare
// a property with the requested name.
var ErrPropertyNotFound = errors.New("usd: property not found")

// ErrNoLibrary means that no native library could be
// loaded.
var ErrNoLibrary = errors.New("usd: no native library available")

// ErrNative means that the native library failed for
// a reason not covered by the other errors.
var ErrNative = errors.New("usd: native library failure")

// ParseError describes malformed or truncated input.
// Msg is the diagnostic produced by the native parser.
type ParseError struct {
	Path string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return "usd: cannot parse " + e.Path
	}
	return "usd: cannot parse " + e.Path + ": " + e.Msg
}

// checkResult converts a native failure into one of the
// errors above. path names the file that the failure
// relates to.
// Errors that are not *native.Failure are returned as is.
func checkResult(err error, path string) error {
	if err == nil {
		return nil
	}
	var f *native.Failure
	if !errors.As(err, &f) {
		return err
	}
	switch f.Code {
	case native.CodeNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case native.CodeParse:
		return &ParseError{Path: path, Msg: f.Msg}
	case native.CodeUnsupported:
		return wrap(ErrUnsupported, f.Msg)
	case native.CodeInvalidHandle:
		return wrap(ErrInvalidHandle, f.Msg)
	default:
		return wrap(ErrNative, f.Msg)
	}
}

func wrap(err error, msg string) error {
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}
