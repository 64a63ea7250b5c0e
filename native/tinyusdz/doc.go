// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package tinyusdz provides a native.Library backed by the
// tinyusdz C API (libc-tinyusd).
//
// The shared object is loaded at run time, so programs
// that import this package build and run without it;
// native.Library.Open then fails with
// native.ErrNotInstalled.
package tinyusdz
