// Copyright 2024 Gustavo C. Viegas. All rights reserved.

//go:build !cgo || windows

package tinyusdz

// SetPath has no effect: the tinyusdz library can only
// be loaded on cgo-enabled POSIX systems, and nothing is
// registered elsewhere.
func SetPath(path string) {}
