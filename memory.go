// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"bytes"
	"os"

	"github.com/h2non/filetype"

	"github.com/gviegas/usd/native"
)

// Sniff identifies the format of in-memory USD data from
// its leading bytes. USDZ files are zip archives, USDC
// files start with the crate magic and USDA files with
// the "#usda" header.
func Sniff(data []byte) Format {
	switch {
	case filetype.Is(data, "zip"):
		return FormatUSDZ
	case bytes.HasPrefix(data, []byte("PXR-USDC")):
		return FormatUSDC
	case bytes.HasPrefix(bytes.TrimLeft(data, "\ufeff \t\r\n"), []byte("#usda")):
		return FormatUSDA
	}
	return FormatUnknown
}

// MemoryPath is the path reported by stages parsed from
// memory and by their errors.
const MemoryPath = "<memory>"

// OpenBytes parses data using lib.
// If format is FormatUnknown, it is determined by Sniff.
//
// The native library only parses files, so data is
// written to a temporary file that is removed before
// OpenBytes returns. The Stage's Path is MemoryPath.
func OpenBytes(lib native.Library, data []byte, format Format) (*Stage, error) {
	if format == FormatUnknown {
		if format = Sniff(data); format == FormatUnknown {
			return nil, &ParseError{Path: MemoryPath, Msg: "unrecognized content"}
		}
	}
	f, err := os.CreateTemp("", "usd-*"+format.Ext())
	if err != nil {
		return nil, err
	}
	name := f.Name()
	defer os.Remove(name)
	_, err = f.Write(data)
	if e := f.Close(); err == nil {
		err = e
	}
	if err != nil {
		return nil, err
	}
	return openLibrary(lib, name, MemoryPath)
}

func fromMemory(data []byte, format Format) (*Stage, error) {
	l, err := Library()
	if err != nil {
		return nil, err
	}
	return OpenBytes(l, data, format)
}

// FromUSDA parses USDA (text) data using Library().
func FromUSDA(data []byte) (*Stage, error) { return fromMemory(data, FormatUSDA) }

// FromUSDC parses USDC (binary crate) data using Library().
func FromUSDC(data []byte) (*Stage, error) { return fromMemory(data, FormatUSDC) }

// FromUSDZ parses USDZ (zip package) data using Library().
func FromUSDZ(data []byte) (*Stage, error) { return fromMemory(data, FormatUSDZ) }

// FromMemory parses data of any supported format using
// Library(). The format is determined by Sniff.
func FromMemory(data []byte) (*Stage, error) { return fromMemory(data, FormatUnknown) }
