// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package fake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gviegas/usd/native"
)

// Prim describes one node of a Scene.
type Prim struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type,omitempty"`
	Properties []string `yaml:"properties,omitempty"`
	Children   []*Prim  `yaml:"children,omitempty"`
}

// Scene describes a document served by Library.
// It is the in-memory equivalent of a parsed USD file.
type Scene struct {
	// Format is the format reported by DetectFormat
	// ("usda", "usdc" or "usdz"). Defaults to "usda".
	Format string `yaml:"format,omitempty"`

	// Requires lists constructs used by the document.
	// Library handles none of them, so a non-empty list
	// makes OpenStage fail with native.CodeUnsupported.
	Requires []string `yaml:"requires,omitempty"`

	// Prims holds the children of the pseudo-root.
	// The key must be present (an empty stage is
	// written as "prims: []").
	Prims []*Prim `yaml:"prims"`
}

// sceneFile is used to tell an absent prims key
// apart from an empty one.
type sceneFile struct {
	Format   string   `yaml:"format,omitempty"`
	Requires []string `yaml:"requires,omitempty"`
	Prims    *[]*Prim `yaml:"prims"`
}

// Decode parses a YAML scene description.
// Unknown keys are rejected.
func Decode(data []byte) (*Scene, error) {
	var f sceneFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if f.Prims == nil {
		return nil, errors.New("missing prims")
	}
	s := &Scene{Format: f.Format, Requires: f.Requires, Prims: *f.Prims}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes s as YAML.
func Encode(w io.Writer, s *Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func (s *Scene) check() error {
	switch s.Format {
	case "", "usda", "usdc", "usdz":
	default:
		return fmt.Errorf("invalid format %q", s.Format)
	}
	var walk func([]*Prim, string) error
	walk = func(prims []*Prim, parent string) error {
		seen := make(map[string]bool, len(prims))
		for _, p := range prims {
			if p == nil {
				return fmt.Errorf("%s: nil prim", parent)
			}
			if p.Name == "" || strings.ContainsAny(p.Name, "/ \t\n") {
				return fmt.Errorf("%s: invalid prim name %q", parent, p.Name)
			}
			if seen[p.Name] {
				return fmt.Errorf("%s: duplicate prim name %q", parent, p.Name)
			}
			seen[p.Name] = true
			if err := walk(p.Children, strings.TrimSuffix(parent, "/")+"/"+p.Name); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s.Prims, "/")
}

func (s *Scene) format() native.Format {
	switch s.Format {
	case "usdc":
		return native.FormatUSDC
	case "usdz":
		return native.FormatUSDZ
	}
	return native.FormatUSDA
}

// Count returns the number of prims in s, not counting
// the pseudo-root.
func (s *Scene) Count() int {
	var count func([]*Prim) int
	count = func(prims []*Prim) int {
		n := len(prims)
		for _, p := range prims {
			n += count(p.Children)
		}
		return n
	}
	return count(s.Prims)
}
