// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
	"fmt"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

// Check checks that f is a valid glTF node hierarchy.
// Every index must be in range and the nodes must form
// disjoint trees: no node may have more than one parent.
func (f *GLTF) Check() error {
	if f.Asset.Version != "2.0" {
		return newErr("invalid Asset.Version value")
	}
	if s := f.Scene; s != nil && (*s < 0 || *s >= int64(len(f.Scenes))) {
		return newErr("invalid GLTF.Scene index")
	}
	var lights []Light
	if f.Extensions != nil && f.Extensions.Lights != nil {
		lights = f.Extensions.Lights.Lights
	}
	nlight := len(lights)
	parent := make([]int64, len(f.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, n := range f.Nodes {
		if c := n.Camera; c != nil && (*c < 0 || *c >= int64(len(f.Cameras))) {
			return newErr(fmt.Sprintf("invalid Node.Camera index in node %d", i))
		}
		if e := n.Extensions; e != nil && e.Light != nil && (e.Light.Light < 0 || e.Light.Light >= int64(nlight)) {
			return newErr(fmt.Sprintf("invalid Node.Extensions.Light index in node %d", i))
		}
		for _, c := range n.Children {
			switch {
			case c < 0 || c >= int64(len(f.Nodes)):
				return newErr(fmt.Sprintf("invalid Node.Children index in node %d", i))
			case c == int64(i) || parent[c] >= 0:
				return newErr(fmt.Sprintf("node %d has more than one parent", c))
			}
			parent[c] = int64(i)
		}
	}
	// With a single parent per node, a cycle is the only
	// way for a node to be its own ancestor.
	for i := range parent {
		n := 0
		for p := parent[i]; p >= 0; p = parent[p] {
			if n++; n > len(parent) {
				return newErr(fmt.Sprintf("node %d is its own ancestor", i))
			}
		}
	}
	for i, s := range f.Scenes {
		for _, n := range s.Nodes {
			switch {
			case n < 0 || n >= int64(len(f.Nodes)):
				return newErr(fmt.Sprintf("invalid Scene.Nodes index in scene %d", i))
			case parent[n] >= 0:
				return newErr(fmt.Sprintf("scene %d has non-root node %d", i, n))
			}
		}
	}
	for i, c := range f.Cameras {
		switch {
		case c.Type == PERSPECTIVE && c.Perspective == nil,
			c.Type == ORTHOGRAPHIC && c.Orthographic == nil,
			c.Type != PERSPECTIVE && c.Type != ORTHOGRAPHIC:
			return newErr(fmt.Sprintf("invalid Camera.Type value in camera %d", i))
		}
	}
	for i, l := range lights {
		switch l.Type {
		case DIRECTIONAL, POINT:
		case SPOT:
			if l.Spot == nil {
				return newErr(fmt.Sprintf("missing Light.Spot in spot light %d", i))
			}
		default:
			return newErr(fmt.Sprintf("invalid Light.Type value in light %d", i))
		}
	}
	return nil
}
