// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf implements the subset of glTF 2.0 needed to
// describe a node hierarchy: nodes, scenes, cameras and
// KHR_lights_punctual lights. Geometry, materials and
// animation are not represented.
package gltf

import (
	"encoding/json"
	"io"
)

// Root glTF object.
type GLTF struct {
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`
	Asset          Asset    `json:"asset"`
	Cameras        []Camera `json:"cameras,omitempty"`
	Nodes          []Node   `json:"nodes,omitempty"`
	Scene          *int64   `json:"scene,omitempty"`
	Scenes         []Scene  `json:"scenes,omitempty"`
	Extensions     *Ext     `json:"extensions,omitempty"`
	Extras         any      `json:"extras,omitempty"`
}

// glTF.asset.
type Asset struct {
	Copyright  string `json:"copyright,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Extras     any    `json:"extras,omitempty"`
}

// glTF.extensions.
type Ext struct {
	Lights *KHRLightsPunctual `json:"KHR_lights_punctual,omitempty"`
}

// Name of the lights extension.
const LightsExt = "KHR_lights_punctual"

// glTF.cameras' element.
type Camera struct {
	Perspective  *Perspective  `json:"perspective,omitempty"`
	Orthographic *Orthographic `json:"orthographic,omitempty"`
	Type         string        `json:"type"`
	Name         string        `json:"name,omitempty"`
	Extras       any           `json:"extras,omitempty"`
}

// camera.type.
const (
	PERSPECTIVE  = "perspective"
	ORTHOGRAPHIC = "orthographic"
)

// camera.orthographic.
type Orthographic struct {
	XMag  float32 `json:"xmag"`
	YMag  float32 `json:"ymag"`
	ZFar  float32 `json:"zfar"`
	ZNear float32 `json:"znear"`
}

// camera.perspective.
type Perspective struct {
	AspectRatio float32 `json:"aspectRatio,omitempty"`
	YFOV        float32 `json:"yfov"`
	ZFar        float32 `json:"zfar,omitempty"` // 0 for infinite projection.
	ZNear       float32 `json:"znear"`
}

// glTF.nodes' element.
type Node struct {
	Camera      *int64       `json:"camera,omitempty"`
	Children    []int64      `json:"children,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"`      // Default is identity.
	Rotation    *[4]float32  `json:"rotation,omitempty"`    // Default is [0, 0, 0, 1].
	Scale       *[3]float32  `json:"scale,omitempty"`       // Default is [1, 1, 1].
	Translation *[3]float32  `json:"translation,omitempty"` // Default is [0, 0, 0].
	Name        string       `json:"name,omitempty"`
	Extensions  *NodeExt     `json:"extensions,omitempty"`
	Extras      any          `json:"extras,omitempty"`
}

// node.extensions.
type NodeExt struct {
	Light *NodeLight `json:"KHR_lights_punctual,omitempty"`
}

// node.extensions.KHR_lights_punctual.
type NodeLight struct {
	Light int64 `json:"light"`
}

// glTF.scenes' element.
type Scene struct {
	Nodes  []int64 `json:"nodes,omitempty"`
	Name   string  `json:"name,omitempty"`
	Extras any     `json:"extras,omitempty"`
}

// glTF.extensions.KHR_lights_punctual.
type KHRLightsPunctual struct {
	Lights []Light `json:"lights"`
}

// KHR_lights_punctual.lights' element.
type Light struct {
	Color     *[3]float32 `json:"color,omitempty"`     // Default is [1, 1, 1].
	Intensity *float32    `json:"intensity,omitempty"` // Default is 1.
	Spot      *Spot       `json:"spot,omitempty"`
	Range     float32     `json:"range,omitempty"` // 0 for infinite range.
	Type      string      `json:"type"`
	Name      string      `json:"name,omitempty"`
	Extras    any         `json:"extras,omitempty"`
}

// light.type.
const (
	DIRECTIONAL = "directional"
	POINT       = "point"
	SPOT        = "spot"
)

// KHR_lights_punctual.light.spot.
type Spot struct {
	InnerConeAngle float32  `json:"innerConeAngle,omitempty"` // Default is 0.
	OuterConeAngle *float32 `json:"outerConeAngle,omitempty"` // Default is 0.7853981633974483.
}

// Encode encodes gltf into w as JSON.
func Encode(w io.Writer, gltf *GLTF) error {
	return json.NewEncoder(w).Encode(gltf)
}

// Decode decodes JSON from r into a new GLTF instance.
func Decode(r io.Reader) (*GLTF, error) {
	var gltf GLTF
	if err := json.NewDecoder(r).Decode(&gltf); err != nil {
		return nil, err
	}
	return &gltf, nil
}
