// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import "strings"

// Common prim type names.
const (
	TypeXform    = "Xform"
	TypeScope    = "Scope"
	TypeMesh     = "Mesh"
	TypeMaterial = "Material"
	TypeShader   = "Shader"
	TypeCamera   = "Camera"
)

// IsXform reports whether typeName is TypeXform.
func IsXform(typeName string) bool { return typeName == TypeXform }

// IsMesh reports whether typeName is TypeMesh.
func IsMesh(typeName string) bool { return typeName == TypeMesh }

// IsMaterial reports whether typeName is TypeMaterial.
func IsMaterial(typeName string) bool { return typeName == TypeMaterial }

// IsShader reports whether typeName is TypeShader.
func IsShader(typeName string) bool { return typeName == TypeShader }

// IsCamera reports whether typeName is TypeCamera.
func IsCamera(typeName string) bool { return typeName == TypeCamera }

// IsLight reports whether typeName names a light schema
// (e.g., "DistantLight", "SphereLight").
func IsLight(typeName string) bool { return strings.HasSuffix(typeName, "Light") }
