// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/usd"
	"github.com/gviegas/usd/native/fake"
)

func setup(t *testing.T) {
	t.Helper()
	for _, k := range [...]string{"USD_LIBRARY", "USD_LIBRARY_PATH", "USD_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("USD_COLOR", "never")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, usd.Use(fake.New("fake")))
}

func TestRun(t *testing.T) {
	setup(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"../../testdata/misc.yaml"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, `Loading: ../../testdata/misc.yaml

Scene Hierarchy:
================
World <(no type)>  [3 children, 0 properties]
  Camera <Camera>  [0 children, 1 properties]
      .focalLength
  Sun <DistantLight>  [0 children, 1 properties]
      .inputs:intensity
  Empty <(no type)>  [0 children, 0 properties]
Looks <Scope>  [0 children, 0 properties]

Done!
`, stdout.String())
}

func TestRunLimit(t *testing.T) {
	setup(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-n", "2", "-paths", "../../testdata/scene.yaml"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "    /scene/Meshes/Chassis <Mesh>  [0 children, 6 properties]\n"+
		"        .points\n"+
		"        .faceVertexCounts\n"+
		"        ... and 4 more properties\n")
	assert.Contains(t, out, "\n/scene <Xform>")
}

func TestRunErrors(t *testing.T) {
	setup(t)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"a", "b"}, &stdout, &stderr))

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"../../testdata/variants.yaml"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error: usd: unsupported feature")

	t.Setenv("USD_COLOR", "plaid")
	stderr.Reset()
	assert.Equal(t, 1, run([]string{"../../testdata/scene.yaml"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error: invalid config")
}
