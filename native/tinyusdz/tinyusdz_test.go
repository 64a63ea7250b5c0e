// Copyright 2024 Gustavo C. Viegas. All rights reserved.

//go:build cgo && !windows

package tinyusdz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/usd/native"
)

func openLib(t *testing.T) *Library {
	t.Helper()
	if err := lib.Open(); err != nil {
		if errors.Is(err, native.ErrNotInstalled) {
			t.Skip("tinyusdz: ", err)
		}
		t.Fatalf("lib.Open:\nhave %v\nwant nil", err)
	}
	return &lib
}

func TestRegistered(t *testing.T) {
	for _, l := range native.Libraries() {
		if l == native.Library(&lib) {
			return
		}
	}
	t.Fatal("tinyusdz library not registered")
}

func TestOpenStage(t *testing.T) {
	l := openLib(t)
	s, _, err := l.OpenStage("testdata/simple.usda")
	require.NoError(t, err)
	defer func() { assert.NoError(t, l.ReleaseStage(s)) }()

	root, err := l.Root(s)
	require.NoError(t, err)
	roots, err := l.Children(s, root)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	var names []string
	for _, r := range roots {
		n, err := l.PrimName(s, r)
		require.NoError(t, err)
		names = append(names, n)
	}
	assert.Equal(t, []string{"scene", "Looks"}, names)

	typ, err := l.TypeName(s, roots[0])
	require.NoError(t, err)
	assert.Equal(t, "Xform", typ)

	kids, err := l.Children(s, roots[0])
	require.NoError(t, err)
	require.Len(t, kids, 2)
	props, err := l.PropertyNames(s, kids[1])
	require.NoError(t, err)
	assert.Contains(t, props, "xformOp:scale")

	str, err := l.StageString(s)
	require.NoError(t, err)
	assert.Contains(t, str, "Chassis")

	assert.Equal(t, native.FormatUSDA, l.DetectFormat("testdata/simple.usda"))
	assert.True(t, l.IsUSDFile("testdata/simple.usda"))
}

func TestOpenStageFailures(t *testing.T) {
	l := openLib(t)
	_, _, err := l.OpenStage("testdata/missing.usda")
	var f *native.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, native.CodeNotFound, f.Code)

	_, _, err = l.OpenStage("testdata/truncated.usda")
	require.ErrorAs(t, err, &f)
	assert.Equal(t, native.CodeParse, f.Code)
	assert.NotEmpty(t, f.Msg)
}

func TestReleaseTwice(t *testing.T) {
	l := openLib(t)
	s, _, err := l.OpenStage("testdata/simple.usda")
	require.NoError(t, err)
	require.NoError(t, l.ReleaseStage(s))

	var f *native.Failure
	require.ErrorAs(t, l.ReleaseStage(s), &f)
	assert.Equal(t, native.CodeInvalidHandle, f.Code)
	_, err = l.Children(s, s)
	assert.ErrorAs(t, err, &f)
}

func TestClassify(t *testing.T) {
	for _, x := range [...]struct {
		msg  string
		code native.Code
	}{
		{"", native.CodeParse},
		{"Syntax error at line 4", native.CodeParse},
		{"VariantSet is not supported yet", native.CodeUnsupported},
		{"Unsupported USDC version", native.CodeUnsupported},
	} {
		if have := classify(x.msg).Code; have != x.code {
			t.Fatalf("classify(%q):\nhave %v\nwant %v", x.msg, have, x.code)
		}
	}
}
