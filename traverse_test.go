// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/usd/native/fake"
)

type visit struct {
	path  string
	typ   string
	depth int
}

func walk(t *testing.T, s *Stage) []visit {
	t.Helper()
	var vs []visit
	tr := s.Traverse()
	for tr.Next() {
		p := tr.Prim()
		path, err := p.Path()
		require.NoError(t, err)
		typ, err := p.TypeName()
		require.NoError(t, err)
		vs = append(vs, visit{path, typ, tr.Depth()})
	}
	require.NoError(t, tr.Err())
	return vs
}

func TestTraverseScene(t *testing.T) {
	s := openStage(t, newLib(t), scenePath)
	vs := walk(t, s)
	require.Len(t, vs, sceneCount)

	for i, want := range [...]visit{
		{"/scene", "Xform", 0},
		{"/scene/Materials", "Scope", 1},
		{"/scene/Materials/Body", "Material", 2},
		{"/scene/Materials/Body/PreviewSurface", "Shader", 3},
		{"/scene/Materials/Glass", "Material", 2},
	} {
		if vs[i] != want {
			t.Fatalf("Traverse: prim #%d\nhave %+v\nwant %+v", i, vs[i], want)
		}
	}
	if have, want := vs[sceneCount-2], (visit{"/scene/Meshes", "Xform", 1}); have != want {
		t.Fatalf("Traverse: prim #%d\nhave %+v\nwant %+v", sceneCount-2, have, want)
	}
	if have, want := vs[sceneCount-1], (visit{"/scene/Meshes/Chassis", "Mesh", 2}); have != want {
		t.Fatalf("Traverse: prim #%d\nhave %+v\nwant %+v", sceneCount-1, have, want)
	}

	roots, err := s.RootPrims()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	name, err := roots[0].Name()
	require.NoError(t, err)
	assert.Equal(t, "scene", name)
	kids, err := roots[0].Children()
	require.NoError(t, err)
	require.Len(t, kids, 2)
	n, err := roots[0].NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c, err := roots[0].Child(1)
	require.NoError(t, err)
	assert.Equal(t, kids[1], c)
	_, err = roots[0].Child(2)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	info, err := roots[0].Info()
	require.NoError(t, err)
	assert.Equal(t, Info{
		Name:        "scene",
		Path:        "/scene",
		TypeName:    TypeXform,
		NumChildren: 2,
	}, info)
	info, err = kids[0].Info()
	require.NoError(t, err)
	assert.Equal(t, Info{
		Name:        "Materials",
		Path:        "/scene/Materials",
		TypeName:    TypeScope,
		NumChildren: 9,
	}, info)
	info, err = kids[1].Info()
	require.NoError(t, err)
	assert.Equal(t, Info{
		Name:        "Meshes",
		Path:        "/scene/Meshes",
		TypeName:    TypeXform,
		Properties:  []string{"xformOp:scale"},
		NumChildren: 1,
	}, info)
}

func TestTraverseDeterministic(t *testing.T) {
	s := openStage(t, newLib(t), scenePath)
	first := walk(t, s)
	for range 3 {
		assert.Equal(t, first, walk(t, s))
	}
}

func TestTraverseIndependent(t *testing.T) {
	s := openStage(t, newLib(t), scenePath)
	a, b := s.Traverse(), s.Traverse()
	require.True(t, a.Next())
	require.True(t, a.Next())
	require.True(t, b.Next())
	pa, _ := a.Prim().Path()
	pb, _ := b.Prim().Path()
	assert.Equal(t, "/scene/Materials", pa)
	assert.Equal(t, "/scene", pb)
}

func TestTraverseEmpty(t *testing.T) {
	s := openStage(t, newLib(t), emptyPath)
	tr := s.Traverse()
	for range 3 {
		assert.False(t, tr.Next())
	}
	assert.NoError(t, tr.Err())
	assert.Equal(t, Prim{}, tr.Prim())
	roots, err := s.RootPrims()
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestTraverseMultipleRoots(t *testing.T) {
	s := openStage(t, newLib(t), miscPath)
	want := []visit{
		{"/World", "", 0},
		{"/World/Camera", TypeCamera, 1},
		{"/World/Sun", "DistantLight", 1},
		{"/World/Empty", "", 1},
		{"/Looks", TypeScope, 0},
	}
	assert.Equal(t, want, walk(t, s))
}

// Children are only queried when the traversal advances
// past their parent.
func TestTraverseLazy(t *testing.T) {
	lib := newLib(t)
	s := openStage(t, lib, scenePath)
	tr := s.Traverse()
	require.True(t, tr.Next())

	// Failing a prim that was not reached yet does not
	// affect the prims before it.
	lib.Fail(fake.OpChildren, "/scene/Meshes", fakeFailure)
	n := 1
	for tr.Next() {
		n++
	}
	assert.ErrorIs(t, tr.Err(), ErrNative)
	assert.Equal(t, sceneCount-1, n)
	assert.False(t, tr.Next())
}

func TestPathsFromLibrary(t *testing.T) {
	lib := newLib(t)
	have := walk(t, openStage(t, lib, scenePath))
	want := walk(t, openStage(t, fake.WithPaths(lib), scenePath))
	assert.Equal(t, want, have)
}

func TestAll(t *testing.T) {
	s := openStage(t, newLib(t), scenePath)
	want := walk(t, s)
	var have []string
	for p, err := range s.All() {
		require.NoError(t, err)
		path, err := p.Path()
		require.NoError(t, err)
		have = append(have, path)
	}
	require.Len(t, have, len(want))
	for i := range want {
		assert.Equal(t, want[i].path, have[i])
	}

	n := 0
	for range s.All() {
		if n++; n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestAllError(t *testing.T) {
	lib := newLib(t)
	lib.Fail(fake.OpChildren, "/scene", fakeFailure)
	s := openStage(t, lib, scenePath)
	var errs []error
	n := 0
	for p, err := range s.All() {
		if err != nil {
			assert.False(t, p.IsValid())
			errs = append(errs, err)
			continue
		}
		n++
	}
	assert.Equal(t, 1, n)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNative)
}

func TestTypePredicates(t *testing.T) {
	s := openStage(t, newLib(t), miscPath)
	counts := map[string]int{}
	for p, err := range s.All() {
		require.NoError(t, err)
		typ, err := p.TypeName()
		require.NoError(t, err)
		for name, f := range map[string]func(string) bool{
			"xform": IsXform, "mesh": IsMesh, "material": IsMaterial,
			"shader": IsShader, "camera": IsCamera, "light": IsLight,
		} {
			if f(typ) {
				counts[name]++
			}
		}
	}
	assert.Equal(t, map[string]int{"camera": 1, "light": 1}, counts)
}

func TestIsLight(t *testing.T) {
	for _, x := range [...]struct {
		typ  string
		want bool
	}{
		{"DistantLight", true},
		{"SphereLight", true},
		{"DomeLight", true},
		{"Light", true},
		{"Mesh", false},
		{"", false},
		{"LightFilter", false},
	} {
		if have := IsLight(x.typ); have != x.want {
			t.Fatalf("IsLight(%q):\nhave %t\nwant %t", x.typ, have, x.want)
		}
	}
}
