// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package usd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/usd/native/fake"
)

func zipData(t *testing.T) []byte {
	t.Helper()
	var b bytes.Buffer
	w := zip.NewWriter(&b)
	f, err := w.Create("scene.usdc")
	require.NoError(t, err)
	_, err = f.Write([]byte("PXR-USDC"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

func TestSniff(t *testing.T) {
	for _, x := range [...]struct {
		data []byte
		want Format
	}{
		{zipData(t), FormatUSDZ},
		{[]byte("PXR-USDC\x00\x08\x00"), FormatUSDC},
		{[]byte("#usda 1.0\n"), FormatUSDA},
		{[]byte("\ufeff\n  #usda 1.0\n(\n)\n"), FormatUSDA},
		{[]byte("usda 1.0"), FormatUnknown},
		{[]byte("PXR"), FormatUnknown},
		{nil, FormatUnknown},
	} {
		if have := Sniff(x.data); have != x.want {
			t.Fatalf("Sniff(%q):\nhave %v\nwant %v", x.data, have, x.want)
		}
	}
}

func sceneData(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(scenePath)
	require.NoError(t, err)
	return data
}

// tempFiles points TMPDIR at a fresh directory and returns
// a function that lists what is left in it.
func tempFiles(t *testing.T) func() []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	return func() []string {
		m, err := filepath.Glob(filepath.Join(dir, "*"))
		require.NoError(t, err)
		return m
	}
}

func TestOpenBytes(t *testing.T) {
	lib := newLib(t)
	left := tempFiles(t)
	s, err := OpenBytes(lib, sceneData(t), FormatUSDZ)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, MemoryPath, s.Path())
	assert.Empty(t, left(), "temporary file not removed")
	assert.Len(t, walk(t, s), sceneCount)
}

func TestOpenBytesSniffed(t *testing.T) {
	lib := newLib(t)
	data := append([]byte("#usda 1.0\n"), sceneData(t)...)
	s, err := OpenBytes(lib, data, FormatUnknown)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, MemoryPath, s.Path())

	_, err = OpenBytes(lib, []byte("prims: []"), FormatUnknown)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, MemoryPath, pe.Path)
	assert.Equal(t, 1, lib.Opened())
}

func TestOpenBytesParseError(t *testing.T) {
	lib := newLib(t)
	left := tempFiles(t)
	_, err := OpenBytes(lib, []byte("#usda 1.0\nprims: {"), FormatUSDA)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, MemoryPath, pe.Path)
	assert.True(t, strings.HasPrefix(err.Error(), "usd: cannot parse <memory>"), err.Error())
	assert.Empty(t, left())
	assert.Equal(t, 0, lib.Live())
}

func TestFromMemory(t *testing.T) {
	lib := fake.New("usd_test.memory")
	require.NoError(t, Use(lib))

	data := append([]byte("#usda 1.0\n"), sceneData(t)...)
	for _, f := range [...]func([]byte) (*Stage, error){FromUSDA, FromUSDC, FromUSDZ, FromMemory} {
		s, err := f(data)
		require.NoError(t, err)
		assert.Same(t, lib, s.Library())
		require.NoError(t, s.Close())
	}
	_, err := FromUSDA([]byte("#usda 1.0\nprims: {"))
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, lib.Live())
}
