// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLibrary is a Library whose methods all fail.
type nopLibrary struct{ name string }

func (l *nopLibrary) Name() string { return l.name }
func (l *nopLibrary) Open() error  { return ErrNotInstalled }
func (l *nopLibrary) Close()       {}

func (l *nopLibrary) OpenStage(string) (Handle, string, error) {
	return Nil, "", Fail(CodeInternal, "")
}
func (l *nopLibrary) ReleaseStage(Handle) error { return Fail(CodeInvalidHandle, "") }
func (l *nopLibrary) Root(Handle) (Handle, error) {
	return Nil, Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) Children(Handle, Handle) ([]Handle, error) {
	return nil, Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) PrimName(Handle, Handle) (string, error) {
	return "", Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) TypeName(Handle, Handle) (string, error) {
	return "", Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) PropertyNames(Handle, Handle) ([]string, error) {
	return nil, Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) StageString(Handle) (string, error) {
	return "", Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) PrimString(Handle, Handle) (string, error) {
	return "", Fail(CodeInvalidHandle, "")
}
func (l *nopLibrary) DetectFormat(string) Format { return FormatUnknown }
func (l *nopLibrary) IsUSDFile(string) bool      { return false }
func (l *nopLibrary) IsUSDMemory([]byte) bool    { return false }

func TestRegister(t *testing.T) {
	n := len(Libraries())
	a := &nopLibrary{name: "native_test.a"}
	b := &nopLibrary{name: "native_test.b"}
	Register(a)
	Register(b)
	libs := Libraries()
	require.Len(t, libs, n+2)
	assert.Same(t, a, libs[n])
	assert.Same(t, b, libs[n+1])

	// Same name replaces in place.
	a2 := &nopLibrary{name: "native_test.a"}
	Register(a2)
	libs = Libraries()
	require.Len(t, libs, n+2)
	assert.Same(t, a2, libs[n])

	// The returned slice is a copy.
	libs[n] = nil
	assert.NotNil(t, Libraries()[n])
}

func TestFailure(t *testing.T) {
	assert.Equal(t, "native: parse error: bad token", Fail(CodeParse, "bad token").Error())
	assert.Equal(t, "native: invalid handle", Fail(CodeInvalidHandle, "").Error())
	assert.Equal(t, "code(42)", Code(42).String())
}

func TestFormat(t *testing.T) {
	for _, x := range [...]struct {
		f   Format
		s   string
		ext string
	}{
		{FormatUnknown, "unknown", ""},
		{FormatUSDA, "usda", ".usda"},
		{FormatUSDC, "usdc", ".usdc"},
		{FormatUSDZ, "usdz", ".usdz"},
	} {
		assert.Equal(t, x.s, x.f.String())
		assert.Equal(t, x.ext, x.f.Ext())
	}
}
