// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk header.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// SeekJSON seeks into r until it finds the beginning
// of the JSON string.
// If successful, it returns the length of the chunk.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		err = errors.New("gltf: not a GLB blob")
		return
	}
	var c glbChunk
	err = binary.Read(r, binary.LittleEndian, c[:])
	switch {
	case err != nil:
	case c[chunkLength] == 0 || c[chunkType] != typeJSON:
		err = errors.New("gltf: invalid GLB chunk")
	default:
		n = int(c[chunkLength])
	}
	return
}

// pad4 pads b to a multiple of 4 bytes with c.
func pad4(b []byte, c byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, c)
	}
	return b
}

// WriteGLB writes gltf to w as a GLB blob.
// bin is the optional binary chunk; it is omitted if empty.
func WriteGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	var js bytes.Buffer
	if err := Encode(&js, gltf); err != nil {
		return err
	}
	jchunk := pad4(js.Bytes(), ' ')
	n := 12 + 8 + len(jchunk)
	var bchunk []byte
	if len(bin) > 0 {
		bchunk = pad4(append([]byte(nil), bin...), 0)
		n += 8 + len(bchunk)
	}
	hdr := glbHeader{magic, 2, uint32(n)}
	if err := binary.Write(w, binary.LittleEndian, hdr[:]); err != nil {
		return err
	}
	for _, x := range [...]struct {
		typ  uint32
		data []byte
	}{{typeJSON, jchunk}, {typeBIN, bchunk}} {
		if len(x.data) == 0 {
			continue
		}
		c := glbChunk{uint32(len(x.data)), x.typ}
		if err := binary.Write(w, binary.LittleEndian, c[:]); err != nil {
			return err
		}
		if _, err := w.Write(x.data); err != nil {
			return err
		}
	}
	return nil
}

// ReadGLB reads a GLB blob from r.
// It returns the decoded JSON chunk and the binary chunk,
// which is nil if not present.
func ReadGLB(r io.Reader) (*GLTF, []byte, error) {
	n, err := SeekJSON(r)
	if err != nil {
		return nil, nil, err
	}
	js := make([]byte, n)
	if _, err := io.ReadFull(r, js); err != nil {
		return nil, nil, err
	}
	gltf, err := Decode(bytes.NewReader(js))
	if err != nil {
		return nil, nil, err
	}
	var c glbChunk
	switch err := binary.Read(r, binary.LittleEndian, c[:]); {
	case err == io.EOF:
		return gltf, nil, nil
	case err != nil:
		return nil, nil, err
	case c[chunkType] != typeBIN:
		return nil, nil, errors.New("gltf: invalid GLB chunk")
	}
	bin := make([]byte, c[chunkLength])
	if _, err := io.ReadFull(r, bin); err != nil {
		return nil, nil, err
	}
	return gltf, bin, nil
}
