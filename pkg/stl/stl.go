// Package stl reads and writes binary STL files.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strings"

	"github.com/Faultbox/terratile/pkg/math"
)

// Binary STL layout.
const (
	HeaderSize     = 80
	countSize      = 4
	facetSize      = 50
	DefaultHeader  = "Binary STL - TerrainTiles Export"
	headerAndCount = HeaderSize + countSize
)

// STL format errors.
var (
	ErrTruncatedSTL          = errors.New("truncated STL data")
	ErrTriangleCountMismatch = errors.New("STL triangle count does not match data length")
	ErrTooManyTriangles      = errors.New("too many triangles for binary STL")
)

// Mesh is any triangle collection that can be written as STL.
type Mesh interface {
	TriangleCount() int
	Triangle(i int) [3]math.Vec3
}

// Size returns the encoded length of a mesh with n triangles.
func Size(n int) int {
	return headerAndCount + facetSize*n
}

// Encode writes m as binary STL. The header is truncated or zero-padded to 80 bytes.
//
// Each facet normal is the normalized (v1-v0)×(v2-v0). Degenerate facets get a
// zero normal; they are not repaired.
func Encode(w io.Writer, header string, m Mesh) error {
	n := m.TriangleCount()
	if uint64(n) > gomath.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrTooManyTriangles, n)
	}

	bw := bufio.NewWriter(w)

	var head [headerAndCount]byte
	copy(head[:HeaderSize], header)
	binary.LittleEndian.PutUint32(head[HeaderSize:], uint32(n))
	if _, err := bw.Write(head[:]); err != nil {
		return err
	}

	var facet [facetSize]byte
	for i := range n {
		tri := m.Triangle(i)
		putVec(facet[0:12], math.TriangleNormal(tri[0], tri[1], tri[2]))
		putVec(facet[12:24], tri[0])
		putVec(facet[24:36], tri[1])
		putVec(facet[36:48], tri[2])
		// facet[48:50] is the attribute byte count, always zero.
		if _, err := bw.Write(facet[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Marshal returns m encoded as binary STL.
func Marshal(header string, m Mesh) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(Size(m.TriangleCount()))
	if err := Encode(&buf, header, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes m to path.
func WriteFile(path, header string, m Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, header, m); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func putVec(b []byte, v math.Vec3) {
	f := v.Float32()
	binary.LittleEndian.PutUint32(b[0:], gomath.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], gomath.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], gomath.Float32bits(f[2]))
}

// Facet is one decoded STL triangle.
type Facet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// File is a decoded binary STL file.
type File struct {
	Header string
	Facets []Facet
}

// Parse decodes binary STL data. The data length must match the declared count.
func Parse(data []byte) (*File, error) {
	if len(data) < headerAndCount {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedSTL, len(data))
	}

	r := bytes.NewReader(data)
	var header [HeaderSize]byte
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading triangle count: %w", err)
	}

	want := uint64(headerAndCount) + uint64(facetSize)*uint64(count)
	switch {
	case uint64(len(data)) < want:
		return nil, fmt.Errorf("%w: %d triangles declared, %d bytes", ErrTruncatedSTL, count, len(data))
	case uint64(len(data)) > want:
		return nil, fmt.Errorf("%w: %d triangles declared, %d bytes", ErrTriangleCountMismatch, count, len(data))
	}

	facets := make([]Facet, count)
	if err := binary.Read(r, binary.LittleEndian, facets); err != nil {
		return nil, fmt.Errorf("reading facets: %w", err)
	}

	return &File{
		Header: strings.TrimRight(string(header[:]), "\x00"),
		Facets: facets,
	}, nil
}

// ParseFile reads and parses a binary STL file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
