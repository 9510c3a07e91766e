package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/ott/pkg/math3d"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

// stlFacet is the binary STL record.
type stlFacet struct {
	Normal [3]float32
	V      [3][3]float32
	Attr   uint16
}

func loadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadSTL(bytes.NewReader(data), filepath.Base(path))
}

// ReadSTL parses a binary or ASCII STL stream. Each facet gets three
// vertices carrying the facet normal, so shading stays flat.
func ReadSTL(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	if isBinarySTL(data) {
		return readBinarySTL(data, name)
	}
	return readASCIISTL(data, name)
}

// isBinarySTL trusts the facet count: ASCII files that happen to start with
// "solid" are common in binary exports too.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlFacetSize
}

func toVec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

func addFacet(m *Mesh, normal math3d.Vec3, v [3]math3d.Vec3) {
	base := len(m.Vertices)
	for _, p := range v {
		m.Vertices = append(m.Vertices, MeshVertex{Position: p, Normal: normal})
	}
	m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}, Material: -1})
}

func readBinarySTL(data []byte, name string) (*Mesh, error) {
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	facets := make([]stlFacet, n)
	if err := binary.Read(bytes.NewReader(data[stlHeaderSize+4:]), binary.LittleEndian, facets); err != nil {
		return nil, fmt.Errorf("binary stl: %w", err)
	}

	m := NewMesh(name)
	m.Vertices = make([]MeshVertex, 0, 3*n)
	m.Faces = make([]Face, 0, n)
	for _, f := range facets {
		addFacet(m, toVec3(f.Normal), [3]math3d.Vec3{toVec3(f.V[0]), toVec3(f.V[1]), toVec3(f.V[2])})
	}
	return m, nil
}

func readASCIISTL(data []byte, name string) (*Mesh, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	m := NewMesh(name)
	var (
		normal  math3d.Vec3
		corners []math3d.Vec3
		inFacet bool
		line    int
		solid   bool
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			solid = true
		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("ascii stl line %d: malformed facet", line)
			}
			v, err := parseFloats(fields[2:], 3)
			if err != nil {
				return nil, fmt.Errorf("ascii stl line %d: %w", line, err)
			}
			normal, corners, inFacet = math3d.V3(v[0], v[1], v[2]), corners[:0], true
		case "vertex":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("ascii stl line %d: %w", line, err)
			}
			corners = append(corners, math3d.V3(v[0], v[1], v[2]))
		case "endfacet":
			if !inFacet || len(corners) != 3 {
				return nil, fmt.Errorf("ascii stl line %d: facet has %d vertices", line, len(corners))
			}
			addFacet(m, normal, [3]math3d.Vec3{corners[0], corners[1], corners[2]})
			inFacet = false
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ascii stl: %w", err)
	}
	if !solid {
		return nil, errors.New("stl: neither binary nor ascii")
	}
	return m, nil
}
