package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles.
var ErrUnsupportedFormat = errors.New("models: unsupported format")

// Loader reads model files and post-processes them into the engine's
// conventions.
type Loader struct {
	// CalculateNormals fills in normals for meshes that have none.
	CalculateNormals bool
	// SmoothNormals averages normals across shared vertices.
	SmoothNormals bool
	// KeepHandedness skips the right-handed to left-handed conversion.
	KeepHandedness bool
}

// NewLoader creates a loader with default options.
func NewLoader() *Loader {
	return &Loader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// Load reads a .glb, .gltf, .obj or .stl file.
func Load(path string) (*Mesh, error) {
	return NewLoader().Load(path)
}

// Load reads a model file, choosing the format by extension.
func (l *Loader) Load(path string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		mesh, err = loadGLTF(path)
	case ".obj":
		mesh, err = loadOBJ(path)
	case ".stl":
		mesh, err = loadSTL(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	l.finish(mesh)
	return mesh, nil
}

// finish applies the loader options to freshly parsed right-handed data.
func (l *Loader) finish(mesh *Mesh) {
	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	if !l.KeepHandedness {
		mesh.ConvertHandedness()
	}
	mesh.CalculateBounds()
}

// checkFaces validates every face index against the vertex count.
func checkFaces(m *Mesh) error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f.V {
			if v < 0 || v >= n {
				return fmt.Errorf("face %d: vertex index %d out of range (have %d)", i, v, n)
			}
		}
	}
	return nil
}
