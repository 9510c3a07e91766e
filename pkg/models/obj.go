package models

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/ott/pkg/math3d"
)

// objRef is one corner of an OBJ face: 1-based position, texcoord and normal
// indices after resolving negatives; 0 means absent.
type objRef [3]int

type objReader struct {
	mesh      *Mesh
	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3
	corners   map[objRef]int
	materials map[string]int
	material  int

	// dir resolves mtllib and texture paths; empty disables them.
	dir string
}

func loadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readOBJ(f, filepath.Base(path), filepath.Dir(path))
}

// ReadOBJ parses a Wavefront OBJ stream. Polygons are fan-triangulated and
// mtllib statements are ignored. The mesh keeps OBJ's right-handed
// coordinates; call ConvertHandedness to match the engine.
func ReadOBJ(r io.Reader, name string) (*Mesh, error) {
	return readOBJ(r, name, "")
}

func readOBJ(r io.Reader, name, dir string) (*Mesh, error) {
	or := &objReader{
		mesh:      NewMesh(name),
		corners:   make(map[objRef]int),
		materials: make(map[string]int),
		material:  -1,
		dir:       dir,
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := or.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("obj line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return or.mesh, nil
}

func (or *objReader) parseLine(text string) error {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]

	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		or.positions = append(or.positions, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		or.uvs = append(or.uvs, math3d.V2(v[0], v[1]))
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		or.normals = append(or.normals, math3d.V3(v[0], v[1], v[2]))
	case "f":
		return or.parseFace(args)
	case "usemtl":
		if len(args) > 0 {
			or.useMaterial(args[0])
		}
	case "mtllib":
		if or.dir != "" && len(args) > 0 {
			// A missing material library leaves faces untextured.
			_ = or.loadMTL(filepath.Join(or.dir, args[0]))
		}
	}
	return nil
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// resolve converts a 1-based or negative OBJ index against count elements.
func resolve(s string, count int) (int, error) {
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = count + 1 + i
	}
	if i < 1 || i > count {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, count)
	}
	return i, nil
}

func (or *objReader) corner(tok string) (int, error) {
	parts := strings.Split(tok, "/")
	var ref objRef
	counts := [3]int{len(or.positions), len(or.uvs), len(or.normals)}
	for k := 0; k < len(parts) && k < 3; k++ {
		i, err := resolve(parts[k], counts[k])
		if err != nil {
			return 0, err
		}
		ref[k] = i
	}
	if ref[0] == 0 {
		return 0, fmt.Errorf("face corner %q has no position", tok)
	}
	if idx, ok := or.corners[ref]; ok {
		return idx, nil
	}

	v := MeshVertex{Position: or.positions[ref[0]-1]}
	if ref[1] > 0 {
		v.UV = or.uvs[ref[1]-1]
	}
	if ref[2] > 0 {
		v.Normal = or.normals[ref[2]-1]
	}
	or.mesh.Vertices = append(or.mesh.Vertices, v)
	idx := len(or.mesh.Vertices) - 1
	or.corners[ref] = idx
	return idx, nil
}

func (or *objReader) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs 3 corners, got %d", len(args))
	}
	idx := make([]int, len(args))
	for i, tok := range args {
		c, err := or.corner(tok)
		if err != nil {
			return err
		}
		idx[i] = c
	}
	for i := 1; i+1 < len(idx); i++ {
		or.mesh.Faces = append(or.mesh.Faces, Face{
			V:        [3]int{idx[0], idx[i], idx[i+1]},
			Material: or.material,
		})
	}
	return nil
}

func (or *objReader) useMaterial(name string) {
	if i, ok := or.materials[name]; ok {
		or.material = i
		return
	}
	or.mesh.Materials = append(or.mesh.Materials, Material{Name: name, BaseColor: [4]float64{1, 1, 1, 1}})
	or.material = len(or.mesh.Materials) - 1
	or.materials[name] = or.material
}

// loadMTL reads diffuse colors (Kd) and diffuse maps (map_Kd).
func (or *objReader) loadMTL(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cur := -1
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			or.useMaterial(fields[1])
			cur = or.material
		case "Kd":
			if cur < 0 {
				continue
			}
			if kd, err := parseFloats(fields[1:], 3); err == nil {
				or.mesh.Materials[cur].BaseColor = [4]float64{kd[0], kd[1], kd[2], 1}
			}
		case "map_Kd":
			if cur < 0 {
				continue
			}
			or.mesh.Materials[cur].BaseMap = decodeImageFile(filepath.Join(filepath.Dir(path), fields[len(fields)-1]))
		}
	}
	or.material = -1
	return sc.Err()
}

func decodeImageFile(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	return img
}
