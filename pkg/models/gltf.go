package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for embedded textures
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/ott/pkg/math3d"
)

// loadGLTF reads every triangle primitive of every mesh in a GLTF or GLB
// document. Node transforms are ignored.
func loadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = readMaterials(doc, filepath.Dir(path))
	for _, m := range doc.Meshes {
		if err := readGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	if err := checkFaces(mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}

func readGLTFMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}

		var normals []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3(doc, idx); err != nil {
				return fmt.Errorf("normals: %w", err)
			}
		}
		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2(doc, idx); err != nil {
				return fmt.Errorf("uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// GLTF puts V=0 at the top of the image.
				v.UV = math3d.V2(uvs[i].X, 1-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]},
				Material: material,
			})
		}
	}
	return nil
}

// readMaterials extracts base colors and base color images. Images that
// fail to decode are left nil.
func readMaterials(doc *gltf.Document, dir string) []Material {
	mats := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mats[i] = Material{Name: m.Name, BaseColor: [4]float64{1, 1, 1, 1}}
		pbr := m.PBRMetallicRoughness
		if pbr == nil {
			continue
		}
		if pbr.BaseColorFactor != nil {
			mats[i].BaseColor = *pbr.BaseColorFactor
		}
		if pbr.BaseColorTexture == nil {
			continue
		}
		ti := pbr.BaseColorTexture.Index
		if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
			continue
		}
		data := imageBytes(doc, *doc.Textures[ti].Source, dir)
		if len(data) == 0 {
			continue
		}
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			mats[i].BaseMap = img
		}
	}
	return mats
}

func imageBytes(doc *gltf.Document, idx int, dir string) []byte {
	if idx < 0 || idx >= len(doc.Images) {
		return nil
	}
	img := doc.Images[idx]
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf) {
			return nil
		}
		return buf[bv.ByteOffset:end]
	}
	if img.URI == "" || img.IsEmbeddedResource() {
		data, _ := img.MarshalData()
		return data
	}
	data, err := os.ReadFile(filepath.Join(dir, img.URI))
	if err != nil {
		return nil
	}
	return data
}

// accessorView returns the accessor's backing bytes, element stride and
// count. Buffers are loaded by gltf.Open, including external URIs.
func accessorView(doc *gltf.Document, acr *gltf.Accessor, elemSize int) (data []byte, stride, count int, err error) {
	if acr.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor %q has no buffer view", acr.Name)
	}
	bv := doc.BufferViews[*acr.BufferView]
	data = doc.Buffers[bv.Buffer].Data
	stride = bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bv.ByteOffset + acr.ByteOffset
	if acr.Count > 0 && start+(acr.Count-1)*stride+elemSize > len(data) {
		return nil, 0, 0, fmt.Errorf("accessor %q overruns its buffer", acr.Name)
	}
	return data[start:], stride, acr.Count, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func float32At(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorVec3 || acr.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v %v", acr.ComponentType, acr.Type)
	}
	data, stride, count, err := accessorView(doc, acr, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V3(float32At(b), float32At(b[4:]), float32At(b[8:]))
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorVec2 || acr.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC2, got %v %v", acr.ComponentType, acr.Type)
	}
	data, stride, count, err := accessorView(doc, acr, 8)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V2(float32At(b), float32At(b[4:]))
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acr.Type)
	}

	var size int
	switch acr.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index type %v", acr.ComponentType)
	}
	data, stride, count, err := accessorView(doc, acr, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
