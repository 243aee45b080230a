// Package mesh turns closed 2D outlines into beveled 3D solids and
// holds the triangle-mesh representation shared by every tree instance
// of the composed forest scene.
package mesh

import (
	"errors"
	"io"
	"math"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

func float32bits(f float32) uint32 { return math.Float32bits(f) }

// Mesh is an indexed triangle mesh with per-vertex normals and UVs.
// Meshes are generated once and treated as read-only by all consumers
// for the lifetime of a scene.
type Mesh struct {
	Vertices []ms3.Vec
	Normals  []ms3.Vec
	UV       []ms2.Vec
	Indices  []uint32
}

// Bounds computes the axis-aligned bounding box of the mesh vertices.
func (m *Mesh) Bounds() ms3.Box {
	if len(m.Vertices) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min = ms3.MinElem(bb.Min, v)
		bb.Max = ms3.MaxElem(bb.Max, v)
	}
	return bb
}

// Recenter translates the mesh so its bounding-box center coincides
// with the local origin and returns the offset that was applied.
// Surface appearance parameters derived from the bounding box assume
// recentered vertical coordinates.
func (m *Mesh) Recenter() ms3.Vec {
	bb := m.Bounds()
	center := ms3.Scale(0.5, ms3.Add(bb.Min, bb.Max))
	if center == (ms3.Vec{}) {
		return center
	}
	neg := ms3.Scale(-1, center)
	for i := range m.Vertices {
		m.Vertices[i] = ms3.Add(m.Vertices[i], neg)
	}
	return neg
}

// AppendTriangles expands the indexed representation and appends all
// mesh triangles to dst.
func (m *Mesh) AppendTriangles(dst []ms3.Triangle) []ms3.Triangle {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		dst = append(dst, ms3.Triangle{
			m.Vertices[m.Indices[i]],
			m.Vertices[m.Indices[i+1]],
			m.Vertices[m.Indices[i+2]],
		})
	}
	return dst
}

// ComputeNormals recalculates per-vertex normals by area-weighted
// averaging of incident face normals.
func (m *Mesh) ComputeNormals() {
	if len(m.Normals) != len(m.Vertices) {
		m.Normals = make([]ms3.Vec, len(m.Vertices))
	} else {
		for i := range m.Normals {
			m.Normals[i] = ms3.Vec{}
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		// Cross product magnitude carries the area weighting.
		n := ms3.Cross(
			ms3.Sub(m.Vertices[i1], m.Vertices[i0]),
			ms3.Sub(m.Vertices[i2], m.Vertices[i0]),
		)
		m.Normals[i0] = ms3.Add(m.Normals[i0], n)
		m.Normals[i1] = ms3.Add(m.Normals[i1], n)
		m.Normals[i2] = ms3.Add(m.Normals[i2], n)
	}
	for i, n := range m.Normals {
		if norm := ms3.Norm(n); norm > 0 {
			m.Normals[i] = ms3.Scale(1/norm, n)
		}
	}
}

// WriteBinarySTL writes triangles to w in binary STL format and
// returns the number of bytes written.
func WriteBinarySTL(w io.Writer, triangles []ms3.Triangle) (int, error) {
	if len(triangles) == 0 {
		return 0, errors.New("no triangles to write")
	}
	var header [84]byte
	copy(header[:], "tree2forest binary STL")
	put32 := func(b []byte, v uint32) {
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
		b[3] = byte(v >> 24)
	}
	put32(header[80:], uint32(len(triangles)))
	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	var facet [50]byte
	for _, t := range triangles {
		normal := triangleNormal(t)
		putVec := func(b []byte, v ms3.Vec) {
			put32(b[0:], float32bits(v.X))
			put32(b[4:], float32bits(v.Y))
			put32(b[8:], float32bits(v.Z))
		}
		putVec(facet[0:], normal)
		putVec(facet[12:], t[0])
		putVec(facet[24:], t[1])
		putVec(facet[36:], t[2])
		facet[48] = 0 // attribute byte count
		facet[49] = 0
		nw, err := w.Write(facet[:])
		n += nw
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func triangleNormal(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
	if norm := ms3.Norm(n); norm > 0 {
		return ms3.Scale(1/norm, n)
	}
	return n
}
