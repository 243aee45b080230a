package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

const epstol = 6e-7

// ExtrudeParams parameterizes [Extrude]. Depth is the prism length
// along z excluding bevels. BevelThickness extends the solid along z on
// both faces while BevelSize insets the face caps laterally;
// BevelSegments rings tessellate the quarter-circle transition.
type ExtrudeParams struct {
	Depth          float32
	BevelThickness float32
	BevelSize      float32
	BevelSegments  int
}

// FoliageExtrude are the canonical extrusion parameters of the foliage
// solid. Curve smoothness of the source profile is 24 segments per arc.
var FoliageExtrude = ExtrudeParams{
	Depth:          1.5,
	BevelThickness: 0.2,
	BevelSize:      0.1,
	BevelSegments:  5,
}

// TrunkExtrude are the canonical extrusion parameters of the trunk
// solid. Source profile arcs use the default 12 segment tessellation.
var TrunkExtrude = ExtrudeParams{
	Depth:          0.8,
	BevelThickness: 0.1,
	BevelSize:      0.05,
	BevelSegments:  3,
}

func (p ExtrudeParams) validate() error {
	switch {
	case p.Depth <= 0 || math32.IsNaN(p.Depth):
		return fmt.Errorf("bad extrusion depth %f", p.Depth)
	case p.BevelThickness < 0 || p.BevelSize < 0:
		return errors.New("negative bevel parameter")
	case p.beveled() && p.BevelSegments < 1:
		return errors.New("beveled extrusion needs at least 1 bevel segment")
	}
	return nil
}

func (p ExtrudeParams) beveled() bool {
	return p.BevelThickness > 0 || p.BevelSize > 0
}

// Extrude sweeps a closed counterclockwise outline along the z axis
// into a solid prism with beveled edges and triangulated face caps.
// The outline is implicitly closed (first point not repeated) and is
// reversed in place if it winds clockwise. The resulting mesh is
// recentered so its bounding-box center lies at the local origin.
func Extrude(outline []ms2.Vec, p ExtrudeParams) (*Mesh, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(outline) < 3 {
		return nil, errors.New("outline needs at least 3 points")
	}
	if signedArea2(outline) < 0 {
		reverse(outline)
	}
	miters := miterDirections(outline)

	// Ring schedule along z: back cap, back bevel transition, straight
	// wall, front bevel transition, front cap. inset is the lateral
	// face offset at that ring following a quarter-circle profile.
	type ring struct {
		z     float32
		inset float32
	}
	n := p.BevelSegments
	if !p.beveled() {
		n = 0
	}
	hd := p.Depth / 2
	rings := make([]ring, 0, 2*n+2)
	for k := n; k >= 0; k-- {
		t := float32(k) / float32(max(n, 1))
		s, c := math32.Sincos(t * math32.Pi / 2)
		rings = append(rings, ring{z: -hd - p.BevelThickness*s, inset: p.BevelSize * (1 - c)})
	}
	rings = append(rings, ring{z: hd})
	for k := 1; k <= n; k++ {
		t := float32(k) / float32(n)
		s, c := math32.Sincos(t * math32.Pi / 2)
		rings = append(rings, ring{z: hd + p.BevelThickness*s, inset: p.BevelSize * (1 - c)})
	}

	nv := len(outline)
	m := &Mesh{
		Vertices: make([]ms3.Vec, 0, nv*len(rings)),
		UV:       make([]ms2.Vec, 0, nv*len(rings)),
	}
	perim := perimeterFractions(outline)
	zmin, zmax := rings[0].z, rings[len(rings)-1].z
	for _, rg := range rings {
		for i, v := range outline {
			off := ms2.Sub(v, ms2.Scale(rg.inset, miters[i]))
			m.Vertices = append(m.Vertices, ms3.Vec{X: off.X, Y: off.Y, Z: rg.z})
			m.UV = append(m.UV, ms2.Vec{X: perim[i], Y: (rg.z - zmin) / (zmax - zmin)})
		}
	}

	// Side wall quads between consecutive rings, oriented outward.
	for r := 0; r+1 < len(rings); r++ {
		base0 := uint32(r * nv)
		base1 := uint32((r + 1) * nv)
		for i := 0; i < nv; i++ {
			j := (i + 1) % nv
			a, b := base0+uint32(i), base0+uint32(j)
			c, d := base1+uint32(j), base1+uint32(i)
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}

	// Face caps on first and last rings.
	capIdx, err := triangulate(m.capOutline(0, nv))
	if err != nil {
		return nil, fmt.Errorf("triangulating cap: %w", err)
	}
	front := uint32((len(rings) - 1) * nv)
	for i := 0; i+2 < len(capIdx); i += 3 {
		// Back cap faces -z: reverse winding.
		m.Indices = append(m.Indices, capIdx[i], capIdx[i+2], capIdx[i+1])
		m.Indices = append(m.Indices, front+capIdx[i], front+capIdx[i+1], front+capIdx[i+2])
	}

	m.ComputeNormals()
	m.Recenter()
	return m, nil
}

func (m *Mesh) capOutline(base, n int) []ms2.Vec {
	out := make([]ms2.Vec, n)
	for i := 0; i < n; i++ {
		v := m.Vertices[base+i]
		out[i] = ms2.Vec{X: v.X, Y: v.Y}
	}
	return out
}

// miterDirections returns the outward unit miter at every outline
// vertex, scaled so that offsetting along it by d moves both adjacent
// edges d apart. Miter length is capped to avoid spikes at sharp
// corners.
func miterDirections(outline []ms2.Vec) []ms2.Vec {
	const miterLimit = 4
	n := len(outline)
	miters := make([]ms2.Vec, n)
	for i := range outline {
		prev := outline[(i+n-1)%n]
		next := outline[(i+1)%n]
		n0 := edgeNormal(prev, outline[i])
		n1 := edgeNormal(outline[i], next)
		sum := ms2.Add(n0, n1)
		norm := ms2.Norm(sum)
		if norm < epstol {
			// Degenerate 180 degree turn; fall back to the edge normal.
			miters[i] = n1
			continue
		}
		mdir := ms2.Scale(1/norm, sum)
		scale := 1 / math32.Max(1/miterLimit, ms2.Dot(mdir, n1))
		miters[i] = ms2.Scale(scale, mdir)
	}
	return miters
}

// edgeNormal is the outward normal of edge a->b for a counterclockwise
// outline.
func edgeNormal(a, b ms2.Vec) ms2.Vec {
	d := ms2.Sub(b, a)
	norm := ms2.Norm(d)
	if norm < epstol {
		return ms2.Vec{}
	}
	return ms2.Vec{X: d.Y / norm, Y: -d.X / norm}
}

func perimeterFractions(outline []ms2.Vec) []float32 {
	fr := make([]float32, len(outline))
	var total float32
	for i := 1; i < len(outline); i++ {
		total += ms2.Norm(ms2.Sub(outline[i], outline[i-1]))
		fr[i] = total
	}
	total += ms2.Norm(ms2.Sub(outline[0], outline[len(outline)-1]))
	if total > 0 {
		for i := range fr {
			fr[i] /= total
		}
	}
	return fr
}

func signedArea2(outline []ms2.Vec) float32 {
	var area float32
	prev := outline[len(outline)-1]
	for _, p := range outline {
		area += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return area
}

func reverse(outline []ms2.Vec) {
	for i, j := 0, len(outline)-1; i < j; i, j = i+1, j-1 {
		outline[i], outline[j] = outline[j], outline[i]
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
