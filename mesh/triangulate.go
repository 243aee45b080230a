package mesh

import (
	"errors"

	"github.com/soypat/geometry/ms2"
)

// triangulate performs ear-clipping triangulation of a simple
// counterclockwise polygon and returns index triples into the outline.
func triangulate(outline []ms2.Vec) ([]uint32, error) {
	n := len(outline)
	if n < 3 {
		return nil, errors.New("polygon needs at least 3 vertices")
	}
	remaining := make([]uint32, n)
	for i := range remaining {
		remaining[i] = uint32(i)
	}
	tris := make([]uint32, 0, 3*(n-2))
	for len(remaining) > 3 {
		clipped := false
		for i := 0; i < len(remaining); i++ {
			i0 := remaining[(i+len(remaining)-1)%len(remaining)]
			i1 := remaining[i]
			i2 := remaining[(i+1)%len(remaining)]
			if !isEar(outline, remaining, i0, i1, i2) {
				continue
			}
			tris = append(tris, i0, i1, i2)
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// A simple polygon always has an ear; only degenerate or
			// self-intersecting input reaches this.
			return nil, errors.New("no ear found in polygon")
		}
	}
	tris = append(tris, remaining[0], remaining[1], remaining[2])
	return tris, nil
}

func isEar(outline []ms2.Vec, remaining []uint32, i0, i1, i2 uint32) bool {
	a, b, c := outline[i0], outline[i1], outline[i2]
	if cross2(ms2.Sub(b, a), ms2.Sub(c, a)) <= 0 {
		return false // Reflex or collinear corner.
	}
	for _, ri := range remaining {
		if ri == i0 || ri == i1 || ri == i2 {
			continue
		}
		if pointInTriangle(outline[ri], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c ms2.Vec) bool {
	d0 := cross2(ms2.Sub(b, a), ms2.Sub(p, a))
	d1 := cross2(ms2.Sub(c, b), ms2.Sub(p, b))
	d2 := cross2(ms2.Sub(a, c), ms2.Sub(p, c))
	return d0 >= 0 && d1 >= 0 && d2 >= 0
}

func cross2(a, b ms2.Vec) float32 {
	return a.X*b.Y - a.Y*b.X
}
