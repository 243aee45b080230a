package forest

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// Trunk capsule dimensions before padding is applied.
const (
	trunkWidth  = 0.5
	trunkHeight = 3.5
)

// Foliage silhouette circles: three stacked, overlapping, narrowing
// toward the top. The visible outline is the boundary of their union;
// arc spans are solved from the circle-circle intersections so that
// consecutive arcs share endpoints exactly.
const (
	foliageR0, foliageY0 = 2.0, 1.2
	foliageR1, foliageY1 = 1.5, 2.6
	foliageR2, foliageY2 = 1.1, 3.9
)

type segKind uint8

const (
	segLine segKind = iota
	segArc
)

type profileSeg struct {
	kind   segKind
	to     ms2.Vec // line endpoint (segLine)
	center ms2.Vec // arc center (segArc)
	r      float32
	a0, a1 float32 // arc angles in radians, traversed a0->a1 without reversal
}

// Profile is a closed 2D outline described as a sequence of straight
// segments and circular arcs. It is the cross-section input to
// [mesh.Extrude]. The zero value is an empty profile positioned at the
// origin.
type Profile struct {
	start  ms2.Vec
	segs   []profileSeg
	closed bool
}

// Move sets the profile start point. Must be called before any segment
// is added; moving a non-empty profile is a contract violation handled
// at tessellation time.
func (p *Profile) Move(x, y float32) {
	p.start = ms2.Vec{X: x, Y: y}
}

// Line appends a straight segment from the current path end to (x,y).
func (p *Profile) Line(x, y float32) {
	p.segs = append(p.segs, profileSeg{kind: segLine, to: ms2.Vec{X: x, Y: y}})
}

// Arc appends a circular arc centered at (cx,cy) with radius r swept
// from angle a0 to a1 (radians). The sweep direction follows the sign
// of a1-a0 and is never reversed, preserving the winding of the loop.
func (p *Profile) Arc(cx, cy, r, a0, a1 float32) {
	p.segs = append(p.segs, profileSeg{
		kind:   segArc,
		center: ms2.Vec{X: cx, Y: cy},
		r:      r, a0: a0, a1: a1,
	})
}

// Close marks the profile as a closed loop. Tessellation discards a
// final point superimposed on the start point.
func (p *Profile) Close() {
	p.closed = true
}

func arcPoint(c ms2.Vec, r, a float32) ms2.Vec {
	s, cos := math32.Sincos(a)
	return ms2.Vec{X: c.X + r*cos, Y: c.Y + r*s}
}

// Append tessellates the profile into a closed polyline and appends it
// to dst. Arcs are subdivided into curveSegments segments each. The
// first point is not repeated at the end; closure is implicit as in
// polygon SDF construction. Errors if the profile was not closed or
// tessellates to fewer than 3 distinct points. Value receiver so it
// can be chained off the profile constructors directly.
func (p Profile) Append(dst []ms2.Vec, curveSegments int) ([]ms2.Vec, error) {
	if !p.closed {
		return dst, errors.New("profile not closed")
	}
	if curveSegments < 1 {
		return dst, errors.New("curveSegments must be at least 1")
	}
	begin := len(dst)
	dst = append(dst, p.start)
	for _, sg := range p.segs {
		switch sg.kind {
		case segLine:
			dst = append(dst, sg.to)
		case segArc:
			// The arc start point may coincide with the current path
			// end; superimposed points are pruned below.
			for k := 0; k <= curveSegments; k++ {
				a := sg.a0 + (sg.a1-sg.a0)*float32(k)/float32(curveSegments)
				dst = append(dst, arcPoint(sg.center, sg.r, a))
			}
		}
	}
	dst = pruneSuperimposed(dst, begin)
	if len(dst)-begin < 3 {
		return dst, errors.New("profile tessellates to fewer than 3 distinct points")
	}
	return dst, nil
}

// pruneSuperimposed removes consecutive near-equal vertices from
// dst[begin:], including a last vertex superimposed on the first.
func pruneSuperimposed(dst []ms2.Vec, begin int) []ms2.Vec {
	out := dst[:begin+1]
	for _, v := range dst[begin+1:] {
		last := out[len(out)-1]
		if ms2.Norm(ms2.Sub(v, last)) > epstol {
			out = append(out, v)
		}
	}
	if len(out)-begin > 1 && ms2.Norm(ms2.Sub(out[len(out)-1], out[begin])) <= epstol {
		out = out[:len(out)-1]
	}
	return out
}

// FoliageProfile returns the cloud silhouette of the tree foliage:
// three stacked circular arcs of decreasing radius on the ascending
// right side, mirrored on the descending left side, closed with a
// straight segment at the base.
func (bld *Builder) FoliageProfile() Profile {
	type lobe struct {
		c ms2.Vec
		r float32
	}
	lobes := [3]lobe{
		{c: ms2.Vec{Y: foliageY0}, r: foliageR0},
		{c: ms2.Vec{Y: foliageY1}, r: foliageR1},
		{c: ms2.Vec{Y: foliageY2}, r: foliageR2},
	}
	// Base corners where the bottom circle crosses y=0.
	baseX := math32.Sqrt(foliageR0*foliageR0 - foliageY0*foliageY0)
	baseAngle := math32.Atan2(-foliageY0, baseX)
	// Join angles at consecutive circle intersections (x>0 branch).
	var joins [2]ms2.Vec // joins[i] between lobe i and i+1.
	for i := 0; i < 2; i++ {
		p, ok := circleIntersect(lobes[i].c, lobes[i].r, lobes[i+1].c, lobes[i+1].r)
		if !ok {
			bld.shapeErrorf("foliage lobes %d and %d do not overlap", i, i+1)
			return Profile{}
		}
		joins[i] = p
	}
	angleOn := func(l lobe, p ms2.Vec) float32 {
		return math32.Atan2(p.Y-l.c.Y, p.X-l.c.X)
	}
	const pi = math32.Pi
	// Right-side sweep angles per lobe.
	a0lo, a0hi := baseAngle, angleOn(lobes[0], joins[0])
	a1lo, a1hi := angleOn(lobes[1], joins[0]), angleOn(lobes[1], joins[1])
	a2lo := angleOn(lobes[2], joins[1])
	var pr Profile
	pr.Move(baseX, 0)
	// Ascending right side.
	pr.Arc(lobes[0].c.X, lobes[0].c.Y, lobes[0].r, a0lo, a0hi)
	pr.Arc(lobes[1].c.X, lobes[1].c.Y, lobes[1].r, a1lo, a1hi)
	pr.Arc(lobes[2].c.X, lobes[2].c.Y, lobes[2].r, a2lo, pi/2)
	// Descending left side mirrors the same arcs. The mirror of angle a
	// is pi-a, which keeps every sweep increasing past pi/2 so the loop
	// winds counterclockwise with no arc reversal.
	pr.Arc(lobes[2].c.X, lobes[2].c.Y, lobes[2].r, pi/2, pi-a2lo)
	pr.Arc(lobes[1].c.X, lobes[1].c.Y, lobes[1].r, pi-a1hi, pi-a1lo)
	pr.Arc(lobes[0].c.X, lobes[0].c.Y, lobes[0].r, pi-a0hi, pi-a0lo)
	// Close with the straight base segment back to the start.
	pr.Line(baseX, 0)
	pr.Close()
	return pr
}

// circleIntersect returns the x>0 intersection point of two circles
// with centers on the y axis. ok is false when the circles do not
// overlap.
func circleIntersect(c0 ms2.Vec, r0 float32, c1 ms2.Vec, r1 float32) (ms2.Vec, bool) {
	dy := c1.Y - c0.Y
	if absf(dy) < epstol {
		return ms2.Vec{}, false
	}
	// Radical line of the two circles: constant y.
	y := (r0*r0 - r1*r1 + c1.Y*c1.Y - c0.Y*c0.Y) / (2 * dy)
	x2 := r0*r0 - (y-c0.Y)*(y-c0.Y)
	if x2 <= 0 {
		return ms2.Vec{}, false
	}
	return ms2.Vec{X: math32.Sqrt(x2), Y: y}, true
}

// TrunkProfile returns the capsule silhouette of the trunk: a rounded
// rectangle with square corners at the top and a semicircular arc at
// the bottom. padding uniformly inflates width and height producing a
// strictly larger shape-similar outline for the trunk's outline hull;
// the padded profile is offset down by padding/2 so it strictly
// contains the unpadded one.
func (bld *Builder) TrunkProfile(padding float32) Profile {
	if math32.IsNaN(padding) || padding < 0 {
		bld.shapeErrorf("bad trunk padding %f", padding)
		return Profile{}
	}
	w := trunkWidth + padding
	h := trunkHeight + padding
	dy := -padding / 2
	r := w / 2
	cy := dy + r // Bottom cap center stays fixed for any padding.
	const pi = math32.Pi
	var pr Profile
	pr.Move(-r, cy)
	pr.Arc(0, cy, r, pi, 2*pi) // Bottom semicircle, left to right.
	pr.Line(r, dy+h)
	pr.Line(-r, dy+h)
	pr.Close()
	return pr
}
