package forestaux

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/nukaishi/tree2forest/mesh"
	"github.com/nukaishi/tree2forest/scene"
	"github.com/nukaishi/tree2forest/surface"
	"github.com/soypat/geometry/ms3"
)

// Software rasterizer for PNG export. Orthographic isometric camera,
// z-buffered, shaded with the same appearance rules as the GL viewer.

// groundExtent is the world-space side length of the rendered ground
// plane quad.
const groundExtent = 80.0

type raster struct {
	img   *image.RGBA
	depth []float32
	w, h  int

	right, up, fwd ms3.Vec
	lookAt         ms3.Vec
	scale          float32
	cx, cy         float32
}

func renderImage(f *scene.Forest, w, h int) *image.RGBA {
	rs := &raster{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		depth: make([]float32, w*h),
		w:     w,
		h:     h,
	}
	for i := range rs.depth {
		rs.depth[i] = math32.Inf(1)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rs.img.SetRGBA(x, y, surface.GroundBase)
		}
	}

	bb := f.Bounds()
	rs.setupCamera(bb)

	a := f.Assets()
	rs.drawGround(a)
	for _, p := range f.Trees() {
		off := ms3.Vec{X: p.X, Z: p.Y}
		// Inverted hulls first: strictly outside the solids, back
		// faces only.
		outline := func(ms3.Vec) color.RGBA { return a.Outline.Color }
		rs.drawMesh(a.Foliage, a.Outline.Scale, ms3.Add(off, ms3.Vec{Y: a.FoliageLift}), true, outline, false)
		rs.drawMesh(a.TrunkHull, 1, ms3.Add(off, ms3.Vec{Y: a.TrunkHullLift}), true, outline, false)

		rs.drawMesh(a.Trunk, 1, ms3.Add(off, ms3.Vec{Y: a.TrunkLift}), false, a.TrunkColor.ColorAt, true)
		rs.drawMesh(a.Foliage, 1, ms3.Add(off, ms3.Vec{Y: a.FoliageLift}), false, a.FoliageColor.ColorAt, true)
	}
	return rs.img
}

// setupCamera builds the classic isometric view basis (45 degree
// azimuth, 35.26 degree elevation) framing bb with a margin.
func (rs *raster) setupCamera(bb ms3.Box) {
	rs.fwd = ms3.Unit(ms3.Vec{X: -1, Y: -1, Z: -1})
	rs.right = ms3.Unit(ms3.Cross(rs.fwd, ms3.Vec{Y: 1}))
	rs.up = ms3.Unit(ms3.Cross(rs.right, rs.fwd))
	rs.lookAt = bb.Center()

	var maxR, maxU float32
	sz := bb.Size()
	for i := 0; i < 8; i++ {
		corner := ms3.Vec{
			X: bb.Min.X + sz.X*float32(i&1),
			Y: bb.Min.Y + sz.Y*float32(i>>1&1),
			Z: bb.Min.Z + sz.Z*float32(i>>2&1),
		}
		d := ms3.Sub(corner, rs.lookAt)
		maxR = math32.Max(maxR, math32.Abs(ms3.Dot(d, rs.right)))
		maxU = math32.Max(maxU, math32.Abs(ms3.Dot(d, rs.up)))
	}
	const margin = 0.85
	rs.scale = math32.Min(float32(rs.w)/(2*maxR), float32(rs.h)/(2*maxU)) * margin
	rs.cx = float32(rs.w) / 2
	rs.cy = float32(rs.h) / 2
}

func (rs *raster) project(p ms3.Vec) (sx, sy, depth float32) {
	d := ms3.Sub(p, rs.lookAt)
	sx = rs.cx + rs.scale*ms3.Dot(d, rs.right)
	sy = rs.cy - rs.scale*ms3.Dot(d, rs.up)
	depth = ms3.Dot(d, rs.fwd)
	return sx, sy, depth
}

var lightDir = ms3.Unit(ms3.Vec{X: 0.5, Y: 0.8, Z: 0.4})

func lambert(n ms3.Vec) float32 {
	dif := math32.Max(0, ms3.Dot(n, lightDir))
	return 0.75 + 0.25*dif
}

// drawMesh rasterizes m translated by off after scaling its local
// coordinates by scaleL. backOnly keeps only faces pointing away from
// the camera (inverted hull pass). shade receives the mesh-local
// position; lit applies the scene key light on top.
func (rs *raster) drawMesh(m *mesh.Mesh, scaleL float32, off ms3.Vec, backOnly bool, shade func(ms3.Vec) color.RGBA, lit bool) {
	idx := m.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		l0, l1, l2 := m.Vertices[idx[i]], m.Vertices[idx[i+1]], m.Vertices[idx[i+2]]
		w0 := ms3.Add(ms3.Scale(scaleL, l0), off)
		w1 := ms3.Add(ms3.Scale(scaleL, l1), off)
		w2 := ms3.Add(ms3.Scale(scaleL, l2), off)
		n := ms3.Unit(ms3.Cross(ms3.Sub(w1, w0), ms3.Sub(w2, w0)))
		facing := ms3.Dot(n, rs.fwd) < 0
		if facing == backOnly {
			continue
		}
		rs.triangle(w0, w1, w2, l0, l1, l2, n, shade, lit)
	}
}

func (rs *raster) triangle(w0, w1, w2, l0, l1, l2, n ms3.Vec, shade func(ms3.Vec) color.RGBA, lit bool) {
	x0, y0, d0 := rs.project(w0)
	x1, y1, d1 := rs.project(w1)
	x2, y2, d2 := rs.project(w2)
	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if math32.Abs(area) < 1e-9 {
		return
	}
	inv := 1 / area

	minX := clampInt(int(math32.Floor(min3(x0, x1, x2))), 0, rs.w-1)
	maxX := clampInt(int(math32.Ceil(max3(x0, x1, x2))), 0, rs.w-1)
	minY := clampInt(int(math32.Floor(min3(y0, y1, y2))), 0, rs.h-1)
	maxY := clampInt(int(math32.Ceil(max3(y0, y1, y2))), 0, rs.h-1)

	shadeScale := float32(1)
	if lit {
		shadeScale = lambert(n)
	}
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			fx, fy := float32(px)+0.5, float32(py)+0.5
			b0 := ((x1-fx)*(y2-fy) - (y1-fy)*(x2-fx)) * inv
			b1 := ((x2-fx)*(y0-fy) - (y2-fy)*(x0-fx)) * inv
			b2 := 1 - b0 - b1
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			d := b0*d0 + b1*d1 + b2*d2
			di := py*rs.w + px
			if d >= rs.depth[di] {
				continue
			}
			rs.depth[di] = d
			local := ms3.Add(ms3.Add(ms3.Scale(b0, l0), ms3.Scale(b1, l1)), ms3.Scale(b2, l2))
			c := shade(local)
			if shadeScale != 1 {
				c.R = uint8(float32(c.R) * shadeScale)
				c.G = uint8(float32(c.G) * shadeScale)
				c.B = uint8(float32(c.B) * shadeScale)
			}
			rs.img.SetRGBA(px, py, c)
		}
	}
}

// drawGround rasterizes the textured ground plane quad at y=0.
func (rs *raster) drawGround(a *scene.Assets) {
	if a.Ground == nil {
		return
	}
	tb := a.Ground.Bounds()
	const e = groundExtent / 2
	corners := [4]ms3.Vec{
		{X: -e, Z: -e}, {X: e, Z: -e}, {X: e, Z: e}, {X: -e, Z: e},
	}
	shade := func(local ms3.Vec) color.RGBA {
		u := (local.X/groundExtent + 0.5) * float32(tb.Dx())
		v := (local.Z/groundExtent + 0.5) * float32(tb.Dy())
		return a.Ground.RGBAAt(clampInt(int(u), 0, tb.Dx()-1), clampInt(int(v), 0, tb.Dy()-1))
	}
	up := ms3.Vec{Y: 1}
	rs.triangle(corners[0], corners[1], corners[2], corners[0], corners[1], corners[2], up, shade, false)
	rs.triangle(corners[0], corners[2], corners[3], corners[0], corners[2], corners[3], up, shade, false)
}

func min3(a, b, c float32) float32 { return math32.Min(a, math32.Min(b, c)) }
func max3(a, b, c float32) float32 { return math32.Max(a, math32.Max(b, c)) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
