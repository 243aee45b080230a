// Package surface defines the procedural surface appearances of the
// forest scene: the foliage vertical gradient with grain, the flat
// trunk color with grain, and the inverted-hull outline style. Each
// rule can be evaluated per-point on the CPU and emitted as GLSL
// fragment source for the interactive viewer.
package surface

import (
	"image/color"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

// Stock colors of the forest palette.
var (
	FoliageTop    = color.RGBA{R: 0x96, G: 0xE2, B: 0x58, A: 0xFF} // #96E258
	FoliageBottom = color.RGBA{R: 0x22, G: 0xA4, B: 0x86, A: 0xFF} // #22A486
	TrunkBase     = color.RGBA{R: 0xD6, G: 0xB6, B: 0x98, A: 0xFF} // #D6B698
	// TrunkBaseAlt is the alternate trunk tone seen in reference
	// material; selectable via Flat.Base.
	TrunkBaseAlt = color.RGBA{R: 0xC2, G: 0x9B, B: 0x7F, A: 0xFF} // #C29B7F
	OutlineBlack = color.RGBA{A: 0xFF}
)

// Foliage gradient transition bounds in mesh-local y. These are fixed
// constants, deliberately NOT derived from the mesh bounding box: the
// reference scene hardcodes them even though the foliage solid is
// about 5 units tall, so the gradient saturates before the silhouette
// top. Preserved as documented behavior; see BoundsParams.
const (
	gradientLo = -2.5
	gradientHi = 2.5
)

// OutlineInflate is the uniform scale applied to the inner mesh when
// drawing its inverted-hull outline duplicate.
const OutlineInflate = 1.05

// BoundsParams captures the vertical extent of a mesh at the time an
// appearance rule is created. They are recorded for introspection and
// are not re-derived if the mesh is reused; callers must rebuild the
// rule when geometry changes. Note the foliage gradient blend does not
// read these: it uses the fixed transition bounds above.
type BoundsParams struct {
	MinY   float32
	Height float32
}

// BoundsParamsFromBox derives appearance bounds parameters from a mesh
// bounding box.
func BoundsParamsFromBox(bb ms3.Box) BoundsParams {
	return BoundsParams{MinY: bb.Min.Y, Height: bb.Max.Y - bb.Min.Y}
}

// Gradient colors a mesh by vertical position, blending Bottom to Top
// through a smoothstep of local y over the fixed transition bounds,
// perturbed by deterministic grain.
type Gradient struct {
	Top        color.RGBA
	Bottom     color.RGBA
	NoiseScale float32
	NoiseAmp   float32
	Bounds     BoundsParams
}

// NewFoliageGradient returns the foliage appearance for a mesh with
// bounding box bb.
func NewFoliageGradient(bb ms3.Box) Gradient {
	return Gradient{
		Top:        FoliageTop,
		Bottom:     FoliageBottom,
		NoiseScale: 20,
		NoiseAmp:   0.15,
		Bounds:     BoundsParamsFromBox(bb),
	}
}

// ColorAt evaluates the gradient at mesh-local position p.
func (g Gradient) ColorAt(p ms3.Vec) color.RGBA {
	blend := ms1.SmoothStep(gradientLo, gradientHi, p.Y)
	grain := grainAt(p, g.NoiseScale, g.NoiseAmp)
	return mixRGB(g.Bottom, g.Top, blend, grain)
}

// Flat colors a mesh with a single base color perturbed by grain.
type Flat struct {
	Base       color.RGBA
	NoiseScale float32
	NoiseAmp   float32
}

// NewTrunkSurface returns the trunk appearance.
func NewTrunkSurface() Flat {
	return Flat{Base: TrunkBase, NoiseScale: 50, NoiseAmp: 0.2}
}

// ColorAt evaluates the flat rule at mesh-local position p.
func (f Flat) ColorAt(p ms3.Vec) color.RGBA {
	grain := grainAt(p, f.NoiseScale, f.NoiseAmp)
	return mixRGB(f.Base, f.Base, 0, grain)
}

// Outline is the unlit, solid-color, back-face-only material of the
// cartoon silhouette hulls. Scale is the uniform inflation applied to
// the inner mesh; the trunk hull uses a padded profile instead and
// leaves Scale at 1.
type Outline struct {
	Color color.RGBA
	Scale float32
}

// NewOutline returns the shared black outline style.
func NewOutline() Outline {
	return Outline{Color: OutlineBlack, Scale: OutlineInflate}
}

// ColorAt implements the same evaluation contract as the other rules;
// the outline is position independent.
func (o Outline) ColorAt(ms3.Vec) color.RGBA { return o.Color }

// grainAt is the per-fragment pseudo-random perturbation: a hash of
// the horizontal local coordinates scaled by scale, mapped to
// [-0.5, 0.5] and scaled by amp. Applied uniformly to all channels.
func grainAt(p ms3.Vec, scale, amp float32) float32 {
	return (hashNoise2(p.X*scale, p.Z*scale) - 0.5) * amp
}

// hashNoise2 is a deterministic stateless hash of a 2D coordinate in
// [0, 1). The GLSL emission uses its own hash; both produce uniform
// speckle and exact bit-matching between the two is not required.
func hashNoise2(x, y float32) float32 {
	var hashA float32 = 0.0
	var hashB float32 = 1.0
	hashA, hashB = hashAdd(hashA, hashB, x)
	hashA, hashB = hashAdd(hashA, hashB, y)
	return hashfint(hashA + hashB)
}

func hashAdd(a, b, num float32) (aNew, bNew float32) {
	const prime = 31.0
	a += num
	b *= (prime + num)
	a = hashfint(a)
	b = hashfint(b)
	return a, b
}

func hashfint(f float32) float32 {
	v := float32(int(f*1000000)%1000000) / 1000000
	if v < 0 { // Go's % keeps the sign; wrap into [0.0, 1.0).
		v++
	}
	return v
}

// mixRGB blends c0 to c1 by t and adds grain to every channel.
func mixRGB(c0, c1 color.RGBA, t, grain float32) color.RGBA {
	chan8 := func(a, b uint8) uint8 {
		v := ms1.Interp(float32(a)/255, float32(b)/255, t) + grain
		return uint8(ms1.Clamp(v, 0, 1) * 255)
	}
	return color.RGBA{
		R: chan8(c0.R, c1.R),
		G: chan8(c0.G, c1.G),
		B: chan8(c0.B, c1.B),
		A: 0xFF,
	}
}
