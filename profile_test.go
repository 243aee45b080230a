package forest_test

import (
	"testing"

	"github.com/chewxy/math32"
	forest "github.com/nukaishi/tree2forest"
	"github.com/soypat/geometry/ms2"
)

func TestFoliageProfileClosedAndSymmetric(t *testing.T) {
	var bld forest.Builder
	pr := bld.FoliageProfile()
	outline, err := pr.Append(nil, 24)
	if err != nil {
		t.Fatal(err)
	}
	if len(outline) < 24 {
		t.Fatalf("suspiciously coarse foliage outline: %d points", len(outline))
	}
	if area := signedArea(outline); area <= 0 {
		t.Errorf("foliage outline not counterclockwise, signed area %f", area)
	}
	bb := outlineBounds(outline)
	if math32.Abs(bb.Max.X+bb.Min.X) > 1e-4 {
		t.Errorf("foliage outline not symmetric about x=0: bounds %v", bb)
	}
	if bb.Min.Y < -1e-4 {
		t.Errorf("foliage outline dips below its base: min y %f", bb.Min.Y)
	}
	// No sudden jumps along the arcs: consecutive tessellated points
	// stay within a fraction of the silhouette height, otherwise an arc
	// was swept in the wrong direction. The wrap-around pair is the
	// straight base edge and is checked separately below.
	height := bb.Max.Y - bb.Min.Y
	for i := 1; i < len(outline); i++ {
		if ms2.Norm(ms2.Sub(outline[i], outline[i-1])) > height/2 {
			t.Fatalf("outline jump at %d: %v -> %v", i, outline[i-1], outline[i])
		}
	}
	first, last := outline[0], outline[len(outline)-1]
	if math32.Abs(first.Y) > 1e-4 || math32.Abs(last.Y) > 1e-4 {
		t.Errorf("closing edge not on the base: %v -> %v", last, first)
	}
	if math32.Abs(first.X+last.X) > 1e-4 {
		t.Errorf("closing base edge not symmetric: %v -> %v", last, first)
	}
}

func TestTrunkProfileDimensions(t *testing.T) {
	var bld forest.Builder
	outline, err := bld.TrunkProfile(0).Append(nil, 16)
	if err != nil {
		t.Fatal(err)
	}
	bb := outlineBounds(outline)
	const tol = 1e-5
	if math32.Abs(bb.Max.X-bb.Min.X-0.5) > tol {
		t.Errorf("trunk width %f, want 0.5", bb.Max.X-bb.Min.X)
	}
	if math32.Abs(bb.Max.Y-bb.Min.Y-3.5) > tol {
		t.Errorf("trunk height %f, want 3.5", bb.Max.Y-bb.Min.Y)
	}
	if signedArea(outline) <= 0 {
		t.Error("trunk outline not counterclockwise")
	}
}

func TestPaddedTrunkContainsBase(t *testing.T) {
	var bld forest.Builder
	base, err := bld.TrunkProfile(0).Append(nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	for _, padding := range []float32{0.01, 0.1, 0.5} {
		padded, err := bld.TrunkProfile(padding).Append(nil, 32)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range base {
			if !pointInPolygon(p, padded) {
				t.Errorf("padding %g: base point %v outside padded outline", padding, p)
			}
		}
	}
}

func TestTrunkProfileBadPadding(t *testing.T) {
	bld := forest.Builder{NoPanic: true}
	bld.TrunkProfile(-0.1)
	if bld.Err() == nil {
		t.Error("negative padding accumulated no error")
	}
}

func signedArea(outline []ms2.Vec) float32 {
	var area float32
	prev := outline[len(outline)-1]
	for _, p := range outline {
		area += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return area / 2
}

func outlineBounds(outline []ms2.Vec) ms2.Box {
	bb := ms2.Box{Min: outline[0], Max: outline[0]}
	for _, p := range outline[1:] {
		bb.Min = ms2.MinElem(bb.Min, p)
		bb.Max = ms2.MaxElem(bb.Max, p)
	}
	return bb
}

// pointInPolygon is the crossing-parity test over the implicitly closed
// polygon outline.
func pointInPolygon(p ms2.Vec, outline []ms2.Vec) bool {
	inside := false
	j := len(outline) - 1
	for i := 0; i < len(outline); i++ {
		vi, vj := outline[i], outline[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
