package surface_test

import (
	"bytes"
	"testing"

	"github.com/nukaishi/tree2forest/surface"
	"github.com/soypat/geometry/ms3"
)

func TestGradientExtremes(t *testing.T) {
	g := surface.NewFoliageGradient(ms3.NewBox(-1, -3, -1, 1, 3, 1))
	g.NoiseAmp = 0 // Isolate the blend from grain.
	bottom := g.ColorAt(ms3.Vec{X: 0.3, Y: -4, Z: 0.3})
	if bottom != surface.FoliageBottom {
		t.Errorf("below transition bounds: got %v, want %v", bottom, surface.FoliageBottom)
	}
	top := g.ColorAt(ms3.Vec{X: -0.7, Y: 4, Z: 0.1})
	if top != surface.FoliageTop {
		t.Errorf("above transition bounds: got %v, want %v", top, surface.FoliageTop)
	}
	mid := g.ColorAt(ms3.Vec{Y: 0})
	if mid == surface.FoliageTop || mid == surface.FoliageBottom {
		t.Errorf("midpoint should blend, got %v", mid)
	}
}

func TestGradientBoundsRecorded(t *testing.T) {
	bb := ms3.NewBox(-1, -2.5, -1, 1, 2.5, 1)
	g := surface.NewFoliageGradient(bb)
	if g.Bounds.MinY != -2.5 || g.Bounds.Height != 5 {
		t.Errorf("bounds params: got %+v", g.Bounds)
	}
}

func TestGrainDeterministicAndBounded(t *testing.T) {
	f := surface.NewTrunkSurface()
	maxDelta := int(f.NoiseAmp/2*255) + 1
	// Recentered meshes have negative local coordinates, so sample both
	// sides of the origin.
	for i := -200; i < 200; i++ {
		p := ms3.Vec{X: float32(i) * 0.137, Z: float32(i) * 0.071}
		c1 := f.ColorAt(p)
		c2 := f.ColorAt(p)
		if c1 != c2 {
			t.Fatalf("grain not deterministic at %v: %v != %v", p, c1, c2)
		}
		if absInt(int(c1.R)-int(surface.TrunkBase.R)) > maxDelta ||
			absInt(int(c1.G)-int(surface.TrunkBase.G)) > maxDelta ||
			absInt(int(c1.B)-int(surface.TrunkBase.B)) > maxDelta {
			t.Fatalf("grain exceeds amplitude at %v: got %v", p, c1)
		}
	}
}

func TestTrunkFlatWithoutGrain(t *testing.T) {
	f := surface.Flat{Base: surface.TrunkBaseAlt}
	got := f.ColorAt(ms3.Vec{X: 2, Y: 1, Z: -3})
	if got != surface.TrunkBaseAlt {
		t.Errorf("flat color: got %v, want %v", got, surface.TrunkBaseAlt)
	}
}

func TestOutlineStyle(t *testing.T) {
	o := surface.NewOutline()
	if o.Scale != surface.OutlineInflate {
		t.Errorf("outline scale: got %v, want %v", o.Scale, surface.OutlineInflate)
	}
	a := o.ColorAt(ms3.Vec{X: 1, Y: 2, Z: 3})
	b := o.ColorAt(ms3.Vec{})
	if a != b || a != surface.OutlineBlack {
		t.Errorf("outline must be position independent black, got %v and %v", a, b)
	}
}

func TestFragSources(t *testing.T) {
	g := surface.NewFoliageGradient(ms3.NewBox(-1, -1, -1, 1, 1, 1))
	sources := [][]byte{
		g.AppendFragSource(nil),
		surface.NewTrunkSurface().AppendFragSource(nil),
		surface.NewOutline().AppendFragSource(nil),
	}
	for i, src := range sources {
		if len(src) == 0 || src[len(src)-1] != 0 {
			t.Errorf("source %d not null terminated", i)
		}
		if !bytes.Contains(src, []byte("void main()")) {
			t.Errorf("source %d missing main: %s", i, src)
		}
	}
}

func TestDotTile(t *testing.T) {
	tile := surface.DotTile()
	b := tile.Bounds()
	if b.Dx() != b.Dy() || b.Dx() == 0 {
		t.Fatalf("tile must be square, got %v", b)
	}
	sawBase, sawDot := false, false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch tile.RGBAAt(x, y) {
			case surface.GroundBase:
				sawBase = true
			case surface.GroundDot:
				sawDot = true
			default:
				t.Fatalf("unexpected color %v at (%d,%d)", tile.RGBAAt(x, y), x, y)
			}
		}
	}
	if !sawBase || !sawDot {
		t.Errorf("tile missing palette colors: base=%v dot=%v", sawBase, sawDot)
	}
	// Corner stamp must wrap identically on all four corners.
	last := b.Max.X - 1
	c := tile.RGBAAt(0, 0)
	if tile.RGBAAt(last, 0) != c || tile.RGBAAt(0, last) != c || tile.RGBAAt(last, last) != c {
		t.Error("tile corners differ, pattern will seam when repeated")
	}
}

func TestGroundTextureTiling(t *testing.T) {
	tile := surface.DotTile()
	const repeat = 3
	tex := surface.GroundTexture(tile, repeat)
	tb := tile.Bounds()
	if tex.Bounds().Dx() != tb.Dx()*repeat || tex.Bounds().Dy() != tb.Dy()*repeat {
		t.Fatalf("texture size: got %v", tex.Bounds())
	}
	for y := 0; y < tex.Bounds().Dy(); y++ {
		for x := 0; x < tex.Bounds().Dx(); x++ {
			want := tile.RGBAAt(x%tb.Dx(), y%tb.Dy())
			if got := tex.RGBAAt(x, y); got != want {
				t.Fatalf("texture (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestGroundTextureNilTile(t *testing.T) {
	tex := surface.GroundTexture(nil, 2)
	if tex == nil {
		t.Fatal("nil tile must degrade to a blank texture")
	}
	for y := 0; y < tex.Bounds().Dy(); y++ {
		for x := 0; x < tex.Bounds().Dx(); x++ {
			if tex.RGBAAt(x, y) != surface.GroundBase {
				t.Fatalf("blank texture not uniform at (%d,%d)", x, y)
			}
		}
	}
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
