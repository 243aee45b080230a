package forestaux

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/nukaishi/tree2forest/scene"
)

func buildForest(t *testing.T, n int) *scene.Forest {
	t.Helper()
	a, err := scene.BuildAssets()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Release() })
	f, err := scene.NewForest(a, n)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestRenderRequiresOutput(t *testing.T) {
	f := buildForest(t, 1)
	if err := Render(f, RenderConfig{Silent: true}); err == nil {
		t.Error("Render with no outputs must error")
	}
}

func TestRenderSTL(t *testing.T) {
	f := buildForest(t, 4)
	a := f.Assets()
	perTree := len(a.Foliage.AppendTriangles(nil)) + len(a.Trunk.AppendTriangles(nil))
	var buf bytes.Buffer
	err := Render(f, RenderConfig{STLOutput: &buf, Silent: true})
	if err != nil {
		t.Fatal(err)
	}
	want := 84 + 50*4*perTree
	if buf.Len() != want {
		t.Errorf("STL size %d, want %d", buf.Len(), want)
	}
}

func TestRenderImage(t *testing.T) {
	f := buildForest(t, 4)
	img := renderImage(f, 320, 240)
	black := color.RGBA{A: 0xFF}
	var sawFoliage, sawOutline, sawGround bool
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			c := img.RGBAAt(x, y)
			switch {
			case c == black:
				sawOutline = true
			case c.G > c.R && c.G > c.B:
				sawFoliage = true
			case c.R > 0xB0 && c.G > 0xB0 && c.B > 0xA0:
				sawGround = true
			}
		}
	}
	if !sawFoliage {
		t.Error("render missing foliage pixels")
	}
	if !sawOutline {
		t.Error("render missing outline pixels")
	}
	if !sawGround {
		t.Error("render missing ground pixels")
	}
}

func TestRenderPNG(t *testing.T) {
	f := buildForest(t, 2)
	var buf bytes.Buffer
	err := Render(f, RenderConfig{VisualOutput: &buf, VisualWidth: 64, VisualHeight: 48, Silent: true})
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("empty PNG output")
	}
	sig := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), sig) {
		t.Error("output missing PNG signature")
	}
}
