package surface

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Ground plane palette.
var (
	GroundBase = color.RGBA{R: 0xEF, G: 0xEA, B: 0xE2, A: 0xFF}
	GroundDot  = color.RGBA{R: 0xC9, G: 0xC2, B: 0xB6, A: 0xFF}
)

const dotTileSize = 16

// DotTile returns a small tileable bitmap with a staggered two-dot
// grid: one dot at the tile center and one split across the corners,
// so adjacent tiles line up into a diagonal dot lattice.
func DotTile() *image.RGBA {
	tile := image.NewRGBA(image.Rect(0, 0, dotTileSize, dotTileSize))
	for y := 0; y < dotTileSize; y++ {
		for x := 0; x < dotTileSize; x++ {
			tile.SetRGBA(x, y, GroundBase)
		}
	}
	const r = 1.6
	half := float32(dotTileSize) / 2
	stamp := func(cx, cy float32) {
		for y := 0; y < dotTileSize; y++ {
			for x := 0; x < dotTileSize; x++ {
				dx := float32(x) + 0.5 - cx
				dy := float32(y) + 0.5 - cy
				if dx*dx+dy*dy <= r*r {
					tile.SetRGBA(x, y, GroundDot)
				}
			}
		}
	}
	stamp(half, half)
	// Corner dot, stamped at all four corners so it wraps seamlessly.
	stamp(0, 0)
	stamp(float32(dotTileSize), 0)
	stamp(0, float32(dotTileSize))
	stamp(float32(dotTileSize), float32(dotTileSize))
	return tile
}

// GroundTexture composes tile into a square texture of repeat x repeat
// copies. A nil tile degrades to a uniform ground-color texture of the
// same dimensions instead of failing.
func GroundTexture(tile image.Image, repeat int) *image.RGBA {
	if repeat < 1 {
		repeat = 1
	}
	if tile == nil {
		blank := image.NewRGBA(image.Rect(0, 0, dotTileSize*repeat, dotTileSize*repeat))
		for y := 0; y < blank.Rect.Dy(); y++ {
			for x := 0; x < blank.Rect.Dx(); x++ {
				blank.SetRGBA(x, y, GroundBase)
			}
		}
		return blank
	}
	sr := tile.Bounds()
	w, h := sr.Dx(), sr.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w*repeat, h*repeat))
	for ty := 0; ty < repeat; ty++ {
		for tx := 0; tx < repeat; tx++ {
			dp := image.Pt(tx*w, ty*h)
			xdraw.Copy(dst, dp, tile, sr, xdraw.Src, nil)
		}
	}
	return dst
}
