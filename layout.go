package forest

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// Layout computes ground-plane placements for treeCount trees arranged
// in a centered, roughly square grid. The returned vectors map X to the
// world x axis and Y to the world z axis; tree height is implicitly
// ground level. Rows are filled front to back with up to
// ceil(sqrt(treeCount)) trees; each row is independently centered on
// x=0, so a final partial row centers differently from full rows and
// non-square counts get a staggered look. The whole grid is centered
// on z=0. Output is deterministic for a given count.
//
// treeCount outside [1, MaxTrees] is outside the input domain and
// accumulates a shape error.
func (bld *Builder) Layout(treeCount int) []ms2.Vec {
	if treeCount < 1 || treeCount > MaxTrees {
		bld.shapeErrorf("tree count %d outside domain [1,%d]", treeCount, MaxTrees)
		return nil
	}
	cols := int(math32.Ceil(math32.Sqrt(float32(treeCount))))
	rows := (treeCount + cols - 1) / cols
	zShift := -float32(rows-1) * TreeSpacing / 2
	placements := make([]ms2.Vec, 0, treeCount)
	remaining := treeCount
	for r := 0; r < rows; r++ {
		k := remaining
		if k > cols {
			k = cols
		}
		xStart := -float32(k-1) * TreeSpacing / 2
		z := float32(r)*TreeSpacing + zShift
		for i := 0; i < k; i++ {
			placements = append(placements, ms2.Vec{
				X: xStart + float32(i)*TreeSpacing,
				Y: z,
			})
		}
		remaining -= k
	}
	return placements
}
