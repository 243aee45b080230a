package scene

import (
	"errors"
	"io"

	forest "github.com/nukaishi/tree2forest"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Forest composes tree instances from a shared asset bundle. Changing
// the tree count discards all placements and rebuilds them; there is
// no incremental update.
type Forest struct {
	assets *Assets
	places []ms2.Vec

	// Instance-local triangles of one tree, cached on first read.
	treeTris []ms3.Triangle
	// Streaming cursor over (tree, triangle).
	curTree int
	curTri  int
}

// NewForest binds a forest of treeCount trees to shared assets.
func NewForest(a *Assets, treeCount int) (*Forest, error) {
	f := &Forest{assets: a}
	if err := f.SetTreeCount(treeCount); err != nil {
		return nil, err
	}
	return f, nil
}

// SetTreeCount recomputes the placement grid for n trees, replacing
// all previous placements. n outside [1,100] is rejected.
func (f *Forest) SetTreeCount(n int) error {
	var bld forest.Builder
	bld.NoPanic = true
	places := bld.Layout(n)
	if err := bld.Err(); err != nil {
		return err
	}
	f.places = places
	f.resetRead()
	return nil
}

// TreeCount returns the number of trees currently placed.
func (f *Forest) TreeCount() int { return len(f.places) }

// Trees returns the current placements. The slice is owned by the
// Forest and valid until the next SetTreeCount call.
func (f *Forest) Trees() []ms2.Vec { return f.places }

// Assets returns the shared asset bundle the forest draws from.
func (f *Forest) Assets() *Assets { return f.assets }

// Bounds returns the world-space bounding box of all placed trees,
// used to frame the camera.
func (f *Forest) Bounds() ms3.Box {
	tree := f.assets.Foliage.Bounds().Add(ms3.Vec{Y: f.assets.FoliageLift})
	tree = tree.Union(f.assets.Trunk.Bounds().Add(ms3.Vec{Y: f.assets.TrunkLift}))
	bb := tree.Add(ms3.Vec{X: f.places[0].X, Z: f.places[0].Y})
	for _, p := range f.places[1:] {
		bb = bb.Union(tree.Add(ms3.Vec{X: p.X, Z: p.Y}))
	}
	return bb
}

// ReadTriangles streams the world-space triangles of every tree's
// solid meshes into dst, returning io.EOF once all trees have been
// read. Outline hulls are a rendering trick and are not streamed. The
// cursor resets after EOF so the Forest can be rendered again.
func (f *Forest) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if f.assets.Released() {
		return 0, errors.New("assets released")
	}
	if f.treeTris == nil {
		f.treeTris = f.instanceTriangles()
	}
	for n < len(dst) {
		if f.curTree >= len(f.places) {
			f.resetRead()
			return n, io.EOF
		}
		if f.curTri >= len(f.treeTris) {
			f.curTree++
			f.curTri = 0
			continue
		}
		p := f.places[f.curTree]
		off := ms3.Vec{X: p.X, Z: p.Y}
		t := f.treeTris[f.curTri]
		dst[n] = ms3.Triangle{
			ms3.Add(t[0], off),
			ms3.Add(t[1], off),
			ms3.Add(t[2], off),
		}
		n++
		f.curTri++
	}
	return n, nil
}

// instanceTriangles bakes one tree's solids, lifted to ground level,
// into a reusable local triangle list.
func (f *Forest) instanceTriangles() []ms3.Triangle {
	tris := liftTriangles(f.assets.Foliage.AppendTriangles(nil), f.assets.FoliageLift)
	tris = append(tris, liftTriangles(f.assets.Trunk.AppendTriangles(nil), f.assets.TrunkLift)...)
	return tris
}

func liftTriangles(tris []ms3.Triangle, lift float32) []ms3.Triangle {
	up := ms3.Vec{Y: lift}
	for i := range tris {
		tris[i][0] = ms3.Add(tris[i][0], up)
		tris[i][1] = ms3.Add(tris[i][1], up)
		tris[i][2] = ms3.Add(tris[i][2], up)
	}
	return tris
}

func (f *Forest) resetRead() {
	f.curTree = 0
	f.curTri = 0
}
