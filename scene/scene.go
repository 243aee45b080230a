// Package scene owns the shared forest assets and composes per-tree
// instances from them. Meshes, appearance rules and the ground texture
// are built exactly once, shared read-only by every tree, and released
// exactly once at teardown.
package scene

import (
	"errors"
	"image"

	forest "github.com/nukaishi/tree2forest"
	"github.com/nukaishi/tree2forest/mesh"
	"github.com/nukaishi/tree2forest/surface"
)

// Tessellation density of the profile arcs.
const (
	FoliageCurveSegments = 24
	TrunkCurveSegments   = 12
)

// TrunkHullPadding inflates the trunk profile for its outline hull.
// The trunk cross-section is too elongated for the uniform scale trick
// to give an even outline width, so the hull is a true offset shape.
const TrunkHullPadding = 0.1

// GroundRepeat is how many dot tiles span the ground texture per axis.
const GroundRepeat = 32

// Assets is the shared, read-only bundle every tree instance draws
// from. Build it once with BuildAssets and release it once with
// Release when the scene is torn down.
type Assets struct {
	Foliage   *mesh.Mesh
	Trunk     *mesh.Mesh
	TrunkHull *mesh.Mesh

	FoliageColor surface.Gradient
	TrunkColor   surface.Flat
	Outline      surface.Outline

	Ground *image.RGBA

	// World-space y offsets placing each part so the silhouette base
	// rests on the ground plane.
	FoliageLift   float32
	TrunkLift     float32
	TrunkHullLift float32

	released bool
}

// BuildAssets generates the shared forest geometry, appearance rules
// and ground texture. Each mesh is recentered on its bounding box; the
// lift fields restore the authored vertical placement.
func BuildAssets() (*Assets, error) {
	bld := forest.Builder{NoPanic: true}

	foliage, foliageLift, err := buildPart(bld.FoliageProfile(), FoliageCurveSegments, mesh.FoliageExtrude, 0)
	if err != nil {
		return nil, err
	}
	trunk, trunkLift, err := buildPart(bld.TrunkProfile(0), TrunkCurveSegments, mesh.TrunkExtrude, 0)
	if err != nil {
		return nil, err
	}
	// The hull extends past the inner trunk in depth as well so the
	// outline reads from every orbit angle.
	hullExtrude := mesh.TrunkExtrude
	hullExtrude.Depth += TrunkHullPadding
	hull, hullLift, err := buildPart(bld.TrunkProfile(TrunkHullPadding), TrunkCurveSegments, hullExtrude, -TrunkHullPadding/2)
	if err != nil {
		return nil, err
	}
	if err := bld.Err(); err != nil {
		return nil, err
	}

	return &Assets{
		Foliage:       foliage,
		Trunk:         trunk,
		TrunkHull:     hull,
		FoliageColor:  surface.NewFoliageGradient(foliage.Bounds()),
		TrunkColor:    surface.NewTrunkSurface(),
		Outline:       surface.NewOutline(),
		Ground:        surface.GroundTexture(surface.DotTile(), GroundRepeat),
		FoliageLift:   foliageLift,
		TrunkLift:     trunkLift,
		TrunkHullLift: hullLift,
	}, nil
}

// buildPart tessellates a profile and extrudes it. baseY is the
// profile-space y of the part's lowest point; the returned lift places
// that point back at baseY in world space after recentering.
func buildPart(pr forest.Profile, curveSegments int, params mesh.ExtrudeParams, baseY float32) (*mesh.Mesh, float32, error) {
	outline, err := pr.Append(nil, curveSegments)
	if err != nil {
		return nil, 0, err
	}
	m, err := mesh.Extrude(outline, params)
	if err != nil {
		return nil, 0, err
	}
	lift := baseY - m.Bounds().Min.Y
	return m, lift, nil
}

// Release disposes the shared assets. The second and later calls
// return an error; use Released to query state without erroring.
func (a *Assets) Release() error {
	if a.released {
		return errors.New("scene assets already released")
	}
	a.released = true
	a.Foliage = nil
	a.Trunk = nil
	a.TrunkHull = nil
	a.Ground = nil
	return nil
}

// Released reports whether Release has been called.
func (a *Assets) Released() bool { return a.released }
