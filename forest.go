// Package forest generates the procedural geometry of a stylized
// low-poly forest: closed 2D profiles for tree foliage and trunks,
// and the grid layout that places an arbitrary tree count on the
// ground plane. Extrusion of profiles into solids lives in the mesh
// subpackage; surface coloring in the surface subpackage.
package forest

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// Spacing between neighboring trees on both ground axes.
	TreeSpacing = 5.0
	// MaxTrees is the largest tree count the layout engine accepts.
	// Matches the ceiling imposed by interactive frontends.
	MaxTrees = 100
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Builder wraps profile and layout generation logic.
// Provides error handling strategies with panics or error accumulation
// during shape generation.
type Builder struct {
	NoPanic   bool
	accumErrs []error
}

// Err returns errors accumulated during shape generation when NoPanic is set.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if !bld.NoPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func absf(a float32) float32 {
	return math32.Abs(a)
}
