// Package forestaux provides ready-made rendering helpers for forest
// scenes: STL and PNG export plus an interactive OpenGL viewer.
// Applications with their own render loop should treat these as a
// starting point rather than a framework.
package forestaux

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/nukaishi/tree2forest/mesh"
	"github.com/nukaishi/tree2forest/scene"
	"github.com/soypat/geometry/ms3"
)

// Renderer produces triangles in a streaming fashion and returns
// io.EOF when exhausted. *scene.Forest implements it.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the
// slice read. io.EOF is not returned as an error.
func RenderAll(r Renderer, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type RenderConfig struct {
	STLOutput    io.Writer
	VisualOutput io.Writer
	// VisualWidth and VisualHeight size the PNG render. Zero values
	// default to 1024x768.
	VisualWidth  int
	VisualHeight int
	Silent       bool
}

// Render exports a forest per cfg: the solid geometry of every tree as
// a binary STL and/or an isometric software-rasterized PNG of the full
// scene with outlines and the dotted ground.
func Render(f *scene.Forest, cfg RenderConfig) (err error) {
	if cfg.STLOutput == nil && cfg.VisualOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}

	if cfg.STLOutput != nil {
		watch := stopwatch()
		triangles, err := RenderAll(f, nil)
		if err != nil {
			return fmt.Errorf("rendering triangles: %s", err)
		}
		_, err = mesh.WriteBinarySTL(cfg.STLOutput, triangles)
		if err != nil {
			return fmt.Errorf("writing STL file: %s", err)
		}
		filename := "STL"
		if fp, ok := cfg.STLOutput.(*os.File); ok {
			filename = fp.Name()
		}
		log("wrote", filename, "with", len(triangles), "triangles in", watch())
	}

	if cfg.VisualOutput != nil {
		watch := stopwatch()
		w, h := cfg.VisualWidth, cfg.VisualHeight
		if w <= 0 {
			w = 1024
		}
		if h <= 0 {
			h = 768
		}
		img := renderImage(f, w, h)
		if err := png.Encode(cfg.VisualOutput, img); err != nil {
			return fmt.Errorf("encoding PNG: %s", err)
		}
		filename := "PNG"
		if fp, ok := cfg.VisualOutput.(*os.File); ok {
			filename = fp.Name()
		}
		log("wrote", filename, "in", watch())
	}
	return nil
}

// UIConfig configures the interactive viewer.
type UIConfig struct {
	Width, Height int
	// Context cancels the render loop when done.
	Context context.Context
}

// UI starts an interactive viewer of the forest with orbit and zoom
// camera controls; the up and down arrow keys change the tree count.
// Blocks until the window closes or cfg.Context is canceled. Requires
// cgo; without it an error is returned immediately.
func UI(f *scene.Forest, cfg UIConfig) error {
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}
	return ui(f, cfg)
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
