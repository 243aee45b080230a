//go:build !tinygo && cgo

package forestaux

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/nukaishi/tree2forest/mesh"
	"github.com/nukaishi/tree2forest/scene"
	"github.com/nukaishi/tree2forest/surface"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

func ui(f *scene.Forest, cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		log.Fatal(err)
	}
	defer term()

	a := f.Assets()
	foliageProg, err := compileMeshProgram(a.FoliageColor.AppendFragSource(nil))
	if err != nil {
		return err
	}
	trunkProg, err := compileMeshProgram(a.TrunkColor.AppendFragSource(nil))
	if err != nil {
		return err
	}
	outlineProg, err := compileMeshProgram(a.Outline.AppendFragSource(nil))
	if err != nil {
		return err
	}
	groundProg, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   surface.TextureVertexSource(),
		Fragment: surface.TextureFragSource(),
	})
	if err != nil {
		return fmt.Errorf("compiling ground program: %w", err)
	}

	foliageBuf := uploadMesh(a.Foliage)
	trunkBuf := uploadMesh(a.Trunk)
	hullBuf := uploadMesh(a.TrunkHull)
	groundBuf, groundTex := uploadGround(a)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	// Orbit camera state, starting at the isometric view.
	var (
		yaw              = math.Pi / 4
		pitch            = 0.6155 // atan(1/sqrt(2))
		camDist          = float64(f.Bounds().Diagonal()) * 0.6
		minZoom          = 1.0
		maxZoom          = 200.0
		lastMouseX       float64
		lastMouseY       float64
		firstMouseMove   = true
		isMousePressed   = false
		yawSensitivity   = 0.005
		pitchSensitivity = 0.005
		refresh          = true
	)
	flagEdit := func() { refresh = true }

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !isMousePressed {
			return
		}
		flagEdit()
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		yaw += (xpos - lastMouseX) * yawSensitivity
		pitch += (ypos - lastMouseY) * pitchSensitivity
		maxPitch := math.Pi/2 - 0.01
		if pitch > maxPitch {
			pitch = maxPitch
		}
		if pitch < 0.05 {
			pitch = 0.05 // Keep the camera above the ground plane.
		}
		lastMouseX = xpos
		lastMouseY = ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		flagEdit()
		camDist -= yoff * (camDist*.1 + .01)
		if camDist < minZoom {
			camDist = minZoom
		}
		if camDist > maxZoom {
			camDist = maxZoom
		}
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		flagEdit()
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
		} else if action == glfw.Release {
			isMousePressed = false
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		n := f.TreeCount()
		switch key {
		case glfw.KeyUp:
			n++
		case glfw.KeyDown:
			n--
		default:
			return
		}
		if err := f.SetTreeCount(n); err != nil {
			return // Count pinned at the domain edge.
		}
		flagEdit()
	})

	ctx := cfg.Context
	center := f.Bounds().Center()
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.937, 0.918, 0.886, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		vp := orthoOrbit(center, float32(yaw), float32(pitch), float32(camDist), float32(width)/float32(height))

		// Ground plane, no culling so it reads from below too.
		gl.Disable(gl.CULL_FACE)
		groundProg.Bind()
		setViewProj(groundProg, vp)
		gl.BindTexture(gl.TEXTURE_2D, groundTex)
		gl.BindVertexArray(groundBuf.vao)
		gl.DrawElements(gl.TRIANGLES, groundBuf.count, gl.UNSIGNED_INT, nil)
		gl.Enable(gl.CULL_FACE)

		for _, p := range f.Trees() {
			// Inverted hull outlines: back faces only.
			gl.CullFace(gl.FRONT)
			outlineProg.Bind()
			setViewProj(outlineProg, vp)
			drawInstance(outlineProg, foliageBuf, p.X, a.FoliageLift, p.Y, a.Outline.Scale)
			drawInstance(outlineProg, hullBuf, p.X, a.TrunkHullLift, p.Y, 1)

			gl.CullFace(gl.BACK)
			trunkProg.Bind()
			setViewProj(trunkProg, vp)
			drawInstance(trunkProg, trunkBuf, p.X, a.TrunkLift, p.Y, 1)
			foliageProg.Bind()
			setViewProj(foliageProg, vp)
			drawInstance(foliageProg, foliageBuf, p.X, a.FoliageLift, p.Y, 1)
		}

		window.SwapBuffers()
		for {
			time.Sleep(time.Second / 60)
			glfw.PollEvents()
			if refresh || window.ShouldClose() {
				refresh = false
				break
			}
		}
	}
	return nil
}

type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
}

func uploadMesh(m *mesh.Mesh) meshBuffers {
	data := make([]float32, 0, len(m.Vertices)*6)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		data = append(data, v.X, v.Y, v.Z, n.X, n.Y, n.Z)
	}
	var b meshBuffers
	b.count = int32(len(m.Indices))
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(m.Indices), gl.Ptr(m.Indices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 24, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 24, gl.PtrOffset(12))
	return b
}

func uploadGround(a *scene.Assets) (meshBuffers, uint32) {
	const e = float32(groundExtent / 2)
	verts := []float32{
		// x, y, z, u, v
		-e, 0, -e, 0, 0,
		e, 0, -e, 1, 0,
		e, 0, e, 1, 1,
		-e, 0, e, 0, 1,
	}
	idx := []uint32{0, 1, 2, 0, 2, 3}
	var b meshBuffers
	b.count = int32(len(idx))
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(verts), gl.Ptr(verts), gl.STATIC_DRAW)
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(idx), gl.Ptr(idx), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 20, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 20, gl.PtrOffset(12))

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	img := a.Ground
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return b, tex
}

func compileMeshProgram(frag []byte) (glgl.Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   surface.VertexSource(),
		Fragment: string(frag),
	})
	if err != nil {
		return prog, fmt.Errorf("%s\n\n%w", frag, err)
	}
	return prog, nil
}

func setViewProj(prog glgl.Program, vp [16]float32) {
	loc, err := prog.UniformLocation("uViewProj\x00")
	if err != nil {
		return
	}
	gl.UniformMatrix4fv(loc, 1, false, &vp[0])
}

func drawInstance(prog glgl.Program, b meshBuffers, x, lift, z, scale float32) {
	if loc, err := prog.UniformLocation("uOffset\x00"); err == nil {
		gl.Uniform3f(loc, x, lift, z)
	}
	if loc, err := prog.UniformLocation("uScale\x00"); err == nil {
		gl.Uniform1f(loc, scale)
	}
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, b.count, gl.UNSIGNED_INT, nil)
}

// orthoOrbit builds the column-major orthographic view-projection for
// a camera orbiting center at the given yaw, pitch and distance.
func orthoOrbit(center ms3.Vec, yaw, pitch, dist, aspect float32) [16]float32 {
	sy, cy := sincosf(yaw)
	sp, cp := sincosf(pitch)
	// Unit vector from center toward the camera.
	dir := ms3.Vec{X: cp * cy, Y: sp, Z: cp * sy}
	fwd := ms3.Scale(-1, dir)
	right := ms3.Unit(ms3.Cross(fwd, ms3.Vec{Y: 1}))
	up := ms3.Cross(right, fwd)

	hh := dist * 0.5 // Ortho half-height scales with zoom distance.
	hw := hh * aspect
	const far = 500.0
	var m [16]float32
	m[0], m[4], m[8] = right.X/hw, right.Y/hw, right.Z/hw
	m[12] = -ms3.Dot(center, right) / hw
	m[1], m[5], m[9] = up.X/hh, up.Y/hh, up.Z/hh
	m[13] = -ms3.Dot(center, up) / hh
	m[2], m[6], m[10] = fwd.X/far, fwd.Y/far, fwd.Z/far
	m[14] = -ms3.Dot(center, fwd) / far
	m[15] = 1
	return m
}

func sincosf(a float32) (s, c float32) {
	return float32(math.Sin(float64(a))), float32(math.Cos(float64(a)))
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		log.Fatalln("Failed to initialize GLFW:", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, "tree2forest Scene Viewer", nil, nil)
	if err != nil {
		log.Fatalln("Failed to create GLFW window:", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalln("Failed to initialize OpenGL:", err)
	}
	return window, glfw.Terminate, err
}
