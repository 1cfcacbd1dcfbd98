// Package opengl draws the globe and ocean meshes in a native glfw window.
package opengl

import (
	"fmt"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"planetviewer/camera"
	"planetviewer/frame"
	"planetviewer/mesh"
	"planetviewer/rendering/opengl/overlay"
	"planetviewer/rendering/opengl/shaders"
)

// OceanColor is the translucent blue of the sea-level shell.
var OceanColor = rl.NewColor(0, 0, 255, 204)

// SunDirection is where the directional light shines from, in world space.
var SunDirection = mgl32.Vec3{1, 0, 0}

const (
	fieldOfView = 45.0
	nearPlane   = 0.01
	farPlane    = 100.0
)

// Options configures the window and lighting.
type Options struct {
	Width, Height int
	Title         string

	Material             string
	AmbientIntensity     float64
	SunIntensity         float64
	CameraLightIntensity float64
	RenderGlobeInterior  bool

	InitialZoom float64
	ShowStats   bool
}

// drawable is one uploaded mesh.
type drawable struct {
	vao, vbo uint32
	count    int32
}

// GlobeRenderer implements frame.Renderer and frame.EventPoller. It must be
// created and driven from the thread that owns the GL context.
type GlobeRenderer struct {
	window  *glfw.Window
	program uint32

	globe drawable
	ocean drawable

	opts     Options
	material shaders.Material

	width, height int
	projMatrix    mgl32.Mat4

	pointer *camera.Pointer

	statsOverlay *overlay.StatsOverlay
	showStats    bool
	lastFrame    time.Time
	fps          float64
}

var _ frame.Renderer = (*GlobeRenderer)(nil)
var _ frame.EventPoller = (*GlobeRenderer)(nil)

// NewGlobeRenderer opens a window, uploads both meshes, and routes window
// input into queue.
func NewGlobeRenderer(meshes *mesh.Meshes, queue *camera.Queue, opts Options) (*GlobeRenderer, error) {
	runtime.LockOSThread()

	material, ok := shaders.ParseMaterial(opts.Material)
	if !ok {
		return nil, fmt.Errorf("unknown material %q", opts.Material)
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	title := opts.Title
	if title == "" {
		title = "Planet"
	}
	window, err := glfw.CreateWindow(opts.Width, opts.Height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	fmt.Println("OpenGL version:", gl.GoStr(gl.GetString(gl.VERSION)))

	program, err := shaders.NewProgram(shaders.GlobeVertexShader, shaders.GlobeFragmentShader)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("globe shaders: %w", err)
	}

	r := &GlobeRenderer{
		window:    window,
		program:   program,
		opts:      opts,
		material:  material,
		pointer:   camera.NewPointer(queue),
		showStats: opts.ShowStats,
	}

	r.globe = upload(meshes.Globe.Interleave(OceanColor))
	r.ocean = upload(meshes.Ocean.Interleave(OceanColor))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0, 0, 0, 1)

	fbWidth, fbHeight := window.GetFramebufferSize()
	r.onFramebufferResize(fbWidth, fbHeight)
	_, winHeight := window.GetSize()
	r.pointer.Resize(winHeight)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.onFramebufferResize(width, height)
	})
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		r.pointer.Resize(height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		r.pointer.Scroll(yoff)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := w.GetCursorPos()
		r.pointer.Button(action == glfw.Press, x, y)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		r.pointer.Move(xpos, ypos)
	})

	stats, err := overlay.NewStatsOverlay(fbWidth, fbHeight)
	if err != nil {
		fmt.Printf("Warning: stats overlay disabled: %v\n", err)
	} else {
		r.statsOverlay = stats
	}

	return r, nil
}

// upload copies an interleaved vertex buffer (see mesh.VertexStride) to the GPU.
func upload(vertices []float32) drawable {
	d := drawable{count: int32(len(vertices) / mesh.VertexStride)}
	if d.count == 0 {
		return d
	}

	gl.GenVertexArrays(1, &d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(mesh.VertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return d
}

func (d drawable) draw() {
	if d.count == 0 {
		return
	}
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, d.count)
}

func (d *drawable) release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
}

// Render draws the globe spun by scene.GlobeRotation, then the ocean shell
// blended over it, then the stats panel.
func (r *GlobeRenderer) Render(scene frame.Scene) error {
	r.updateFPS()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.program)

	view := mat4To32(scene.View)
	gl.UniformMatrix4fv(shaders.Uniform(r.program, "view"), 1, false, &view[0])
	gl.UniformMatrix4fv(shaders.Uniform(r.program, "projection"), 1, false, &r.projMatrix[0])

	cam := vec3To32(scene.Camera)
	light := vec3To32(scene.Light)
	gl.Uniform3f(shaders.Uniform(r.program, "cameraPos"), cam[0], cam[1], cam[2])
	gl.Uniform3f(shaders.Uniform(r.program, "cameraLight"), light[0], light[1], light[2])
	gl.Uniform3f(shaders.Uniform(r.program, "sunDirection"), SunDirection[0], SunDirection[1], SunDirection[2])
	gl.Uniform1f(shaders.Uniform(r.program, "ambientIntensity"), float32(r.opts.AmbientIntensity))
	gl.Uniform1f(shaders.Uniform(r.program, "sunIntensity"), float32(r.opts.SunIntensity))
	gl.Uniform1f(shaders.Uniform(r.program, "cameraLightIntensity"), float32(r.opts.CameraLightIntensity))

	modelLoc := shaders.Uniform(r.program, "model")
	materialLoc := shaders.Uniform(r.program, "material")

	if r.opts.RenderGlobeInterior {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
	model := mgl32.HomogRotate3DY(float32(scene.GlobeRotation))
	gl.UniformMatrix4fv(modelLoc, 1, false, &model[0])
	gl.Uniform1i(materialLoc, int32(r.material))
	r.globe.draw()

	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	identity := mgl32.Ident4()
	gl.UniformMatrix4fv(modelLoc, 1, false, &identity[0])
	gl.Uniform1i(materialLoc, int32(shaders.MaterialPhong))
	r.ocean.draw()
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)

	if r.showStats && r.statsOverlay != nil {
		r.statsOverlay.UpdateStats(overlay.Stats{
			FPS:           r.fps,
			Zoom:          scene.Zoom,
			InitialZoom:   r.opts.InitialZoom,
			RotationSpeed: scene.RotationSpeed,
		})
		r.statsOverlay.Render()
	}

	r.window.SwapBuffers()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl error 0x%x", code)
	}
	return nil
}

func (r *GlobeRenderer) updateFPS() {
	now := time.Now()
	if !r.lastFrame.IsZero() {
		if dt := now.Sub(r.lastFrame).Seconds(); dt > 0 {
			r.fps += (1/dt - r.fps) * 0.1
		}
	}
	r.lastFrame = now
}

func (r *GlobeRenderer) updateMatrices() {
	aspect := float32(1)
	if r.height > 0 {
		aspect = float32(r.width) / float32(r.height)
	}
	r.projMatrix = mgl32.Perspective(mgl32.DegToRad(fieldOfView), aspect, nearPlane, farPlane)
}

func (r *GlobeRenderer) onFramebufferResize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.updateMatrices()
	if r.statsOverlay != nil {
		r.statsOverlay.UpdateSize(width, height)
	}
}

func (r *GlobeRenderer) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
	case glfw.KeyF1:
		r.showStats = !r.showStats
	}
}

func (r *GlobeRenderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

func (r *GlobeRenderer) PollEvents() {
	glfw.PollEvents()
}

// Terminate releases GL resources and closes the window.
func (r *GlobeRenderer) Terminate() {
	if r.statsOverlay != nil {
		r.statsOverlay.Release()
	}
	r.globe.release()
	r.ocean.release()
	gl.DeleteProgram(r.program)
	r.window.Destroy()
	glfw.Terminate()
}

func mat4To32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

func vec3To32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
