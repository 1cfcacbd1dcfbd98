// Package overlay draws a small screen-space stats panel over the globe.
package overlay

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"planetviewer/rendering/opengl/shaders"
)

const statsVertexShader = `
#version 410 core

layout (location = 0) in vec2 position;
layout (location = 1) in vec4 color;

out vec4 fragColor;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(position, 0.0, 1.0);
    fragColor = color;
}
`

const statsFragmentShader = `
#version 410 core

in vec4 fragColor;
out vec4 outColor;

void main() {
    outColor = fragColor;
}
`

// Stats is one frame's worth of displayed values.
type Stats struct {
	FPS           float64
	Zoom          float64
	InitialZoom   float64
	RotationSpeed float64
}

// StatsOverlay renders fps, zoom and spin as horizontal bars in the top-left
// corner.
type StatsOverlay struct {
	program uint32
	vao     uint32
	vbo     uint32

	width  float32
	height float32

	stats    Stats
	vertices []float32
}

const (
	panelX     = 10
	panelY     = 10
	panelW     = 220
	barHeight  = 12
	barSpacing = 20
	barMaxW    = panelW - 20
)

func NewStatsOverlay(width, height int) (*StatsOverlay, error) {
	program, err := shaders.NewProgram(statsVertexShader, statsFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("stats overlay: %w", err)
	}

	so := &StatsOverlay{
		program: program,
		width:   float32(width),
		height:  float32(height),
	}

	gl.GenVertexArrays(1, &so.vao)
	gl.GenBuffers(1, &so.vbo)

	gl.BindVertexArray(so.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, so.vbo)

	// position (2) + color (4)
	stride := int32(6 * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	return so, nil
}

func (so *StatsOverlay) UpdateStats(s Stats) {
	so.stats = s
}

func (so *StatsOverlay) UpdateSize(width, height int) {
	so.width = float32(width)
	so.height = float32(height)
}

// Render draws the panel. Depth testing is off while drawing and restored after.
func (so *StatsOverlay) Render() {
	so.vertices = so.vertices[:0]

	rows := []struct {
		fill  float32
		color mgl32.Vec4
	}{
		{fpsFill(so.stats.FPS), mgl32.Vec4{0, 1, 0, 0.9}},
		{zoomFill(so.stats.Zoom, so.stats.InitialZoom), mgl32.Vec4{0.5, 0.5, 1, 0.9}},
		{float32(so.stats.RotationSpeed), mgl32.Vec4{1, 1, 0, 0.9}},
	}

	panelH := float32(len(rows)*barSpacing + 10)
	so.quad(panelX, panelY, panelW, panelH, mgl32.Vec4{0, 0, 0, 0.5})
	for i, row := range rows {
		y := float32(panelY + 10 + i*barSpacing)
		so.quad(panelX+10, y, barMaxW*clamp01(row.fill), barHeight, row.color)
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(so.program)
	projection := mgl32.Ortho2D(0, so.width, so.height, 0)
	gl.UniformMatrix4fv(shaders.Uniform(so.program, "projection"), 1, false, &projection[0])

	gl.BindVertexArray(so.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, so.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(so.vertices)*4, gl.Ptr(so.vertices), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(so.vertices)/6))

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (so *StatsOverlay) quad(x, y, w, h float32, c mgl32.Vec4) {
	if w <= 0 || h <= 0 {
		return
	}
	so.vertices = append(so.vertices,
		x, y, c[0], c[1], c[2], c[3],
		x+w, y, c[0], c[1], c[2], c[3],
		x, y+h, c[0], c[1], c[2], c[3],
		x+w, y, c[0], c[1], c[2], c[3],
		x+w, y+h, c[0], c[1], c[2], c[3],
		x, y+h, c[0], c[1], c[2], c[3],
	)
}

// fpsFill maps 0..120 fps onto the bar.
func fpsFill(fps float64) float32 {
	return float32(fps / 120)
}

// zoomFill is half full at the initial zoom, growing with distance on a log scale.
func zoomFill(zoom, initial float64) float32 {
	if zoom <= 0 || initial <= 0 {
		return 0
	}
	return float32(0.5 + 0.25*math.Log2(zoom/initial))
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func (so *StatsOverlay) Release() {
	if so.program != 0 {
		gl.DeleteProgram(so.program)
	}
	if so.vao != 0 {
		gl.DeleteVertexArrays(1, &so.vao)
	}
	if so.vbo != 0 {
		gl.DeleteBuffers(1, &so.vbo)
	}
}
