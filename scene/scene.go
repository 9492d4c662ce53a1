// Package scene holds the textured quad the harness draws each frame.
package scene

import (
	"fmt"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglharness/graphics"
	"github.com/richinsley/goglharness/mesh"
	"github.com/richinsley/goglharness/shader"
	"github.com/richinsley/goglharness/texture"
)

// positions, colors, texture coords
var quadVertices = []float32{
	0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0, // top right
	0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0, // bottom right
	-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, // bottom left
	-0.5, 0.5, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0, // top left
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

var quadLayout = mesh.Layout{3, 3, 2}

// Viewport reports the aspect ratio the projection should use.
type Viewport interface {
	AspectRatio() float32
}

// Config selects the quad's shaders and texture.
type Config struct {
	// VertexPath and FragmentPath load shaders from disk when both are set.
	VertexPath   string
	FragmentPath string
	// Translator, when set, compiles the GLSL ES sources through it.
	Translator shader.Translator
	// TexturePath empty uses a generated checkerboard.
	TexturePath string
	Tint        mgl32.Vec3
	ClearColor  [4]float32
}

// DefaultConfig is the container quad on a teal background.
func DefaultConfig() Config {
	return Config{
		Tint:       mgl32.Vec3{1, 1, 1},
		ClearColor: [4]float32{0.2, 0.3, 0.3, 1.0},
	}
}

// Quad is a textured quad tilted back and viewed through a perspective camera.
type Quad struct {
	device   graphics.Device
	viewport Viewport
	program  *shader.Program
	mesh     *mesh.Mesh
	texture  *texture.Texture
	clear    [4]float32

	Model mgl32.Mat4
	View  mgl32.Mat4
}

// NewQuad builds the program, buffers and texture. Partially built
// resources are released on error.
func NewQuad(d graphics.Device, vp Viewport, cfg Config) (*Quad, error) {
	q := &Quad{
		device:   d,
		viewport: vp,
		clear:    cfg.ClearColor,
		Model:    mgl32.HomogRotate3DX(mgl32.DegToRad(-55)),
		View:     mgl32.Translate3D(0, 0, -3),
	}
	fail := func(format string, err error) (*Quad, error) {
		q.Destroy()
		return nil, fmt.Errorf(format, err)
	}

	var err error
	q.program, err = compile(d, cfg)
	if err != nil {
		return fail("failed to create shader program: %w", err)
	}

	q.mesh, err = mesh.New(d, quadVertices, quadLayout, quadIndices)
	if err != nil {
		return fail("failed to create quad mesh: %w", err)
	}

	if cfg.TexturePath != "" {
		q.texture, err = texture.Load(d, cfg.TexturePath, texture.DefaultOptions())
	} else {
		img := texture.Checkerboard(256, 8, color.RGBA{200, 140, 60, 255}, color.RGBA{90, 60, 30, 255})
		q.texture, err = texture.New(d, img, texture.DefaultOptions())
	}
	if err != nil {
		return fail("failed to create texture: %w", err)
	}

	d.Enable(graphics.DepthTest)

	q.program.Use()
	q.program.SetInt("texture1", 0)
	q.program.SetVec3("tint", cfg.Tint)

	log.Printf("Created quad scene (program %d)", q.program.ID())
	return q, nil
}

func compile(d graphics.ShaderDevice, cfg Config) (*shader.Program, error) {
	if cfg.VertexPath != "" && cfg.FragmentPath != "" {
		var opts []shader.Option
		if cfg.Translator != nil {
			opts = append(opts, shader.WithTranslator(cfg.Translator))
		}
		return shader.CompileFiles(d, cfg.VertexPath, cfg.FragmentPath, opts...)
	}
	if cfg.Translator != nil {
		vs, fs := shader.TexturedSources(true)
		return shader.Compile(d, vs, fs, shader.WithLabel("textured (translated)"), shader.WithTranslator(cfg.Translator))
	}
	vs, fs := shader.TexturedSources(false)
	return shader.Compile(d, vs, fs, shader.WithLabel("textured"))
}

// Projection is the perspective matrix for the current aspect ratio.
func (q *Quad) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(45), q.viewport.AspectRatio(), 0.1, 100)
}

// Program exposes the quad's shader program.
func (q *Quad) Program() *shader.Program {
	return q.program
}

// Draw renders one frame. It is the window's frame callback.
func (q *Quad) Draw() {
	q.device.ClearColor(q.clear[0], q.clear[1], q.clear[2], q.clear[3])
	q.device.Clear(graphics.ColorBufferBit | graphics.DepthBufferBit)

	q.texture.Bind(0)
	q.program.Use()
	q.program.SetMat4("model", q.Model)
	q.program.SetMat4("view", q.View)
	q.program.SetMat4("projection", q.Projection())

	q.mesh.Draw()
}

// Destroy releases every GPU resource the quad owns. Safe to call more than once.
func (q *Quad) Destroy() {
	if q.mesh == nil && q.texture == nil && q.program == nil {
		return
	}
	if q.mesh != nil {
		q.mesh.Delete()
	}
	if q.texture != nil {
		q.texture.Delete()
	}
	if q.program != nil {
		q.program.Delete()
	}
	q.mesh, q.texture, q.program = nil, nil, nil
	log.Printf("Destroyed quad scene")
}
