package graphics

// The device interfaces mirror the OpenGL object model. Where GL acts on "the
// currently bound" object the methods do too, so callers must bind before
// they upload or draw. Everything else takes explicit handles.

// ShaderStage selects the pipeline stage a shader object compiles for.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// BufferTarget selects the binding point for a buffer object.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Primitive is the topology of a draw call.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
	Lines
	Points
)

// ClearMask bits for Clear.
const (
	ColorBufferBit uint32 = 1 << iota
	DepthBufferBit
)

// Capability values for Enable.
type Capability int

const (
	DepthTest Capability = iota
	Blend
)

// Rasterizer covers framebuffer-level state.
type Rasterizer interface {
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Enable(c Capability)
}

// ShaderDevice covers shader and program objects and their uniforms.
type ShaderDevice interface {
	CreateShader(stage ShaderStage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// GetUniformLocation returns -1 for names that are not active uniforms.
	GetUniformLocation(program uint32, name string) int32
	// Writes to location -1 are ignored by the device.
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4fv(location int32, m *[16]float32)
	GetUniformfv(program uint32, location int32, out []float32)
}

// BufferDevice covers vertex arrays and buffer objects.
type BufferDevice interface {
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	BufferFloats(target BufferTarget, data []float32)
	BufferIndices(target BufferTarget, data []uint32)
	DeleteBuffer(buffer uint32)
	// VertexAttribPointer describes float attribute index with size
	// components; stride and offset are in bytes.
	VertexAttribPointer(index uint32, size int32, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
}

// TextureFilter selects minification and magnification filtering.
type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterNearest
	FilterMipmap
)

// TextureWrap selects the texture coordinate wrap mode.
type TextureWrap int

const (
	WrapRepeat TextureWrap = iota
	WrapClamp
	WrapMirror
)

// TextureDevice covers 2D texture objects.
type TextureDevice interface {
	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(texture uint32)
	SetTextureWrap(wrap TextureWrap)
	SetTextureFilter(filter TextureFilter)
	// TexImage2D uploads tightly packed RGBA8 pixels to the bound texture.
	TexImage2D(width, height int32, pix []uint8)
	GenerateMipmap()
	DeleteTexture(texture uint32)
}

// DrawDevice issues draw calls against the bound vertex array.
type DrawDevice interface {
	DrawArrays(mode Primitive, first, count int32)
	DrawElements(mode Primitive, count int32)
}

// Device is the whole GPU surface the harness uses.
type Device interface {
	Rasterizer
	ShaderDevice
	BufferDevice
	TextureDevice
	DrawDevice
}
