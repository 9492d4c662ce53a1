// Package gldevice implements graphics.Device on top of OpenGL 3.3 core
// bindings, so any 3.3 or newer core context can load it.
package gldevice

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/richinsley/goglharness/graphics"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load binds the GL function pointers through getProcAddress. The context
// that getProcAddress resolves against must be current.
func Load(getProcAddress func(name string) unsafe.Pointer) error {
	loadOnce.Do(func() {
		loadErr = bind(getProcAddress)
		if loadErr != nil {
			return
		}
		log.Printf("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
	})
	if loadErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", loadErr)
	}
	return nil
}

// bind resolves the 3.3 core entry points. Newer functions missing from the
// driver are left nil.
func bind(getProcAddress func(name string) unsafe.Pointer) error {
	return gl.InitWithProcAddrFunc(getProcAddress)
}

// Device forwards to the package-level GL functions. It holds no state of
// its own; all state lives in the current context.
type Device struct{}

var _ graphics.Device = Device{}

func (Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (Device) Clear(mask uint32) {
	var bits uint32
	if mask&graphics.ColorBufferBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&graphics.DepthBufferBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (Device) Enable(c graphics.Capability) {
	switch c {
	case graphics.DepthTest:
		gl.Enable(gl.DEPTH_TEST)
	case graphics.Blend:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

// ── shaders ──

func (Device) CreateShader(stage graphics.ShaderStage) uint32 {
	if stage == graphics.VertexStage {
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
	return gl.CreateShader(gl.FRAGMENT_SHADER)
}

func (Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (Device) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (Device) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Device) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (Device) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (Device) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (Device) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (Device) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (Device) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (Device) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (Device) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (Device) UniformMatrix4fv(location int32, m *[16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (Device) GetUniformfv(program uint32, location int32, out []float32) {
	if len(out) == 0 || location < 0 {
		return
	}
	gl.GetUniformfv(program, location, &out[0])
}

// ── buffers ──

func bufferTarget(t graphics.BufferTarget) uint32 {
	if t == graphics.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (Device) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (Device) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (Device) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (Device) BindBuffer(target graphics.BufferTarget, buffer uint32) {
	gl.BindBuffer(bufferTarget(target), buffer)
}

func (Device) BufferFloats(target graphics.BufferTarget, data []float32) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(bufferTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Device) BufferIndices(target graphics.BufferTarget, data []uint32) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(bufferTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Device) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (Device) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (Device) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

// ── textures ──

func (Device) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (Device) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (Device) BindTexture(texture uint32) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (Device) SetTextureWrap(wrap graphics.TextureWrap) {
	mode := int32(gl.REPEAT)
	switch wrap {
	case graphics.WrapClamp:
		mode = gl.CLAMP_TO_EDGE
	case graphics.WrapMirror:
		mode = gl.MIRRORED_REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, mode)
}

func (Device) SetTextureFilter(filter graphics.TextureFilter) {
	minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
	switch filter {
	case graphics.FilterMipmap:
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	case graphics.FilterNearest:
		minFilter, magFilter = gl.NEAREST, gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
}

func (Device) TexImage2D(width, height int32, pix []uint8) {
	var ptr unsafe.Pointer
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (Device) GenerateMipmap() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (Device) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

// ── draws ──

func primitive(p graphics.Primitive) uint32 {
	switch p {
	case graphics.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case graphics.Lines:
		return gl.LINES
	case graphics.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func (Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func (Device) DrawElements(mode graphics.Primitive, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}
