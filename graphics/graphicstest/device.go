package graphicstest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/richinsley/goglharness/graphics"
)

// Call is one recorded device method invocation.
type Call struct {
	Method string
	Args   []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

// Validator inspects shader source and returns a compiler log on failure, or
// "" when the source compiles.
type Validator func(stage graphics.ShaderStage, source string) string

type fakeShader struct {
	stage    graphics.ShaderStage
	source   string
	compiled bool
	log      string
}

type fakeProgram struct {
	shaders  []uint32
	linked   bool
	log      string
	uniforms map[string]int32
	values   map[int32][]float32
}

// Buffer is the recorded contents of a buffer object.
type Buffer struct {
	Floats  []float32
	Indices []uint32
}

// Texture is the recorded state of a texture object.
type Texture struct {
	Width, Height int32
	Pix           []uint8
	Wrap          graphics.TextureWrap
	Filter        graphics.TextureFilter
	Mipmapped     bool
}

// Attrib is one enabled vertex attribute of a vertex array.
type Attrib struct {
	Size    int32
	Stride  int32
	Offset  int
	Enabled bool
	Buffer  uint32
}

// Device is an in-memory graphics.Device. It records every call and models
// enough of GL's shader, buffer and texture state to check behavior.
type Device struct {
	// Validate overrides DefaultValidator when set.
	Validate Validator

	Calls []Call
	// Errors collects misuse a real driver would flag, such as uploading
	// with nothing bound.
	Errors []string

	ViewportRect [4]int32
	ClearRGBA    [4]float32
	Clears       int
	Enabled      map[graphics.Capability]bool

	Buffers      map[uint32]*Buffer
	Textures     map[uint32]*Texture
	VertexArrays map[uint32]map[uint32]*Attrib

	CurrentProgram uint32
	BoundVAO       uint32
	BoundBuffers   map[graphics.BufferTarget]uint32
	BoundTexture   uint32
	ActiveUnit     uint32

	nextID   uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
}

var _ graphics.Device = (*Device)(nil)

// NewDevice returns an empty Device.
func NewDevice() *Device {
	return &Device{
		Enabled:      make(map[graphics.Capability]bool),
		Buffers:      make(map[uint32]*Buffer),
		Textures:     make(map[uint32]*Texture),
		VertexArrays: make(map[uint32]map[uint32]*Attrib),
		BoundBuffers: make(map[graphics.BufferTarget]uint32),
		shaders:      make(map[uint32]*fakeShader),
		programs:     make(map[uint32]*fakeProgram),
	}
}

func (d *Device) record(method string, args ...any) {
	d.Calls = append(d.Calls, Call{Method: method, Args: args})
}

func (d *Device) fail(format string, args ...any) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// CallsTo returns the recorded calls to method.
func (d *Device) CallsTo(method string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls but keeps object state.
func (d *Device) ResetCalls() {
	d.Calls = nil
}

// LiveShaders and LivePrograms count objects not yet deleted.
func (d *Device) LiveShaders() int  { return len(d.shaders) }
func (d *Device) LivePrograms() int { return len(d.programs) }

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport", x, y, width, height)
	d.ViewportRect = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor", r, g, b, a)
	d.ClearRGBA = [4]float32{r, g, b, a}
}

func (d *Device) Clear(mask uint32) {
	d.record("Clear", mask)
	d.Clears++
}

func (d *Device) Enable(c graphics.Capability) {
	d.record("Enable", c)
	d.Enabled[c] = true
}

// ── shaders ──

var (
	declRE    = regexp.MustCompile(`\buniform\s+\w+\s+(\w+)\s*(\[\s*\d+\s*\])?\s*;`)
	versionRE = regexp.MustCompile(`^\s*#version\s+\d+`)
	outRE     = regexp.MustCompile(`(?m)^\s*out\s+\w+\s+(\w+)\s*;`)
	inRE      = regexp.MustCompile(`(?m)^\s*in\s+\w+\s+(\w+)\s*;`)
)

// DefaultValidator accepts sources that start with a #version line, define
// main and have balanced braces and parentheses. Failures produce a log in
// the shape desktop drivers print.
func DefaultValidator(stage graphics.ShaderStage, source string) string {
	if !versionRE.MatchString(source) {
		return "ERROR: 0:1: '' : #version required and missing."
	}
	if strings.Contains(source, "#error") {
		return "ERROR: 0:1: '#error' : preprocessor error"
	}
	if !strings.Contains(source, "void main") {
		return "ERROR: 0:1: 'main' : function not defined"
	}
	braces, parens := 0, 0
	for _, r := range source {
		switch r {
		case '{':
			braces++
		case '}':
			braces--
		case '(':
			parens++
		case ')':
			parens--
		}
		if braces < 0 || parens < 0 {
			break
		}
	}
	if braces != 0 || parens != 0 {
		return "ERROR: 0:1: '' : syntax error: unexpected end of file"
	}
	return ""
}

func (d *Device) CreateShader(stage graphics.ShaderStage) uint32 {
	id := d.id()
	d.record("CreateShader", stage)
	d.shaders[id] = &fakeShader{stage: stage}
	return id
}

func (d *Device) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource", shader)
	if s, ok := d.shaders[shader]; ok {
		s.source = source
	} else {
		d.fail("ShaderSource: unknown shader %d", shader)
	}
}

func (d *Device) CompileShader(shader uint32) {
	d.record("CompileShader", shader)
	s, ok := d.shaders[shader]
	if !ok {
		d.fail("CompileShader: unknown shader %d", shader)
		return
	}
	validate := d.Validate
	if validate == nil {
		validate = DefaultValidator
	}
	s.log = validate(s.stage, s.source)
	s.compiled = s.log == ""
}

func (d *Device) ShaderCompiled(shader uint32) bool {
	s, ok := d.shaders[shader]
	return ok && s.compiled
}

func (d *Device) ShaderInfoLog(shader uint32) string {
	if s, ok := d.shaders[shader]; ok {
		return s.log
	}
	return ""
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader", shader)
	delete(d.shaders, shader)
}

func (d *Device) CreateProgram() uint32 {
	id := d.id()
	d.record("CreateProgram")
	d.programs[id] = &fakeProgram{}
	return id
}

func (d *Device) AttachShader(program, shader uint32) {
	d.record("AttachShader", program, shader)
	p, ok := d.programs[program]
	if !ok {
		d.fail("AttachShader: unknown program %d", program)
		return
	}
	p.shaders = append(p.shaders, shader)
}

func (d *Device) LinkProgram(program uint32) {
	d.record("LinkProgram", program)
	p, ok := d.programs[program]
	if !ok {
		d.fail("LinkProgram: unknown program %d", program)
		return
	}
	var stages [2]bool
	p.uniforms = make(map[string]int32)
	p.values = make(map[int32][]float32)
	p.linked = false
	for _, sid := range p.shaders {
		s, ok := d.shaders[sid]
		if !ok || !s.compiled {
			p.log = "error: attached shader is not compiled"
			return
		}
		stages[s.stage] = true
		for _, m := range declRE.FindAllStringSubmatch(s.source, -1) {
			if _, seen := p.uniforms[m[1]]; !seen {
				p.uniforms[m[1]] = int32(len(p.uniforms))
			}
		}
	}
	if !stages[graphics.VertexStage] || !stages[graphics.FragmentStage] {
		p.log = "error: program requires both a vertex and a fragment shader"
		return
	}
	outputs := make(map[string]bool)
	var inputs []string
	for _, sid := range p.shaders {
		s := d.shaders[sid]
		switch s.stage {
		case graphics.VertexStage:
			for _, m := range outRE.FindAllStringSubmatch(s.source, -1) {
				outputs[m[1]] = true
			}
		case graphics.FragmentStage:
			for _, m := range inRE.FindAllStringSubmatch(s.source, -1) {
				inputs = append(inputs, m[1])
			}
		}
	}
	for _, name := range inputs {
		if !outputs[name] {
			p.log = fmt.Sprintf("error: fragment shader input '%s' is not written by the vertex shader", name)
			return
		}
	}
	p.linked = true
	p.log = ""
}

func (d *Device) ProgramLinked(program uint32) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(program uint32) string {
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram", program)
	d.CurrentProgram = program
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	delete(d.programs, program)
	if d.CurrentProgram == program {
		d.CurrentProgram = 0
	}
}

func (d *Device) GetUniformLocation(program uint32, name string) int32 {
	d.record("GetUniformLocation", program, name)
	p, ok := d.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) write(method string, location int32, v ...float32) {
	args := []any{location}
	for _, f := range v {
		args = append(args, f)
	}
	d.record(method, args...)
	if location < 0 {
		return
	}
	p, ok := d.programs[d.CurrentProgram]
	if !ok {
		d.fail("%s: no current program", method)
		return
	}
	if int(location) >= len(p.uniforms) {
		d.fail("%s: invalid location %d", method, location)
		return
	}
	p.values[location] = append([]float32(nil), v...)
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.write("Uniform1i", location, float32(v))
}

func (d *Device) Uniform1f(location int32, v float32) {
	d.write("Uniform1f", location, v)
}

func (d *Device) Uniform3f(location int32, x, y, z float32) {
	d.write("Uniform3f", location, x, y, z)
}

func (d *Device) Uniform4f(location int32, x, y, z, w float32) {
	d.write("Uniform4f", location, x, y, z, w)
}

func (d *Device) UniformMatrix4fv(location int32, m *[16]float32) {
	d.write("UniformMatrix4fv", location, m[:]...)
}

func (d *Device) GetUniformfv(program uint32, location int32, out []float32) {
	p, ok := d.programs[program]
	if !ok || location < 0 {
		return
	}
	copy(out, p.values[location])
}

// UniformValue returns the last value written to name in program.
func (d *Device) UniformValue(program uint32, name string) ([]float32, bool) {
	p, ok := d.programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := p.values[loc]
	return v, ok
}

// ── buffers ──

func (d *Device) GenVertexArray() uint32 {
	id := d.id()
	d.record("GenVertexArray")
	d.VertexArrays[id] = make(map[uint32]*Attrib)
	return id
}

func (d *Device) BindVertexArray(vao uint32) {
	d.record("BindVertexArray", vao)
	if _, ok := d.VertexArrays[vao]; !ok && vao != 0 {
		d.fail("BindVertexArray: unknown vertex array %d", vao)
	}
	d.BoundVAO = vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.record("DeleteVertexArray", vao)
	delete(d.VertexArrays, vao)
	if d.BoundVAO == vao {
		d.BoundVAO = 0
	}
}

func (d *Device) GenBuffer() uint32 {
	id := d.id()
	d.record("GenBuffer")
	d.Buffers[id] = &Buffer{}
	return id
}

func (d *Device) BindBuffer(target graphics.BufferTarget, buffer uint32) {
	d.record("BindBuffer", target, buffer)
	d.BoundBuffers[target] = buffer
}

func (d *Device) bound(method string, target graphics.BufferTarget) *Buffer {
	b, ok := d.Buffers[d.BoundBuffers[target]]
	if !ok {
		d.fail("%s: no buffer bound to target %d", method, target)
		return nil
	}
	return b
}

func (d *Device) BufferFloats(target graphics.BufferTarget, data []float32) {
	d.record("BufferFloats", target, len(data))
	if b := d.bound("BufferFloats", target); b != nil {
		b.Floats = append([]float32(nil), data...)
	}
}

func (d *Device) BufferIndices(target graphics.BufferTarget, data []uint32) {
	d.record("BufferIndices", target, len(data))
	if b := d.bound("BufferIndices", target); b != nil {
		b.Indices = append([]uint32(nil), data...)
	}
}

func (d *Device) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer", buffer)
	delete(d.Buffers, buffer)
}

func (d *Device) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	d.record("VertexAttribPointer", index, size, stride, offset)
	attrs, ok := d.VertexArrays[d.BoundVAO]
	if !ok {
		d.fail("VertexAttribPointer: no vertex array bound")
		return
	}
	if d.BoundBuffers[graphics.ArrayBuffer] == 0 {
		d.fail("VertexAttribPointer: no array buffer bound")
		return
	}
	a := attrs[index]
	if a == nil {
		a = &Attrib{}
		attrs[index] = a
	}
	a.Size, a.Stride, a.Offset = size, stride, offset
	a.Buffer = d.BoundBuffers[graphics.ArrayBuffer]
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray", index)
	attrs, ok := d.VertexArrays[d.BoundVAO]
	if !ok {
		d.fail("EnableVertexAttribArray: no vertex array bound")
		return
	}
	a := attrs[index]
	if a == nil {
		a = &Attrib{}
		attrs[index] = a
	}
	a.Enabled = true
}

// ── textures ──

func (d *Device) GenTexture() uint32 {
	id := d.id()
	d.record("GenTexture")
	d.Textures[id] = &Texture{}
	return id
}

func (d *Device) ActiveTexture(unit uint32) {
	d.record("ActiveTexture", unit)
	d.ActiveUnit = unit
}

func (d *Device) BindTexture(texture uint32) {
	d.record("BindTexture", texture)
	d.BoundTexture = texture
}

func (d *Device) boundTexture(method string) *Texture {
	t, ok := d.Textures[d.BoundTexture]
	if !ok {
		d.fail("%s: no texture bound", method)
		return nil
	}
	return t
}

func (d *Device) SetTextureWrap(wrap graphics.TextureWrap) {
	d.record("SetTextureWrap", wrap)
	if t := d.boundTexture("SetTextureWrap"); t != nil {
		t.Wrap = wrap
	}
}

func (d *Device) SetTextureFilter(filter graphics.TextureFilter) {
	d.record("SetTextureFilter", filter)
	if t := d.boundTexture("SetTextureFilter"); t != nil {
		t.Filter = filter
	}
}

func (d *Device) TexImage2D(width, height int32, pix []uint8) {
	d.record("TexImage2D", width, height)
	if t := d.boundTexture("TexImage2D"); t != nil {
		t.Width, t.Height = width, height
		t.Pix = append([]uint8(nil), pix...)
	}
}

func (d *Device) GenerateMipmap() {
	d.record("GenerateMipmap")
	if t := d.boundTexture("GenerateMipmap"); t != nil {
		t.Mipmapped = true
	}
}

func (d *Device) DeleteTexture(texture uint32) {
	d.record("DeleteTexture", texture)
	delete(d.Textures, texture)
	if d.BoundTexture == texture {
		d.BoundTexture = 0
	}
}

// ── draws ──

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	d.record("DrawArrays", mode, first, count)
	if d.BoundVAO == 0 {
		d.fail("DrawArrays: no vertex array bound")
	}
}

func (d *Device) DrawElements(mode graphics.Primitive, count int32) {
	d.record("DrawElements", mode, count)
	if d.BoundVAO == 0 {
		d.fail("DrawElements: no vertex array bound")
	}
	if d.CurrentProgram == 0 {
		d.fail("DrawElements: no program in use")
	}
}
