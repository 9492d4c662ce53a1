package shader

import (
	"fmt"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglharness/graphics"
)

// Program is a linked vertex+fragment program. A *Program only exists after
// a successful link, so every method may assume a valid handle.
//
// Uniform writes follow GL semantics and target the program in use: call
// Use before the Set methods.
type Program struct {
	device    graphics.ShaderDevice
	id        uint32
	label     string
	names     map[string]string
	locations map[string]int32
}

// Translation is a stage source rewritten for the device, plus the mapping
// from declared uniform names to the names the rewritten source uses.
type Translation struct {
	Code  string
	Names map[string]string
}

// Translator rewrites shader source before compilation.
type Translator interface {
	Translate(source string, stage graphics.ShaderStage) (*Translation, error)
}

type config struct {
	label      string
	translator Translator
}

// Option configures Compile.
type Option func(*config)

// WithLabel names the program in log lines and errors.
func WithLabel(label string) Option {
	return func(c *config) { c.label = label }
}

// WithTranslator runs both stages through t before compiling.
func WithTranslator(t Translator) Option {
	return func(c *config) { c.translator = t }
}

// Compile builds a program from vertex and fragment source. It returns a
// *CompileError or *LinkError carrying the driver log when a stage does not
// compile or the program does not link.
func Compile(d graphics.ShaderDevice, vertexSource, fragmentSource string, opts ...Option) (*Program, error) {
	cfg := config{label: "program"}
	for _, o := range opts {
		o(&cfg)
	}

	names := make(map[string]string)
	if cfg.translator != nil {
		var err error
		if vertexSource, err = translate(cfg.translator, vertexSource, graphics.VertexStage, names); err != nil {
			return nil, err
		}
		if fragmentSource, err = translate(cfg.translator, fragmentSource, graphics.FragmentStage, names); err != nil {
			return nil, err
		}
	}

	vertexShader, err := compileShader(d, vertexSource, graphics.VertexStage)
	if err != nil {
		return nil, err
	}
	fragmentShader, err := compileShader(d, fragmentSource, graphics.FragmentStage)
	if err != nil {
		d.DeleteShader(vertexShader)
		return nil, err
	}

	program := d.CreateProgram()
	d.AttachShader(program, vertexShader)
	d.AttachShader(program, fragmentShader)
	d.LinkProgram(program)

	// the program keeps its own copy of the linked stages
	d.DeleteShader(vertexShader)
	d.DeleteShader(fragmentShader)

	if !d.ProgramLinked(program) {
		linkLog := d.ProgramInfoLog(program)
		d.DeleteProgram(program)
		return nil, &LinkError{Label: cfg.label, Log: linkLog}
	}

	log.Printf("Linked shader program %d (%s)", program, cfg.label)
	return &Program{
		device:    d,
		id:        program,
		label:     cfg.label,
		names:     names,
		locations: make(map[string]int32),
	}, nil
}

// CompileFiles reads both stages from disk and calls Compile. The program is
// labeled with the fragment path unless a WithLabel option overrides it.
func CompileFiles(d graphics.ShaderDevice, vertexPath, fragmentPath string, opts ...Option) (*Program, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment shader: %w", err)
	}
	opts = append([]Option{WithLabel(fragmentPath)}, opts...)
	return Compile(d, string(vs), string(fs), opts...)
}

func translate(t Translator, source string, stage graphics.ShaderStage, names map[string]string) (string, error) {
	out, err := t.Translate(source, stage)
	if err != nil {
		return "", fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	for k, v := range out.Names {
		names[k] = v
	}
	return out.Code, nil
}

func compileShader(d graphics.ShaderDevice, source string, stage graphics.ShaderStage) (uint32, error) {
	shader := d.CreateShader(stage)
	d.ShaderSource(shader, source)
	d.CompileShader(shader)
	if !d.ShaderCompiled(shader) {
		logText := d.ShaderInfoLog(shader)
		d.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: logText}
	}
	return shader, nil
}

// ID returns the device program handle.
func (p *Program) ID() uint32 {
	return p.id
}

// Label returns the name given with WithLabel.
func (p *Program) Label() string {
	return p.label
}

// Use makes p the active program for subsequent draws and uniform writes.
func (p *Program) Use() {
	p.device.UseProgram(p.id)
}

// Delete releases the program handle. p must not be used afterwards.
func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	p.device.DeleteProgram(p.id)
	p.id = 0
	p.locations = nil
}

// Location resolves name once and caches it; locations are stable for the
// life of a linked program. Unknown names resolve to -1.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	mapped := name
	if m, ok := p.names[name]; ok {
		mapped = m
	}
	loc := p.device.GetUniformLocation(p.id, mapped)
	if p.locations != nil {
		p.locations[name] = loc
	}
	return loc
}

// HasUniform reports whether name is an active uniform.
func (p *Program) HasUniform(name string) bool {
	return p.Location(name) != -1
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.Location(name); loc != -1 {
		p.device.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Location(name); loc != -1 {
		p.device.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.Location(name); loc != -1 {
		p.device.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.Location(name); loc != -1 {
		p.device.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetMat4 writes m in mgl32's column-major order without transposing.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.Location(name); loc != -1 {
		raw := [16]float32(m)
		p.device.UniformMatrix4fv(loc, &raw)
	}
}

// Mat4 reads a matrix uniform back from the device. ok is false for
// unknown names.
func (p *Program) Mat4(name string) (m mgl32.Mat4, ok bool) {
	loc := p.Location(name)
	if loc == -1 {
		return m, false
	}
	p.device.GetUniformfv(p.id, loc, m[:])
	return m, true
}

// Vec3 reads a vec3 uniform back from the device.
func (p *Program) Vec3(name string) (v mgl32.Vec3, ok bool) {
	loc := p.Location(name)
	if loc == -1 {
		return v, false
	}
	p.device.GetUniformfv(p.id, loc, v[:])
	return v, true
}
