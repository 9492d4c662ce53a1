package shader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglharness/graphics"
	"github.com/richinsley/goglharness/graphics/graphicstest"
)

func compileTextured(t *testing.T, d *graphicstest.Device) *Program {
	t.Helper()
	vs, fs := TexturedSources(false)
	p, err := Compile(d, vs, fs)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return p
}

func TestCompileLinksAndReleasesStages(t *testing.T) {
	d := graphicstest.NewDevice()
	vs, fs := PassthroughSources()
	p, err := Compile(d, vs, fs, WithLabel("passthrough"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p.ID() == 0 {
		t.Fatal("program id = 0")
	}
	if p.Label() != "passthrough" {
		t.Fatalf("label = %q, want passthrough", p.Label())
	}
	if n := d.LiveShaders(); n != 0 {
		t.Fatalf("live shaders = %d, want 0", n)
	}
	if n := d.LivePrograms(); n != 1 {
		t.Fatalf("live programs = %d, want 1", n)
	}
	if len(d.Errors) != 0 {
		t.Fatalf("device errors: %v", d.Errors)
	}
}

func TestCompileInvalidStage(t *testing.T) {
	goodVS, goodFS := PassthroughSources()
	broken := "#version 330 core\nvoid main() {\n    gl_Position = vec4(0.0;\n}\n"

	tests := []struct {
		name  string
		vs    string
		fs    string
		stage graphics.ShaderStage
	}{
		{"vertex", broken, goodFS, graphics.VertexStage},
		{"fragment", goodVS, broken, graphics.FragmentStage},
		{"missing version", goodVS, "void main() {}", graphics.FragmentStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := graphicstest.NewDevice()
			p, err := Compile(d, tt.vs, tt.fs)
			if err == nil {
				t.Fatal("expected an error")
			}
			if p != nil {
				t.Fatal("got a program from a failed compile")
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not a *CompileError", err)
			}
			if ce.Stage != tt.stage {
				t.Fatalf("stage = %s, want %s", ce.Stage, tt.stage)
			}
			msg := strings.ToLower(err.Error())
			if !strings.Contains(msg, "error") {
				t.Fatalf("message %q does not mention error", err)
			}
			if !strings.Contains(err.Error(), ce.Log) || ce.Log == "" {
				t.Fatalf("message %q does not embed compiler log %q", err, ce.Log)
			}
			if d.LiveShaders() != 0 || d.LivePrograms() != 0 {
				t.Fatalf("leaked objects: %d shaders, %d programs", d.LiveShaders(), d.LivePrograms())
			}
		})
	}
}

func TestCompileLinkError(t *testing.T) {
	d := graphicstest.NewDevice()
	vs, _ := PassthroughSources()
	_, fs := TexturedSources(false)

	p, err := Compile(d, vs, fs, WithLabel("mismatched"))
	if p != nil || err == nil {
		t.Fatalf("Compile = %v, %v; want link failure", p, err)
	}
	var le *LinkError
	if !errors.As(err, &le) {
		t.Fatalf("error %T is not a *LinkError", err)
	}
	if !strings.Contains(err.Error(), "mismatched") || !strings.Contains(err.Error(), "error") {
		t.Fatalf("message %q", err)
	}
	if d.LiveShaders() != 0 || d.LivePrograms() != 0 {
		t.Fatalf("leaked objects: %d shaders, %d programs", d.LiveShaders(), d.LivePrograms())
	}
}

func TestUseMakesProgramCurrent(t *testing.T) {
	d := graphicstest.NewDevice()
	p := compileTextured(t, d)
	p.Use()
	if d.CurrentProgram != p.ID() {
		t.Fatalf("current program = %d, want %d", d.CurrentProgram, p.ID())
	}
}

func TestUnknownUniformIsNoop(t *testing.T) {
	d := graphicstest.NewDevice()
	p := compileTextured(t, d)
	p.Use()

	p.SetVec3("tint", mgl32.Vec3{0.25, 0.5, 0.75})
	before, _ := d.UniformValue(p.ID(), "tint")

	d.ResetCalls()
	p.SetVec3("doesNotExist", mgl32.Vec3{9, 9, 9})
	p.SetMat4("alsoMissing", mgl32.Ident4())
	p.SetFloat("nope", 1)

	for _, c := range d.Calls {
		if c.Method != "GetUniformLocation" {
			t.Fatalf("unexpected device call %v", c)
		}
	}
	if len(d.Errors) != 0 {
		t.Fatalf("device errors: %v", d.Errors)
	}
	after, _ := d.UniformValue(p.ID(), "tint")
	if len(after) != 3 || after[0] != before[0] || after[1] != before[1] || after[2] != before[2] {
		t.Fatalf("tint = %v after unknown writes, want %v", after, before)
	}
	if p.HasUniform("doesNotExist") {
		t.Fatal("HasUniform(doesNotExist) = true")
	}
}

func TestMat4RoundTrip(t *testing.T) {
	d := graphicstest.NewDevice()
	p := compileTextured(t, d)
	p.Use()

	p.SetMat4("model", mgl32.Ident4())
	got, ok := p.Mat4("model")
	if !ok {
		t.Fatal("model uniform not found")
	}
	if got != mgl32.Ident4() {
		t.Fatalf("model = %v, want identity", got)
	}

	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-55)))
	p.SetMat4("view", m)
	if got, _ := p.Mat4("view"); got != m {
		t.Fatalf("view = %v, want %v", got, m)
	}
	if got, _ := p.Mat4("model"); got != mgl32.Ident4() {
		t.Fatal("writing view changed model")
	}
}

func TestSetters(t *testing.T) {
	d := graphicstest.NewDevice()
	vs := "#version 330 core\nuniform int count;\nuniform bool flag;\nvoid main() { gl_Position = vec4(0.0); }\n"
	fs := "#version 330 core\nout vec4 c;\nuniform float alpha;\nuniform vec4 rgba;\nuniform vec3 tint;\nvoid main() { c = vec4(alpha); }\n"
	p, err := Compile(d, vs, fs)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	p.Use()
	p.SetInt("count", 7)
	p.SetBool("flag", true)
	p.SetFloat("alpha", 0.5)
	p.SetVec4("rgba", mgl32.Vec4{1, 2, 3, 4})
	p.SetVec3("tint", mgl32.Vec3{0.1, 0.2, 0.3})

	want := map[string][]float32{
		"count": {7},
		"flag":  {1},
		"alpha": {0.5},
		"rgba":  {1, 2, 3, 4},
		"tint":  {0.1, 0.2, 0.3},
	}
	for name, w := range want {
		got, ok := d.UniformValue(p.ID(), name)
		if !ok {
			t.Fatalf("%s was never written", name)
		}
		if len(got) != len(w) {
			t.Fatalf("%s = %v, want %v", name, got, w)
		}
		for i := range w {
			if got[i] != w[i] {
				t.Fatalf("%s = %v, want %v", name, got, w)
			}
		}
	}
	if v, ok := p.Vec3("tint"); !ok || v != (mgl32.Vec3{0.1, 0.2, 0.3}) {
		t.Fatalf("Vec3(tint) = %v, %v", v, ok)
	}
}

func TestLocationIsCached(t *testing.T) {
	d := graphicstest.NewDevice()
	p := compileTextured(t, d)
	p.Use()
	d.ResetCalls()

	for i := 0; i < 5; i++ {
		p.SetMat4("projection", mgl32.Ident4())
		p.SetVec3("missing", mgl32.Vec3{})
	}
	if n := len(d.CallsTo("GetUniformLocation")); n != 2 {
		t.Fatalf("GetUniformLocation calls = %d, want 2", n)
	}
	if n := len(d.CallsTo("UniformMatrix4fv")); n != 5 {
		t.Fatalf("UniformMatrix4fv calls = %d, want 5", n)
	}
}

func TestDelete(t *testing.T) {
	d := graphicstest.NewDevice()
	p := compileTextured(t, d)
	p.Delete()
	p.Delete()
	if d.LivePrograms() != 0 {
		t.Fatalf("live programs = %d, want 0", d.LivePrograms())
	}
	if n := len(d.CallsTo("DeleteProgram")); n != 1 {
		t.Fatalf("DeleteProgram calls = %d, want 1", n)
	}
}

type renamingTranslator struct {
	calls []graphics.ShaderStage
	fail  bool
}

func (r *renamingTranslator) Translate(source string, stage graphics.ShaderStage) (*Translation, error) {
	r.calls = append(r.calls, stage)
	if r.fail {
		return nil, errors.New("unsupported construct")
	}
	code := strings.Replace(source, "#version 300 es", "#version 410 core", 1)
	code = strings.ReplaceAll(code, "tint", "_utint")
	return &Translation{Code: code, Names: map[string]string{"tint": "_utint"}}, nil
}

func TestCompileWithTranslator(t *testing.T) {
	d := graphicstest.NewDevice()
	tr := &renamingTranslator{}
	vs, fs := TexturedSources(true)
	p, err := Compile(d, vs, fs, WithTranslator(tr))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(tr.calls) != 2 || tr.calls[0] != graphics.VertexStage || tr.calls[1] != graphics.FragmentStage {
		t.Fatalf("translator calls = %v", tr.calls)
	}
	p.Use()
	p.SetVec3("tint", mgl32.Vec3{1, 1, 1})
	if _, ok := d.UniformValue(p.ID(), "_utint"); !ok {
		t.Fatal("tint was not written through its mapped name")
	}
}

func TestCompileTranslatorError(t *testing.T) {
	d := graphicstest.NewDevice()
	vs, fs := TexturedSources(true)
	_, err := Compile(d, vs, fs, WithTranslator(&renamingTranslator{fail: true}))
	if err == nil || !strings.Contains(err.Error(), "vertex shader translation failed") {
		t.Fatalf("err = %v", err)
	}
	if len(d.Calls) != 0 {
		t.Fatalf("device touched before translation succeeded: %v", d.Calls)
	}
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	vs, fs := TexturedSources(false)
	vsPath := filepath.Join(dir, "shader.vs")
	fsPath := filepath.Join(dir, "shader.fs")
	if err := os.WriteFile(vsPath, []byte(vs), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fsPath, []byte(fs), 0o644); err != nil {
		t.Fatal(err)
	}

	d := graphicstest.NewDevice()
	p, err := CompileFiles(d, vsPath, fsPath)
	if err != nil {
		t.Fatalf("CompileFiles: %v", err)
	}
	if p.Label() != fsPath {
		t.Fatalf("label = %q, want %q", p.Label(), fsPath)
	}

	_, err = CompileFiles(d, filepath.Join(dir, "missing.vs"), fsPath)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
