// Package translator rewrites WebGL2 (GLSL ES 3.00) shader source into
// desktop GLSL so the same sources can run on a core profile context.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/goglharness/graphics"
	"github.com/richinsley/goglharness/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	initOnce   sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Translator adapts the shared translator to shader.Translator. Major and
// Minor are the context version the output has to compile on.
type Translator struct {
	Major, Minor int
}

// outputFormat picks the newest desktop GLSL the context accepts.
func (t Translator) outputFormat() gst.OutputFormat {
	if t.Major > 4 || (t.Major == 4 && t.Minor >= 1) {
		return gst.OutputFormatGLSL410
	}
	return gst.OutputFormatGLSL330
}

var _ shader.Translator = Translator{}

func (t Translator) Translate(source string, stage graphics.ShaderStage) (*shader.Translation, error) {
	tr, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	out, err := tr.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, t.outputFormat())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &shader.Translation{Code: out.Code, Names: names}, nil
}
