package options

import (
	"flag"
	"fmt"
	"os"
)

type HarnessOptions struct {
	Help         *bool
	Title        *string
	Width        *int
	Height       *int
	GLMajor      *int
	GLMinor      *int
	VertexPath   *string // Optional vertex shader file; used together with FragmentPath
	FragmentPath *string
	TexturePath  *string // Empty draws a generated checkerboard
	Translate    *bool   // Treat shaders as WebGL2 / GLSL ES 3.00 and translate them
	VSync        *bool
	ShowFPS      *bool
}

// Register defines the harness flags on fs.
func Register(fs *flag.FlagSet) *HarnessOptions {
	return &HarnessOptions{
		Help:         fs.Bool("help", false, "Show help message"),
		Title:        fs.String("title", "goglharness", "Window title"),
		Width:        fs.Int("width", 800, "Window width"),
		Height:       fs.Int("height", 600, "Window height"),
		GLMajor:      fs.Int("glmajor", 3, "Minimum OpenGL major version"),
		GLMinor:      fs.Int("glminor", 3, "Minimum OpenGL minor version"),
		VertexPath:   fs.String("vertex", "", "Vertex shader file (built-in shader if empty)"),
		FragmentPath: fs.String("fragment", "", "Fragment shader file (built-in shader if empty)"),
		TexturePath:  fs.String("texture", "", "Texture image (png, jpeg, gif, bmp, tiff, webp)"),
		Translate:    fs.Bool("translate", false, "Translate GLSL ES 3.00 shaders to desktop GLSL before compiling"),
		VSync:        fs.Bool("vsync", true, "Synchronize buffer swaps with the display"),
		ShowFPS:      fs.Bool("fps", false, "Show the frame rate in the window title"),
	}
}

// Validate checks values flag parsing cannot.
func (o *HarnessOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", *o.Width, *o.Height)
	}
	if *o.GLMajor < 3 || (*o.GLMajor == 3 && *o.GLMinor < 3) {
		return fmt.Errorf("OpenGL %d.%d is below the 3.3 core minimum", *o.GLMajor, *o.GLMinor)
	}
	if (*o.VertexPath == "") != (*o.FragmentPath == "") {
		return fmt.Errorf("-vertex and -fragment must be given together")
	}
	for _, p := range []string{*o.VertexPath, *o.FragmentPath, *o.TexturePath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return err
		}
	}
	return nil
}
