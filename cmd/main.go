package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/richinsley/goglharness/gldevice"
	"github.com/richinsley/goglharness/glfwcontext"
	"github.com/richinsley/goglharness/graphics"
	options "github.com/richinsley/goglharness/options"
	"github.com/richinsley/goglharness/scene"
	"github.com/richinsley/goglharness/translator"
	"github.com/richinsley/goglharness/window"
)

func init() {
	runtime.LockOSThread()
}

func run(opts *options.HarnessOptions) error {
	if err := glfwcontext.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.Terminate()

	req := graphics.DefaultContextRequirements()
	req.Major, req.Minor = *opts.GLMajor, *opts.GLMinor

	device := gldevice.Device{}
	win, err := window.New(glfwcontext.New(), device, window.Config{
		Title:        *opts.Title,
		Width:        *opts.Width,
		Height:       *opts.Height,
		Requirements: req,
		Loader:       gldevice.Load,
		VSync:        *opts.VSync,
		ShowFPS:      *opts.ShowFPS,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	cfg := scene.DefaultConfig()
	cfg.VertexPath = *opts.VertexPath
	cfg.FragmentPath = *opts.FragmentPath
	cfg.TexturePath = *opts.TexturePath
	if *opts.Translate {
		cfg.Translator = translator.Translator{Major: req.Major, Minor: req.Minor}
	}

	quad, err := scene.NewQuad(device, win, cfg)
	if err != nil {
		return err
	}
	defer quad.Destroy()

	log.Println("Starting render loop...")
	win.RenderLoop(quad.Draw)
	log.Printf("Render loop finished after %d frames", win.FrameCount())
	return nil
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options.Register(fs)
	fs.Parse(os.Args[1:])

	if *opts.Help {
		fmt.Println("OpenGL render harness")
		fs.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
