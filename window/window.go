// Package window drives a single platform window: it drains platform events,
// applies the resize and close-on-escape policies, runs a per-frame callback
// and presents the frame.
//
// Everything here runs on the goroutine that created the window, which must
// be locked to the main OS thread for GLFW.
package window

import (
	"errors"
	"fmt"
	"log"
	"unsafe"

	"github.com/richinsley/goglharness/graphics"
)

// FrameFunc issues the draw commands for one frame.
type FrameFunc func()

// EventHandler sees every drained event after the built-in policies ran.
type EventHandler func(w *Window, ev graphics.Event)

// Loader binds device entry points for the current context.
type Loader func(getProcAddress func(name string) unsafe.Pointer) error

// Config describes the window to create.
type Config struct {
	Title  string
	Width  int
	Height int
	// Requirements defaults to graphics.DefaultContextRequirements when Major is 0.
	Requirements graphics.ContextRequirements
	// Loader runs once the context is current. Nil skips device loading.
	Loader Loader
	VSync  bool
	// ShowFPS appends the frame rate to the title once per second.
	ShowFPS bool
}

// Window owns the platform window and its event source.
type Window struct {
	platform graphics.Platform
	device   graphics.Rasterizer
	handler  EventHandler

	title   string
	showFPS bool
	width   int
	height  int

	frames    uint64
	lastTime  float64
	deltaTime float64
	fpsStart  float64
	fpsFrames int
	fps       int

	destroyed bool
}

// New creates the window, makes its context current and loads the device.
// Any error leaves nothing allocated; the caller has no rendering path and
// should exit.
func New(p graphics.Platform, d graphics.Rasterizer, cfg Config) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if p == nil || d == nil {
		return nil, errors.New("window requires a platform and a device")
	}
	req := cfg.Requirements
	if req.Major == 0 {
		req = graphics.DefaultContextRequirements()
	}

	if err := p.CreateWindow(cfg.Title, cfg.Width, cfg.Height, req); err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	p.MakeContextCurrent()

	if cfg.Loader != nil {
		if err := cfg.Loader(p.GetProcAddress); err != nil {
			p.Destroy()
			return nil, fmt.Errorf("failed to load device for %d.%d context: %w", req.Major, req.Minor, err)
		}
	}

	swap := 0
	if cfg.VSync {
		swap = 1
	}
	p.SetSwapInterval(swap)

	w := &Window{
		platform: p,
		device:   d,
		title:    cfg.Title,
		showFPS:  cfg.ShowFPS,
	}
	w.width, w.height = p.FramebufferSize()
	w.lastTime = p.Time()
	w.fpsStart = w.lastTime

	log.Printf("Created window %q (%dx%d, framebuffer %dx%d)", cfg.Title, cfg.Width, cfg.Height, w.width, w.height)
	return w, nil
}

// SetEventHandler installs h as the extension hook for drained events.
func (w *Window) SetEventHandler(h EventHandler) {
	w.handler = h
}

// ShouldClose reports whether the close flag is set.
func (w *Window) ShouldClose() bool {
	return w.platform.ShouldClose()
}

// RequestClose sets the close flag. The loop finishes the current iteration
// and returns.
func (w *Window) RequestClose() {
	w.platform.SetShouldClose(true)
}

// FramebufferSize is the drawable size in pixels as of the last drained resize.
func (w *Window) FramebufferSize() (int, int) {
	return w.width, w.height
}

// AspectRatio is width over height of the framebuffer, or 1 when minimized.
func (w *Window) AspectRatio() float32 {
	if w.width <= 0 || w.height <= 0 {
		return 1
	}
	return float32(w.width) / float32(w.height)
}

// Time is the platform clock in seconds.
func (w *Window) Time() float64 {
	return w.platform.Time()
}

// DeltaTime is the duration of the previous frame in seconds.
func (w *Window) DeltaTime() float64 {
	return w.deltaTime
}

// FrameCount is the number of completed iterations.
func (w *Window) FrameCount() uint64 {
	return w.frames
}

// FPS is the frame rate measured over the last full second.
func (w *Window) FPS() int {
	return w.fps
}

// ProcessEvents drains every pending event and applies the built-in
// policies: a framebuffer resize updates the viewport, Escape pressed sets
// the close flag. All events are then offered to the event handler.
func (w *Window) ProcessEvents() {
	for _, ev := range w.platform.DrainEvents() {
		switch e := ev.(type) {
		case graphics.FramebufferResizeEvent:
			w.width, w.height = e.Width, e.Height
			w.device.Viewport(0, 0, int32(e.Width), int32(e.Height))
		case graphics.KeyEvent:
			if e.Key == graphics.KeyEscape && e.Action == graphics.Press {
				w.platform.SetShouldClose(true)
			}
		}
		if w.handler != nil {
			w.handler(w, ev)
		}
	}
}

// Step runs one iteration: drain events, call frame, present, poll.
func (w *Window) Step(frame FrameFunc) {
	w.ProcessEvents()
	if frame != nil {
		frame()
	}
	w.platform.SwapBuffers()
	w.platform.PollEvents()
	w.tick()
}

// RenderLoop calls Step until the close flag is set. It is the only driver
// of the window and returns only through the close flag.
func (w *Window) RenderLoop(frame FrameFunc) {
	for !w.platform.ShouldClose() {
		w.Step(frame)
	}
}

func (w *Window) tick() {
	now := w.platform.Time()
	w.deltaTime = now - w.lastTime
	w.lastTime = now
	w.frames++
	w.fpsFrames++

	if now-w.fpsStart >= 1 {
		w.fps = w.fpsFrames
		w.fpsFrames = 0
		w.fpsStart = now
		if w.showFPS {
			w.platform.SetTitle(fmt.Sprintf("%s | FPS: %d", w.title, w.fps))
		}
	}
}

// Destroy releases the platform window. Safe to call more than once.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.platform.Destroy()
	log.Printf("Destroyed window %q", w.title)
}
