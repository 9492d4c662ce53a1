package glfwcontext

import (
	"errors"
	"log"
	"runtime"
	"unsafe"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goglharness/graphics"
)

// Context is a graphics.Platform backed by a single GLFW window. GLFW
// callbacks only queue events; DrainEvents hands them to the caller.
type Context struct {
	window *glfw.Window
	events []graphics.Event
}

var _ graphics.Platform = (*Context)(nil)

// New returns a Context with no window yet. Call CreateWindow before anything else.
func New() *Context {
	return &Context{}
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// CreateWindow applies the context hints and opens the window.
func (c *Context) CreateWindow(title string, width, height int, req graphics.ContextRequirements) error {
	if c.window != nil {
		return errors.New("glfwcontext: window already created")
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, req.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, req.Minor)
	if req.CoreProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	glfw.WindowHint(glfw.OpenGLForwardCompatible, boolHint(req.ForwardCompat))
	glfw.WindowHint(glfw.OpenGLDebugContext, boolHint(req.DebugContext))
	glfw.WindowHint(glfw.Resizable, boolHint(req.Resizable))
	glfw.WindowHint(glfw.Visible, boolHint(req.Visible))

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return err
	}
	c.window = win

	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if focused {
			c.push(graphics.OtherEvent{Kind: "focus"})
		} else {
			c.push(graphics.OtherEvent{Kind: "blur"})
		}
	})
	win.SetCloseCallback(func(w *glfw.Window) {
		c.push(graphics.OtherEvent{Kind: "close"})
	})
	win.SetRefreshCallback(func(w *glfw.Window) {
		c.push(graphics.OtherEvent{Kind: "refresh"})
	})
	return nil
}

func (c *Context) push(ev graphics.Event) {
	c.events = append(c.events, ev)
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	c.push(graphics.FramebufferResizeEvent{Width: width, Height: height})
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	c.push(graphics.KeyEvent{
		Key:      graphics.Key(key),
		Scancode: scancode,
		Action:   graphics.Action(action),
		Mods:     graphics.ModifierKey(mods),
	})
}

// DrainEvents returns the queued events and empties the queue.
func (c *Context) DrainEvents() []graphics.Event {
	evs := c.events
	c.events = nil
	return evs
}

// MakeContextCurrent makes the window's context current on the calling thread.
func (c *Context) MakeContextCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) GetProcAddress(name string) unsafe.Pointer {
	return glfw.GetProcAddress(name)
}

func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) FramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// SetSwapInterval applies to the current context.
func (c *Context) SetSwapInterval(interval int) {
	glfw.SwapInterval(interval)
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// Destroy releases the window. Safe to call more than once.
func (c *Context) Destroy() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
	c.events = nil
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// Init initializes GLFW. Must be called from the main thread.
func Init() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// Terminate shuts GLFW down. Must be called from the main thread.
func Terminate() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
