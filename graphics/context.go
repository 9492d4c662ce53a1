package graphics

import (
	"runtime"
	"unsafe"
)

// ContextRequirements describes the GPU context a window must carry.
type ContextRequirements struct {
	Major         int
	Minor         int
	CoreProfile   bool
	ForwardCompat bool
	Resizable     bool
	Visible       bool
	DebugContext  bool
}

// DefaultContextRequirements asks for a resizable, visible 3.3 core context.
// Forward compatibility is only requested where the driver insists on it.
func DefaultContextRequirements() ContextRequirements {
	return ContextRequirements{
		Major:         3,
		Minor:         3,
		CoreProfile:   true,
		ForwardCompat: runtime.GOOS == "darwin",
		Resizable:     true,
		Visible:       true,
	}
}

// Platform is the windowing service a Window is built on. An implementation
// owns exactly one native window with its GPU context.
type Platform interface {
	CreateWindow(title string, width, height int, req ContextRequirements) error
	MakeContextCurrent()
	// GetProcAddress returns the address of a GPU API entry point for the
	// current context.
	GetProcAddress(name string) unsafe.Pointer
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(bool)
	// DrainEvents returns every event queued since the previous call.
	DrainEvents() []Event
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetSwapInterval(interval int)
	Time() float64
	Destroy()
}
