package graphics

import "fmt"

// Key values follow the GLFW key table so platform codes convert directly.
type Key int

const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	KeyEscape  Key = 256
	KeyEnter   Key = 257
	KeyTab     Key = 258
	KeyF1      Key = 290
)

// Action is what happened to a key.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

func (a Action) String() string {
	switch a {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ModifierKey is a bit set of held modifiers.
type ModifierKey int

const (
	ModShift ModifierKey = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Event is one platform notification. The concrete types are
// FramebufferResizeEvent, KeyEvent and OtherEvent.
type Event interface {
	event()
}

// FramebufferResizeEvent reports the new drawable size in pixels.
type FramebufferResizeEvent struct {
	Width  int
	Height int
}

// KeyEvent reports a key transition.
type KeyEvent struct {
	Key      Key
	Scancode int
	Action   Action
	Mods     ModifierKey
}

// OtherEvent carries notifications the core does not act on.
type OtherEvent struct {
	Kind string
}

func (FramebufferResizeEvent) event() {}
func (KeyEvent) event()               {}
func (OtherEvent) event()             {}

func (e FramebufferResizeEvent) String() string {
	return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
}

func (e KeyEvent) String() string {
	return fmt.Sprintf("key %d %s", e.Key, e.Action)
}

func (e OtherEvent) String() string {
	return e.Kind
}
