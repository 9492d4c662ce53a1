package glfwcontext

import (
	"testing"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goglharness/graphics"
)

func TestCallbacksQueueEvents(t *testing.T) {
	c := New()
	c.glfwFramebufferSizeCallback(nil, 320, 200)
	c.glfwKeyCallback(nil, glfw.KeyEscape, 9, glfw.Press, glfw.ModShift)

	evs := c.DrainEvents()
	if len(evs) != 2 {
		t.Fatalf("DrainEvents() = %v, want 2 events", evs)
	}
	if got, want := evs[0], (graphics.FramebufferResizeEvent{Width: 320, Height: 200}); got != want {
		t.Fatalf("events[0] = %v, want %v", got, want)
	}
	want := graphics.KeyEvent{Key: graphics.KeyEscape, Scancode: 9, Action: graphics.Press, Mods: graphics.ModShift}
	if got := evs[1]; got != want {
		t.Fatalf("events[1] = %v, want %v", got, want)
	}

	if evs := c.DrainEvents(); len(evs) != 0 {
		t.Fatalf("second DrainEvents() = %v, want empty", evs)
	}
}

func TestKeyCallbackKeepsGLFWNumbering(t *testing.T) {
	tests := []struct {
		key    glfw.Key
		action glfw.Action
		want   graphics.KeyEvent
	}{
		{glfw.KeySpace, glfw.Release, graphics.KeyEvent{Key: graphics.KeySpace, Action: graphics.Release}},
		{glfw.KeyEscape, glfw.Repeat, graphics.KeyEvent{Key: graphics.KeyEscape, Action: graphics.Repeat}},
	}
	for _, tt := range tests {
		c := New()
		c.glfwKeyCallback(nil, tt.key, 0, tt.action, 0)
		evs := c.DrainEvents()
		if len(evs) != 1 || evs[0] != tt.want {
			t.Fatalf("key %d action %d: got %v, want %v", tt.key, tt.action, evs, tt.want)
		}
	}
}
