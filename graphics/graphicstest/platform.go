// Package graphicstest provides recording doubles for graphics.Platform and
// graphics.Device so window and shader code can be exercised without a GPU.
package graphicstest

import (
	"unsafe"

	"github.com/richinsley/goglharness/graphics"
)

// Platform is an in-memory graphics.Platform.
type Platform struct {
	// CreateErr, when set, is returned by CreateWindow.
	CreateErr error
	// TimeStep is added to the clock on every PollEvents.
	TimeStep float64
	// OnPoll runs at the end of every PollEvents, after the clock advances.
	OnPoll func(p *Platform)

	Title        string
	Width        int
	Height       int
	Requirements graphics.ContextRequirements

	Created      bool
	Current      bool
	Destroyed    bool
	Closing      bool
	SwapInterval int

	Swaps int
	Polls int
	Clock float64
	// Procs lists every name passed to GetProcAddress.
	Procs []string

	queue []graphics.Event
}

var _ graphics.Platform = (*Platform)(nil)

func (p *Platform) CreateWindow(title string, width, height int, req graphics.ContextRequirements) error {
	if p.CreateErr != nil {
		return p.CreateErr
	}
	p.Title = title
	p.Width = width
	p.Height = height
	p.Requirements = req
	p.Created = true
	return nil
}

func (p *Platform) MakeContextCurrent() { p.Current = true }

func (p *Platform) GetProcAddress(name string) unsafe.Pointer {
	p.Procs = append(p.Procs, name)
	return nil
}

// Push queues an event for the next DrainEvents. A resize also updates the
// reported framebuffer size, as a real window would.
func (p *Platform) Push(evs ...graphics.Event) {
	for _, ev := range evs {
		if r, ok := ev.(graphics.FramebufferResizeEvent); ok {
			p.Width, p.Height = r.Width, r.Height
		}
		p.queue = append(p.queue, ev)
	}
}

// Pending reports how many events are queued.
func (p *Platform) Pending() int { return len(p.queue) }

func (p *Platform) DrainEvents() []graphics.Event {
	evs := p.queue
	p.queue = nil
	return evs
}

func (p *Platform) PollEvents() {
	p.Polls++
	p.Clock += p.TimeStep
	if p.OnPoll != nil {
		p.OnPoll(p)
	}
}

func (p *Platform) SwapBuffers()                { p.Swaps++ }
func (p *Platform) ShouldClose() bool           { return p.Closing }
func (p *Platform) SetShouldClose(v bool)       { p.Closing = v }
func (p *Platform) FramebufferSize() (int, int) { return p.Width, p.Height }
func (p *Platform) SetTitle(title string)       { p.Title = title }
func (p *Platform) SetSwapInterval(i int)       { p.SwapInterval = i }
func (p *Platform) Time() float64               { return p.Clock }
func (p *Platform) Destroy()                    { p.Destroyed = true }
