package simulation

import (
	"sync"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

// Frame is the state a front end shares with the simulation: the size of
// the drawing surface and where the pointer is.
// Front ends write it from their input loop, drivers read a copy once per tick.
type Frame struct {
	mu            sync.RWMutex
	width, height float64
	pointer       geometry.Vector2D
	pointerActive bool
}

func NewFrame(width, height float64) *Frame {
	return &Frame{width: width, height: height}
}

// Resize records a new surface size.
func (f *Frame) Resize(width, height float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = width, height
}

// MovePointer records the pointer position and marks it active.
func (f *Frame) MovePointer(x, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointer = geometry.NewVector(x, y)
	f.pointerActive = true
}

// ReleasePointer marks the pointer as gone, boids stop avoiding it.
func (f *Frame) ReleasePointer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointerActive = false
}

// Size returns the surface size.
func (f *Frame) Size() (width, height float64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.width, f.height
}

// World copies the frame into the value a flock steps against.
func (f *Frame) World() behavior.World {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return behavior.World{
		Width:         f.width,
		Height:        f.height,
		Pointer:       f.pointer,
		PointerActive: f.pointerActive,
	}
}
