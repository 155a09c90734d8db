package simulation

import (
	"sync"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

func TestFrame(t *testing.T) {
	f := NewFrame(640, 480)
	if w := f.World(); w.Width != 640 || w.Height != 480 || w.PointerActive {
		t.Fatalf("new frame world = %+v", w)
	}

	f.MovePointer(10, 20)
	f.Resize(800, 600)
	w := f.World()
	if !w.PointerActive || !w.Pointer.Equals(geometry.Vector2D{X: 10, Y: 20}) {
		t.Errorf("pointer = %v active=%v; want (10, 20) active", w.Pointer, w.PointerActive)
	}
	if width, height := f.Size(); width != 800 || height != 600 {
		t.Errorf("Size = %v, %v; want 800, 600", width, height)
	}

	f.ReleasePointer()
	if f.World().PointerActive {
		t.Error("pointer still active after ReleasePointer")
	}
}

func TestFrame_Concurrent(t *testing.T) {
	f := NewFrame(100, 100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				f.MovePointer(float64(i), float64(j))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = f.World()
			}
		}()
	}
	wg.Wait()
}

func TestWanderer(t *testing.T) {
	a := NewWanderer(5, 0.013)
	b := NewWanderer(5, 0.013)
	moved := false
	prev := a.Next(300, 200)
	_ = b.Next(300, 200)

	for i := 0; i < 2000; i++ {
		p := a.Next(300, 200)
		if p.X < 0 || p.X > 300 || p.Y < 0 || p.Y > 200 {
			t.Fatalf("step %d: %v outside 300x200", i, p)
		}
		if q := b.Next(300, 200); !p.Equals(q) {
			t.Fatalf("step %d: same seed gave %v and %v", i, p, q)
		}
		if !p.Equals(prev) {
			moved = true
		}
		prev = p
	}
	if !moved {
		t.Error("wanderer never moved")
	}

	frame := NewFrame(300, 200)
	a.Drive(frame)
	if w := frame.World(); !w.PointerActive {
		t.Error("Drive did not activate the pointer")
	}
}
