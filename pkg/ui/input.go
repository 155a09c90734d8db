// Package ui holds the small immediate-mode widgets used by the ebiten front ends.
//
// Widgets never query ebiten for input themselves. The game reads an Input
// once per frame with ReadInput and hands it to every widget, which keeps
// the widgets testable without a window.
package ui

import "github.com/hajimehoshi/ebiten/v2"

// Input is the mouse state of one frame.
type Input struct {
	X, Y    float64
	Pressed bool    // left button held
	WheelY  float64 // vertical wheel delta
}

// ReadInput samples the mouse through ebiten.
func ReadInput() Input {
	mx, my := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()
	return Input{
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		WheelY:  dy,
	}
}

// In reports whether the pointer lies inside the rectangle.
func (in Input) In(x, y, w, h float64) bool {
	return in.X >= x && in.X <= x+w && in.Y >= y && in.Y <= y+h
}

// clickTracker turns a held button into a single press event.
type clickTracker struct {
	held bool
}

// pressed reports true only on the first frame the button goes down while
// the pointer is over the widget.
func (c *clickTracker) pressed(in Input, over bool) bool {
	if !in.Pressed {
		c.held = false
		return false
	}
	if c.held {
		return false
	}
	c.held = true
	return over
}
