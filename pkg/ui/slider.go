package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal bar selecting a value in [Min, Max].
// A drag that starts on the bar keeps tracking the pointer until release.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64 // values snap to multiples of Step above Min, 0 disables
	Format   string  // fmt verb for the value readout
	X, Y     float64
	W, H     float64

	dragging bool
	changed  bool
}

// NewSlider creates a slider with the default height and readout format.
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		Format: "%.2f",
		X:      x,
		Y:      y,
		W:      width,
		H:      14,
	}
	s.Set(value)
	s.changed = false
	return s
}

// Set clamps and snaps v, then stores it.
func (s *Slider) Set(v float64) {
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		v = math.Min(s.Max, v)
	}
	if v != s.Value {
		s.changed = true
	}
	s.Value = v
}

// Changed reports whether the last Update moved the value.
func (s *Slider) Changed() bool {
	return s.changed
}

func (s *Slider) Update(in Input) {
	s.changed = false
	if !in.Pressed {
		s.dragging = false
		return
	}
	if !s.dragging && in.In(s.X, s.Y, s.W, s.H) {
		s.dragging = true
	}
	if s.dragging && s.W > 0 {
		s.Set(s.Min + (in.X-s.X)/s.W*(s.Max-s.Min))
	}
}

// Ratio is the filled fraction of the bar.
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(s.Format, s.Value), int(s.X+s.W-48), int(s.Y-15))
}

func (s *Slider) Height() float64 {
	return s.H + 25
}

func (s *Slider) SetY(y float64) {
	s.Y = y
}
