package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is implemented by everything a Panel can stack.
type Widget interface {
	Update(in Input)
	Draw(screen *ebiten.Image)
	Height() float64
	SetY(y float64)
}

const (
	panelTitleHeight   = 30.0
	panelSectionHeight = 25.0
	panelLabelOffset   = 15.0
	panelScrollSpeed   = 20.0
)

// PanelSection is a titled group of consecutive widgets.
type PanelSection struct {
	Title string
	Start int // first widget index
	End   int // one past the last widget index
}

// Panel stacks widgets in titled sections and scrolls them with the wheel.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	widgets  []Widget
	labels   []string
	sections []PanelSection

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA
}

// NewPanel creates a new UI panel
func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section; following widgets belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{Title: title, Start: len(p.widgets), End: len(p.widgets)})
}

func (p *Panel) add(label string, w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	p.widgets = append(p.widgets, w)
	p.labels = append(p.labels, label)
	p.sections[len(p.sections)-1].End = len(p.widgets)
	p.layout()
}

// AddSlider adds a slider widget to the panel
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(label, s)
	return s
}

// AddCheckbox adds a checkbox widget to the panel
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(label, c)
	return c
}

// AddButton adds a full-width button; its label is drawn on the button itself.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 22, label, onClick)
	p.add("", b)
	return b
}

// Len returns the number of widgets.
func (p *Panel) Len() int {
	return len(p.widgets)
}

// Contains reports whether the pointer of in is over the panel.
func (p *Panel) Contains(in Input) bool {
	return in.In(p.X, p.Y, p.Width, p.Height)
}

// ContentHeight is the height of the title, headers and widgets unscrolled.
func (p *Panel) ContentHeight() float64 {
	h := panelTitleHeight + float64(len(p.sections))*panelSectionHeight
	for _, w := range p.widgets {
		h += w.Height()
	}
	return h
}

func (p *Panel) maxScroll() float64 {
	return math.Max(0, p.ContentHeight()-p.Height+40)
}

// layout places every widget under its label for the current scroll offset.
func (p *Panel) layout() {
	y := p.Y + panelTitleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += panelSectionHeight
		for i := s.Start; i < s.End; i++ {
			p.widgets[i].SetY(y + panelLabelOffset)
			y += p.widgets[i].Height()
		}
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y-30 && y <= p.Y+p.Height
}

// Update scrolls when the wheel turns over the panel, then updates the
// widgets. Outside the panel the pointer cannot start a press, but a slider
// drag already under way keeps following it horizontally.
func (p *Panel) Update(in Input) {
	over := p.Contains(in)
	if in.WheelY != 0 && over {
		p.ScrollOffset = math.Max(0, math.Min(p.maxScroll(), p.ScrollOffset-in.WheelY*panelScrollSpeed))
	}
	p.layout()
	if !over {
		in.Y = math.Inf(-1)
	}
	for _, w := range p.widgets {
		w.Update(in)
	}
}

// Draw renders the panel and all widgets
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	y := p.Y + panelTitleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if s.Title != "" && p.visible(y) {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.Title, int(p.X+10), int(y+5))
		}
		y += panelSectionHeight

		for i := s.Start; i < s.End; i++ {
			if p.visible(y) {
				if p.labels[i] != "" {
					ebitenutil.DebugPrintAt(screen, p.labels[i], int(p.X+10), int(y))
				}
				p.widgets[i].Draw(screen)
			}
			y += p.widgets[i].Height()
		}
	}
}
