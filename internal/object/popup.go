package object

import "github.com/tomz197/earthkeeper/internal/draw"

// Popup is floating text such as "+25" that rises and fades.
type Popup struct {
	X, Y     float64
	Value    string
	Color    draw.Color
	Lifetime float64 // Seconds remaining
	Rise     float64 // Units per second
}

// NewPopup creates popup text at (x, y) for lifetime seconds.
func NewPopup(x, y float64, value string, color draw.Color, lifetime float64) *Popup {
	return &Popup{
		X:        x,
		Y:        y,
		Value:    value,
		Color:    color,
		Lifetime: lifetime,
		Rise:     8,
	}
}

// Update raises the popup and counts down its lifetime.
func (t *Popup) Update(ctx UpdateContext) bool {
	if t.Value == "" {
		return true
	}
	dt := ctx.Delta.Seconds()
	t.Lifetime -= dt
	t.Y -= t.Rise * dt
	return t.Lifetime <= 0
}

// Draw writes the text centered on its position.
func (t *Popup) Draw(ctx DrawContext) {
	ctx.Canvas.SetText(t.X, t.Y, t.Value, t.Color)
}
