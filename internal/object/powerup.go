package object

import "github.com/tomz197/earthkeeper/internal/draw"

// PowerUpKind identifies a power-up effect.
type PowerUpKind int

const (
	PowerUpNone PowerUpKind = iota
	PowerUpShield
	PowerUpRapidFire
	PowerUpSlowTime
	PowerUpClearBurst
)

// PowerUpKinds lists the kinds the spawner chooses from.
var PowerUpKinds = []PowerUpKind{PowerUpShield, PowerUpRapidFire, PowerUpSlowTime, PowerUpClearBurst}

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpShield:
		return "shield"
	case PowerUpRapidFire:
		return "rapid-fire"
	case PowerUpSlowTime:
		return "slow-time"
	case PowerUpClearBurst:
		return "clear-burst"
	default:
		return "none"
	}
}

// Glyph returns the rune and color a power-up is drawn with.
func (k PowerUpKind) Glyph() (rune, draw.Color) {
	switch k {
	case PowerUpShield:
		return 'S', draw.ColorBrightCyan
	case PowerUpRapidFire:
		return 'R', draw.ColorMagenta
	case PowerUpSlowTime:
		return 'T', draw.ColorBlue
	case PowerUpClearBurst:
		return '*', draw.ColorBrightGreen
	default:
		return '?', draw.ColorDefault
	}
}

// PowerUp is a collectible modifier drifting down the field.
type PowerUp struct {
	ID    int
	X, Y  float64
	Kind  PowerUpKind
	Speed float64 // Units per frame
}

// Update drifts the power-up down. Returns true once it left the field.
func (p *PowerUp) Update(ctx UpdateContext) bool {
	p.Y += p.Speed * ctx.Scale
	return p.Y > FieldHeight
}

// Draw renders the power-up glyph in brackets.
func (p *PowerUp) Draw(ctx DrawContext) {
	r, color := p.Kind.Glyph()
	ctx.Canvas.SetText(p.X, p.Y, "["+string(r)+"]", color)
}
