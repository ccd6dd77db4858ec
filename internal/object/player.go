package object

import (
	"time"

	"github.com/tomz197/earthkeeper/internal/draw"
	"github.com/tomz197/earthkeeper/internal/physics"
)

// Player bounds and row.
const (
	PlayerMinX = 5.0
	PlayerMaxX = 95.0
	PlayerY    = 90.0
)

// Player is the keeper's basket at the bottom of the field.
type Player struct {
	X     float64
	Speed float64 // Units per frame while a direction is held

	// Visual state, set by the controller.
	Shielded  bool
	HurtTimer float64 // Seconds of hit flash remaining
}

// NewPlayer creates a player at x.
func NewPlayer(x, speed float64) *Player {
	return &Player{
		X:     physics.Clamp(x, PlayerMinX, PlayerMaxX),
		Speed: speed,
	}
}

// Move shifts the player by dir (-1 left, +1 right) for one scaled frame.
func (p *Player) Move(dir int, scale float64) {
	p.X = physics.Clamp(p.X+float64(dir)*p.Speed*scale, PlayerMinX, PlayerMaxX)
}

// Update counts down the hit flash. The player is never removed.
func (p *Player) Update(ctx UpdateContext) bool {
	if p.HurtTimer > 0 {
		p.HurtTimer -= ctx.Delta.Seconds()
		if p.HurtTimer < 0 {
			p.HurtTimer = 0
		}
	}
	return false
}

const (
	basket       = `\___/`
	shieldBasket = `(\_/)`
)

// Draw renders the basket, blinking red while hurt.
func (p *Player) Draw(ctx DrawContext) {
	sprite := basket
	color := draw.ColorBrightGreen
	if p.Shielded {
		sprite = shieldBasket
		color = draw.ColorBrightCyan
	}
	if p.HurtTimer > 0 {
		if !ShouldRenderBlink(p.HurtTimer, 12) {
			return
		}
		color = draw.ColorRed
	}
	ctx.Canvas.SetText(p.X, PlayerY, sprite, color)
	if ctx.Now%(400*time.Millisecond) < 200*time.Millisecond {
		ctx.Canvas.SetGlyph(p.X, PlayerY-2, '^', color)
	} else {
		ctx.Canvas.SetGlyph(p.X, PlayerY-2, '|', color)
	}
}
