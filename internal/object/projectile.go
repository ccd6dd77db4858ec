package object

import "github.com/tomz197/earthkeeper/internal/draw"

// Projectile is a seed shot fired upward by the player.
type Projectile struct {
	ID        int
	X, Y      float64
	Speed     float64 // Units per frame, upward
	destroyed bool
}

// NewProjectile creates a projectile at (x, y) travelling upward.
func NewProjectile(id int, x, y, speed float64) *Projectile {
	return &Projectile{
		ID:    id,
		X:     x,
		Y:     y,
		Speed: speed,
	}
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile is marked for destruction.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}

// Update moves the projectile up. Returns true when it hit something or left the field.
func (p *Projectile) Update(ctx UpdateContext) bool {
	if p.destroyed {
		return true
	}
	p.Y -= p.Speed * ctx.Scale
	return p.Y < 0
}

// Draw renders the projectile as a short two-pixel streak.
func (p *Projectile) Draw(ctx DrawContext) {
	ctx.Canvas.SetFloat(p.X, p.Y, draw.ColorBrightGreen)
	ctx.Canvas.SetFloat(p.X, p.Y+1, draw.ColorGreen)
}
