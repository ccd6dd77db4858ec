package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/earthkeeper/internal/draw"
)

// particlePool reuses Particle values between bursts.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y        float64
	VX, VY      float64 // Units per second
	Gravity     float64 // Units per second squared
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Drag        float64 // Velocity kept per 60Hz frame (1.0 = no drag)
	Color       draw.Color
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, color draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
		Color:       color,
	}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst creates count particles flying out of (x, y) in all directions.
func SpawnBurst(x, y float64, count int, speed, lifetime float64, color draw.Color) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rand.Float64())
		life := lifetime * (0.5 + rand.Float64()*0.5)
		out = append(out, NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, color))
	}
	return out
}

// SpawnSeeds creates a fountain of seeds that arc up and fall back, used for
// seed-burst moments (milestones, clear-burst).
func SpawnSeeds(x, y float64, count int) []*Particle {
	colors := []draw.Color{draw.ColorBrightGreen, draw.ColorGreen, draw.ColorYellow}
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		vx := (rand.Float64() - 0.5) * 60
		vy := -30 - rand.Float64()*40
		p := NewParticle(x, y, vx, vy, 1.2+rand.Float64()*0.6, colors[rand.Intn(len(colors))])
		p.Gravity = 70
		p.Drag = 0.98
		out = append(out, p)
	}
	return out
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) bool {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60)
	p.VX *= dragFactor
	p.VY = p.VY*dragFactor + p.Gravity*dt

	p.X += p.VX * dt
	p.Y += p.VY * dt

	return p.X < 0 || p.X > FieldWidth || p.Y > FieldHeight
}

// Draw renders the particle as a sub-pixel. Faded particles are skipped.
func (p *Particle) Draw(ctx DrawContext) {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.2 {
		return
	}
	ctx.Canvas.SetFloat(p.X, p.Y, p.Color)
}
