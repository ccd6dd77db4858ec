package object

import (
	"testing"
	"time"

	"github.com/tomz197/earthkeeper/internal/draw"
)

var oneFrame = UpdateContext{Delta: time.Second / 60, Scale: 1}

func TestUpdateAllCompacts(t *testing.T) {
	ps := []*Projectile{
		NewProjectile(1, 10, 50, 1),
		NewProjectile(2, 20, 0.5, 1), // leaves the field this frame
		NewProjectile(3, 30, 50, 1),
	}
	ps[0].MarkDestroyed()

	kept := UpdateAll(ps, oneFrame)
	if len(kept) != 1 || kept[0].ID != 3 {
		t.Fatalf("kept = %v, want only projectile 3", kept)
	}
	if kept[0].Y != 49 {
		t.Errorf("y = %v, want 49", kept[0].Y)
	}
	if ps[1] != nil || ps[2] != nil {
		t.Error("tail of the backing array should be cleared")
	}
}

func TestItemWindStaysInBounds(t *testing.T) {
	it := &Item{X: ItemMaxX - 0.1, Y: 10, Speed: 0.5, WindDrift: 1.5}
	ctx := oneFrame
	ctx.Wind = 2
	for range 10 {
		it.Update(ctx)
	}
	if it.X != ItemMaxX {
		t.Errorf("x = %v, want clamped to %v", it.X, ItemMaxX)
	}
	if it.Y != 15 {
		t.Errorf("y = %v, want 15", it.Y)
	}

	it.Y = FieldHeight
	if !it.Update(oneFrame) {
		t.Error("item below the field should be removed")
	}
}

func TestPlayerClamp(t *testing.T) {
	p := NewPlayer(200, 1.4)
	if p.X != PlayerMaxX {
		t.Fatalf("x = %v, want %v", p.X, PlayerMaxX)
	}
	p.Move(1, 1)
	if p.X != PlayerMaxX {
		t.Errorf("moving right at the edge: x = %v", p.X)
	}
	p.Move(-1, 2)
	if got, want := p.X, PlayerMaxX-2.8; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("x = %v, want %v", got, want)
	}
}

func TestPowerUpFalls(t *testing.T) {
	pu := &PowerUp{Kind: PowerUpShield, X: 50, Y: FieldHeight - 0.1, Speed: 0.25}
	if !pu.Update(oneFrame) {
		t.Error("power-up below the field should be removed")
	}
	if PowerUpNone.String() != "none" || PowerUpClearBurst.String() != "clear-burst" {
		t.Error("unexpected power-up names")
	}
}

func TestParticleLifetime(t *testing.T) {
	p := NewParticle(50, 50, 0, 0, 0.1, draw.ColorGreen)
	if p.Update(oneFrame) {
		t.Fatal("particle removed too early")
	}
	if !p.Update(UpdateContext{Delta: 100 * time.Millisecond, Scale: 6}) {
		t.Error("expired particle should be removed")
	}

	burst := SpawnSeeds(50, 50, 8)
	if len(burst) != 8 {
		t.Fatalf("seeds = %d, want 8", len(burst))
	}
	for _, s := range burst {
		if s.VY >= 0 || s.Gravity <= 0 {
			t.Errorf("seed should launch upward and fall back: vy=%v g=%v", s.VY, s.Gravity)
		}
	}
}

func TestPopupRises(t *testing.T) {
	pop := NewPopup(50, 50, "+10", draw.ColorGreen, 0.5)
	pop.Update(UpdateContext{Delta: 250 * time.Millisecond})
	if pop.Y != 48 {
		t.Errorf("y = %v, want 48", pop.Y)
	}
	if !pop.Update(UpdateContext{Delta: 300 * time.Millisecond}) {
		t.Error("popup should expire")
	}
}

func TestShouldRenderBlink(t *testing.T) {
	if !ShouldRenderBlink(0, 12) {
		t.Error("no protection should always render")
	}
	if ShouldRenderBlink(0.55, 12) == ShouldRenderBlink(0.64, 12) {
		t.Error("blink should alternate")
	}
}
