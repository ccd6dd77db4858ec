package game

import (
	"math"

	"github.com/tomz197/earthkeeper/internal/object"
	"github.com/tomz197/earthkeeper/internal/physics"
)

// collideProjectiles destroys items hit by a projectile. Each projectile and
// each item is consumed at most once.
func (s *State) collideProjectiles() {
	if len(s.Items) == 0 || len(s.Projectiles) == 0 {
		return
	}

	s.grid.Clear()
	for i, it := range s.Items {
		if !it.Resolved {
			s.grid.Insert(it.X, it.Y, i)
		}
	}
	if cap(s.hits) < len(s.Items) {
		s.hits = make([]bool, len(s.Items))
	}
	s.hits = s.hits[:len(s.Items)]
	clear(s.hits)

	hit := false
	for _, p := range s.Projectiles {
		if p.IsDestroyed() {
			continue
		}
		s.grid.QueryAround(p.X, p.Y, func(i int) bool {
			if s.hits[i] {
				return false
			}
			it := s.Items[i]
			if !physics.Near(p.X, p.Y, it.X, it.Y, s.Tuning.ShotRadius) {
				return false
			}
			s.hits[i] = true
			p.MarkDestroyed()
			s.shootItem(it)
			hit = true
			return true
		})
	}
	if !hit {
		return
	}

	kept := s.Items[:0]
	for i, it := range s.Items {
		if !s.hits[i] {
			kept = append(kept, it)
		}
	}
	clear(s.Items[len(kept):])
	s.Items = kept

	live := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if !p.IsDestroyed() {
			live = append(live, p)
		}
	}
	clear(s.Projectiles[len(live):])
	s.Projectiles = live
}

func (s *State) shootItem(it *object.Item) {
	base := s.Tuning.ShotPoints
	if it.Hazard {
		base = s.Tuning.HazardShotPoints
	}
	points := base * ComboMultiplier(s.Combo)
	s.addScore(points)
	s.heal(s.Tuning.ShotHeal)
	s.Destroyed++
	s.emit(Event{Kind: EventDestroyed, X: it.X, Y: it.Y, Points: points, Health: s.Tuning.ShotHeal, Hazard: it.Hazard, Category: it.Category})
	s.bumpCombo()
}

// resolveCatch settles an item that reached the catch line. Returns true if
// the item was collected and should be removed.
func (s *State) resolveCatch(it *object.Item) bool {
	t := &s.Tuning
	dx := math.Abs(it.X - s.Player.X)

	if dx <= t.CatchRadius {
		base, heal := t.ItemPoints, t.ItemHeal
		if it.Hazard {
			base, heal = t.HazardPoints, t.HazardHeal
		}
		points := base * ComboMultiplier(s.Combo)
		hp := int(math.Round(heal * s.Settings.HealMultiplier))
		s.addScore(points)
		s.heal(hp)
		s.Collected++
		s.emit(Event{Kind: EventCollected, X: it.X, Y: it.Y, Points: points, Health: hp, Hazard: it.Hazard, Category: it.Category})
		s.bumpCombo()
		return true
	}

	it.Resolved = true
	if dx <= t.NearMissRadius {
		s.addScore(t.NearMissPoints)
		s.emit(Event{Kind: EventNearMiss, X: it.X, Y: it.Y, Points: t.NearMissPoints, Hazard: it.Hazard, Category: it.Category})
	} else {
		s.emit(Event{Kind: EventMissed, X: it.X, Y: it.Y, Hazard: it.Hazard, Category: it.Category})
	}
	s.breakCombo()
	s.Missed++

	if s.PowerUp == object.PowerUpShield {
		s.emit(Event{Kind: EventBlocked, X: it.X, Y: it.Y, Hazard: it.Hazard})
		return false
	}
	base := t.ItemDamage
	if it.Hazard {
		base = t.HazardDamage
	}
	dmg := int(math.Round(base * s.Settings.DamageMultiplier))
	s.emit(Event{Kind: EventHit, X: it.X, Y: it.Y, Health: -dmg, Hazard: it.Hazard})
	s.damage(dmg)
	return false
}

// pickUp applies a collected power-up.
func (s *State) pickUp(pu *object.PowerUp) {
	s.emit(Event{Kind: EventPowerUp, X: pu.X, Y: pu.Y, PowerUp: pu.Kind})

	if pu.Kind == object.PowerUpClearBurst {
		clear(s.Items)
		s.Items = s.Items[:0]
		s.addScore(s.Tuning.ClearBurstBonus)
		s.emit(Event{Kind: EventSeedBurst, X: s.Player.X, Y: object.PlayerY, Points: s.Tuning.ClearBurstBonus})
		return
	}

	s.PowerUp = pu.Kind
	s.PowerUpTimer = s.Tuning.PowerUpDuration
	s.Player.Shielded = pu.Kind == object.PowerUpShield
}
