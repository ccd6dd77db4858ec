package game

import (
	"math"
	"time"

	"github.com/tomz197/earthkeeper/internal/object"
)

// HazardChance is the probability that the next item is toxic.
func (s *State) HazardChance() float64 {
	p := s.Settings.HazardBase + s.Tuning.HazardPerLevel*float64(s.Level-1)
	return math.Min(s.Tuning.MaxHazardChance, p)
}

// SpawnInterval is the delay between item spawns at the current level.
func (s *State) SpawnInterval() time.Duration {
	d := s.Settings.SpawnInterval - s.Tuning.SpawnIntervalPerLevel*time.Duration(s.Level-1)
	return max(s.Tuning.MinSpawnInterval, d)
}

// spawn runs both spawn timers.
func (s *State) spawn(dt time.Duration) {
	s.spawnTimer -= dt
	if s.spawnTimer <= 0 {
		s.Items = append(s.Items, s.newItem())
		s.spawnTimer += s.SpawnInterval()
		if s.spawnTimer <= 0 {
			s.spawnTimer = s.SpawnInterval()
		}
	}

	s.powerUpTimer -= dt
	if s.powerUpTimer <= 0 {
		s.PowerUps = append(s.PowerUps, s.newPowerUp())
		s.powerUpTimer += s.Tuning.PowerUpInterval
		if s.powerUpTimer <= 0 {
			s.powerUpTimer = s.Tuning.PowerUpInterval
		}
	}
}

func (s *State) spawnX() float64 {
	t := &s.Tuning
	return t.SpawnMinX + s.rng.Float64()*(t.SpawnMaxX-t.SpawnMinX)
}

func (s *State) newItem() *object.Item {
	t := &s.Tuning
	hazard := s.rng.Float64() < s.HazardChance()

	cats := object.NormalCategories
	if hazard {
		cats = object.HazardCategories
	}

	speed := t.MinItemSpeed + s.rng.Float64()*(t.MaxItemSpeed-t.MinItemSpeed)
	speed *= (1 + t.SpeedPerLevel*float64(s.Level-1)) * s.Settings.SpeedMultiplier
	if s.PowerUp == object.PowerUpSlowTime {
		speed /= 2
	}

	return &object.Item{
		ID:            s.newID(),
		X:             s.spawnX(),
		Y:             t.SpawnY,
		Category:      cats[s.rng.Intn(len(cats))],
		Speed:         speed,
		Hazard:        hazard,
		Rotation:      s.rng.Float64() * 2 * math.Pi,
		RotationSpeed: (s.rng.Float64() - 0.5) * 0.2,
		WindDrift:     0.5 + s.rng.Float64(),
	}
}

func (s *State) newPowerUp() *object.PowerUp {
	return &object.PowerUp{
		ID:    s.newID(),
		X:     s.spawnX(),
		Y:     s.Tuning.SpawnY,
		Kind:  object.PowerUpKinds[s.rng.Intn(len(object.PowerUpKinds))],
		Speed: s.Tuning.PowerUpSpeed,
	}
}

// fire launches a seed from the basket whenever the fire timer runs out.
func (s *State) fire(dt time.Duration) {
	interval := s.Tuning.FireInterval
	if s.PowerUp == object.PowerUpRapidFire {
		interval = s.Tuning.RapidFireInterval
	}
	if s.fireTimer > interval {
		s.fireTimer = interval
	}

	s.fireTimer -= dt
	if s.fireTimer > 0 {
		return
	}
	s.fireTimer += interval
	if s.fireTimer <= 0 {
		s.fireTimer = interval
	}
	s.Projectiles = append(s.Projectiles,
		object.NewProjectile(s.newID(), s.Player.X, object.PlayerY-3, s.Tuning.ProjectileSpeed))
}
