package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Milestone is the one-off payload granted when a combo reaches Combo.
type Milestone struct {
	Combo  int `yaml:"combo"`
	Points int `yaml:"points"`
	Heal   int `yaml:"heal"`
}

// Tuning holds every gameplay constant. Speeds are in field units per 60Hz
// frame, radii in field units.
type Tuning struct {
	MaxFrameDelta time.Duration `yaml:"max_frame_delta"`
	StartHealth   int           `yaml:"start_health"`
	PlayerSpeed   float64       `yaml:"player_speed"`

	CatchLineY     float64 `yaml:"catch_line_y"`
	CatchRadius    float64 `yaml:"catch_radius"`
	NearMissRadius float64 `yaml:"near_miss_radius"`
	ShotRadius     float64 `yaml:"shot_radius"`
	PickupRadius   float64 `yaml:"pickup_radius"`

	ItemPoints       int     `yaml:"item_points"`
	HazardPoints     int     `yaml:"hazard_points"`
	NearMissPoints   int     `yaml:"near_miss_points"`
	ShotPoints       int     `yaml:"shot_points"`
	HazardShotPoints int     `yaml:"hazard_shot_points"`
	ItemHeal         float64 `yaml:"item_heal"`
	HazardHeal       float64 `yaml:"hazard_heal"`
	ShotHeal         int     `yaml:"shot_heal"`
	ItemDamage       float64 `yaml:"item_damage"`
	HazardDamage     float64 `yaml:"hazard_damage"`
	HurtFlash        float64 `yaml:"hurt_flash"` // Seconds

	ComboTimeout time.Duration `yaml:"combo_timeout"`
	Milestones   []Milestone   `yaml:"milestones"`

	MinItemSpeed          float64       `yaml:"min_item_speed"`
	MaxItemSpeed          float64       `yaml:"max_item_speed"`
	SpeedPerLevel         float64       `yaml:"speed_per_level"`
	HazardPerLevel        float64       `yaml:"hazard_per_level"`
	MaxHazardChance       float64       `yaml:"max_hazard_chance"`
	MinSpawnInterval      time.Duration `yaml:"min_spawn_interval"`
	SpawnIntervalPerLevel time.Duration `yaml:"spawn_interval_per_level"`
	SpawnMinX             float64       `yaml:"spawn_min_x"`
	SpawnMaxX             float64       `yaml:"spawn_max_x"`
	SpawnY                float64       `yaml:"spawn_y"`
	WindAmplitude         float64       `yaml:"wind_amplitude"`

	FireInterval      time.Duration `yaml:"fire_interval"`
	RapidFireInterval time.Duration `yaml:"rapid_fire_interval"`
	ProjectileSpeed   float64       `yaml:"projectile_speed"`

	PowerUpInterval time.Duration `yaml:"power_up_interval"`
	PowerUpDuration time.Duration `yaml:"power_up_duration"`
	PowerUpSpeed    float64       `yaml:"power_up_speed"`
	ClearBurstBonus int           `yaml:"clear_burst_bonus"`

	LevelUpDuration time.Duration `yaml:"level_up_duration"`

	QuizGateLevel int `yaml:"quiz_gate_level"`
	QuizReward    int `yaml:"quiz_reward"`
	QuizHeal      int `yaml:"quiz_heal"`
	QuizPenalty   int `yaml:"quiz_penalty"`

	Difficulties DifficultyTable `yaml:"difficulties"`
}

// DefaultTuning returns the stock game constants.
func DefaultTuning() Tuning {
	return Tuning{
		MaxFrameDelta: 50 * time.Millisecond,
		StartHealth:   100,
		PlayerSpeed:   1.4,

		CatchLineY:     88,
		CatchRadius:    7,
		NearMissRadius: 13,
		ShotRadius:     5,
		PickupRadius:   6,

		ItemPoints:       10,
		HazardPoints:     25,
		NearMissPoints:   3,
		ShotPoints:       5,
		HazardShotPoints: 15,
		ItemHeal:         1,
		HazardHeal:       2,
		ShotHeal:         1,
		ItemDamage:       8,
		HazardDamage:     15,
		HurtFlash:        0.5,

		ComboTimeout: 1800 * time.Millisecond,
		Milestones: []Milestone{
			{Combo: 10, Points: 50, Heal: 10},
			{Combo: 20, Points: 100, Heal: 15},
			{Combo: 30, Points: 200, Heal: 20},
		},

		MinItemSpeed:          0.25,
		MaxItemSpeed:          0.45,
		SpeedPerLevel:         0.1,
		HazardPerLevel:        0.05,
		MaxHazardChance:       0.75,
		MinSpawnInterval:      350 * time.Millisecond,
		SpawnIntervalPerLevel: 80 * time.Millisecond,
		SpawnMinX:             7.5,
		SpawnMaxX:             92.5,
		SpawnY:                -2,
		WindAmplitude:         0.12,

		FireInterval:      420 * time.Millisecond,
		RapidFireInterval: 140 * time.Millisecond,
		ProjectileSpeed:   1.6,

		PowerUpInterval: 12 * time.Second,
		PowerUpDuration: 8 * time.Second,
		PowerUpSpeed:    0.25,
		ClearBurstBonus: 50,

		LevelUpDuration: 2 * time.Second,

		QuizGateLevel: 4,
		QuizReward:    150,
		QuizHeal:      15,
		QuizPenalty:   15,

		Difficulties: DifficultyTable{
			Easy: Settings{
				WinDuration:      90 * time.Second,
				SpeedMultiplier:  0.85,
				HazardBase:       0.12,
				DamageMultiplier: 0.75,
				HealMultiplier:   1.5,
				SpawnInterval:    1300 * time.Millisecond,
			},
			Normal: Settings{
				WinDuration:      120 * time.Second,
				SpeedMultiplier:  1.0,
				HazardBase:       0.20,
				DamageMultiplier: 1.0,
				HealMultiplier:   1.0,
				SpawnInterval:    1100 * time.Millisecond,
			},
			Hard: Settings{
				WinDuration:      150 * time.Second,
				SpeedMultiplier:  1.25,
				HazardBase:       0.30,
				DamageMultiplier: 1.4,
				HealMultiplier:   0.75,
				SpawnInterval:    900 * time.Millisecond,
			},
		},
	}
}

// LoadTuning reads a YAML file and overlays it on DefaultTuning. Keys absent
// from the file keep their default. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate reports the first inconsistent value.
func (t Tuning) Validate() error {
	switch {
	case t.MaxFrameDelta <= 0:
		return errors.New("max_frame_delta must be positive")
	case t.PlayerSpeed <= 0:
		return errors.New("player_speed must be positive")
	case t.ProjectileSpeed <= 0:
		return errors.New("projectile_speed must be positive")
	case t.PowerUpSpeed <= 0:
		return errors.New("power_up_speed must be positive")
	case t.ShotRadius <= 0:
		return errors.New("shot_radius must be positive")
	case t.PickupRadius < 0:
		return errors.New("pickup_radius must not be negative")
	case t.StartHealth <= 0 || t.StartHealth > MaxHealth:
		return fmt.Errorf("start_health must be within (0,%d]", MaxHealth)
	case t.CatchRadius <= 0 || t.NearMissRadius < t.CatchRadius:
		return errors.New("near_miss_radius must be >= catch_radius > 0")
	case t.MinItemSpeed <= 0 || t.MaxItemSpeed < t.MinItemSpeed:
		return errors.New("max_item_speed must be >= min_item_speed > 0")
	case t.MinSpawnInterval <= 0:
		return errors.New("min_spawn_interval must be positive")
	case t.FireInterval <= 0 || t.RapidFireInterval <= 0:
		return errors.New("fire intervals must be positive")
	case t.PowerUpInterval <= 0 || t.PowerUpDuration <= 0:
		return errors.New("power-up timers must be positive")
	case t.SpawnMaxX < t.SpawnMinX:
		return errors.New("spawn_max_x must be >= spawn_min_x")
	}
	for _, d := range Difficulties {
		s, _ := t.Difficulties.For(d)
		if err := s.validate(); err != nil {
			return fmt.Errorf("difficulties.%s: %w", d, err)
		}
	}
	return nil
}

// milestone returns the payload for reaching combo, if any.
func (t *Tuning) milestone(combo int) (Milestone, bool) {
	for _, m := range t.Milestones {
		if m.Combo == combo {
			return m, true
		}
	}
	return Milestone{}, false
}
