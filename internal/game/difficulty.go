package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty selects one column of the settings table.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Difficulties in menu order.
var Difficulties = []Difficulty{Easy, Normal, Hard}

// ErrUnknownDifficulty is returned when a name matches no difficulty.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Easy, Normal, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Label is the menu caption.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Seedling"
	case Hard:
		return "Storm"
	default:
		return "Guardian"
	}
}

// Settings are the per-difficulty knobs.
type Settings struct {
	WinDuration      time.Duration `yaml:"win_duration"`
	SpeedMultiplier  float64       `yaml:"speed_multiplier"`
	HazardBase       float64       `yaml:"hazard_base"`
	DamageMultiplier float64       `yaml:"damage_multiplier"`
	HealMultiplier   float64       `yaml:"heal_multiplier"`
	SpawnInterval    time.Duration `yaml:"spawn_interval"`
}

// DifficultyTable holds one Settings per difficulty. Fields rather than a map
// so a YAML overlay can change a single value without zeroing its siblings.
type DifficultyTable struct {
	Easy   Settings `yaml:"easy"`
	Normal Settings `yaml:"normal"`
	Hard   Settings `yaml:"hard"`
}

// For returns the settings of d.
func (t DifficultyTable) For(d Difficulty) (Settings, error) {
	switch d {
	case Easy:
		return t.Easy, nil
	case Normal:
		return t.Normal, nil
	case Hard:
		return t.Hard, nil
	}
	return Settings{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
}

func (s Settings) validate() error {
	switch {
	case s.WinDuration <= 0:
		return errors.New("win_duration must be positive")
	case s.SpawnInterval <= 0:
		return errors.New("spawn_interval must be positive")
	case s.SpeedMultiplier <= 0:
		return errors.New("speed_multiplier must be positive")
	case s.HazardBase < 0 || s.HazardBase > 1:
		return errors.New("hazard_base must be within [0,1]")
	case s.DamageMultiplier < 0 || s.HealMultiplier < 0:
		return errors.New("multipliers must not be negative")
	}
	return nil
}
