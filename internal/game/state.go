// Package game is the Earth Keeper simulation: one State per run, advanced
// frame by frame with Tick.
package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/earthkeeper/internal/object"
	"github.com/tomz197/earthkeeper/internal/physics"
)

// MaxHealth is the health ceiling.
const MaxHealth = 100

// Phase is the run's position in its lifecycle.
type Phase int

const (
	PhasePlaying Phase = iota
	PhasePaused
	PhaseQuiz
	PhaseLost
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseQuiz:
		return "quiz"
	case PhaseLost:
		return "lost"
	case PhaseWon:
		return "won"
	}
	return "unknown"
}

// Input is the movement intent of one frame.
type Input struct {
	Left  bool
	Right bool
}

// Result is the flat record handed to OnFinish.
type Result struct {
	Nickname   string
	Score      int
	Level      int
	LevelName  string
	Difficulty Difficulty
	MaxCombo   int
	Collected  int
	Destroyed  int
	Time       time.Duration
	Won        bool
}

// Options configure a new run.
type Options struct {
	Difficulty Difficulty
	Nickname   string
	Seed       int64   // 0 picks a time-based seed
	Tuning     *Tuning // nil uses DefaultTuning
	Questions  []Question
	OnFinish   func(Result)
}

// State is one run. It is not safe for concurrent use.
type State struct {
	Tuning     Tuning
	Difficulty Difficulty
	Settings   Settings
	Nickname   string

	Score     int
	Health    int
	Elapsed   time.Duration
	Level     int
	Combo     int
	MaxCombo  int
	Collected int
	Destroyed int
	Missed    int
	Phase     Phase

	Player      *object.Player
	Items       []*object.Item
	Projectiles []*object.Projectile
	PowerUps    []*object.PowerUp

	PowerUp      object.PowerUpKind
	PowerUpTimer time.Duration
	LevelUpTimer time.Duration
	Quiz         *Question

	// Events collects output signals until TakeEvents.
	Events []Event

	// OnFinish is called once when the run is lost or won.
	OnFinish func(Result)

	rng          *rand.Rand
	grid         *physics.SpatialGrid
	hits         []bool
	questions    []Question
	nextID       int
	comboTimer   time.Duration
	fireTimer    time.Duration
	spawnTimer   time.Duration
	powerUpTimer time.Duration
	quizDone     bool
	finished     bool
}

// NewState starts a fresh run.
func NewState(opts Options) (*State, error) {
	t := DefaultTuning()
	if opts.Tuning != nil {
		t = *opts.Tuning
	}
	settings, err := t.Difficulties.For(opts.Difficulty)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	questions := opts.Questions
	if questions == nil {
		questions = DefaultQuestions()
	}

	s := &State{
		Tuning:       t,
		Difficulty:   opts.Difficulty,
		Settings:     settings,
		Nickname:     opts.Nickname,
		Health:       t.StartHealth,
		Level:        1,
		Phase:        PhasePlaying,
		Player:       object.NewPlayer(object.FieldWidth/2, t.PlayerSpeed),
		OnFinish:     opts.OnFinish,
		rng:          rand.New(rand.NewSource(seed)),
		grid:         physics.NewSpatialGrid(object.FieldWidth, object.FieldHeight, 2*t.ShotRadius),
		questions:    questions,
		fireTimer:    t.FireInterval,
		spawnTimer:   settings.SpawnInterval / 2,
		powerUpTimer: t.PowerUpInterval,
	}
	return s, nil
}

// Over reports whether the run has ended.
func (s *State) Over() bool {
	return s.Phase == PhaseLost || s.Phase == PhaseWon
}

// Won reports whether the run ended in victory.
func (s *State) Won() bool {
	return s.Phase == PhaseWon
}

// Remaining is the time left until victory.
func (s *State) Remaining() time.Duration {
	if r := s.Settings.WinDuration - s.Elapsed; r > 0 {
		return r
	}
	return 0
}

// LevelName is the title of the current level.
func (s *State) LevelName() string {
	return LevelName(s.Level)
}

// Wind is the shared horizontal drift at the current run time, in units per frame.
func (s *State) Wind() float64 {
	ms := float64(s.Elapsed) / float64(time.Millisecond)
	a := s.Tuning.WindAmplitude
	return a*math.Sin(ms/1400) + 0.35*a*math.Sin(ms/430)
}

// Pause stops the simulation. Only a playing run can be paused.
func (s *State) Pause() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	s.Phase = PhasePaused
	return true
}

// Resume continues a paused run.
func (s *State) Resume() bool {
	if s.Phase != PhasePaused {
		return false
	}
	s.Phase = PhasePlaying
	return true
}

// TakeEvents returns the pending events and clears the queue.
func (s *State) TakeEvents() []Event {
	ev := s.Events
	s.Events = nil
	return ev
}

// Result snapshots the run for persistence.
func (s *State) Result() Result {
	return Result{
		Nickname:   s.Nickname,
		Score:      s.Score,
		Level:      s.Level,
		LevelName:  s.LevelName(),
		Difficulty: s.Difficulty,
		MaxCombo:   s.MaxCombo,
		Collected:  s.Collected,
		Destroyed:  s.Destroyed,
		Time:       s.Elapsed,
		Won:        s.Phase == PhaseWon,
	}
}

func (s *State) emit(e Event) {
	s.Events = append(s.Events, e)
}

func (s *State) newID() int {
	s.nextID++
	return s.nextID
}

func (s *State) addScore(points int) {
	if points > 0 {
		s.Score += points
	}
}

func (s *State) heal(amount int) {
	if amount > 0 {
		s.Health = min(MaxHealth, s.Health+amount)
	}
}

// damage lowers health and ends the run at zero. Returns true if the run ended.
func (s *State) damage(amount int) bool {
	if amount <= 0 {
		return false
	}
	s.Health = max(0, s.Health-amount)
	s.Player.HurtTimer = s.Tuning.HurtFlash
	if s.Health == 0 {
		s.finish(PhaseLost)
		return true
	}
	return false
}

// bumpCombo counts a scoring event and pays out milestones.
func (s *State) bumpCombo() {
	s.Combo++
	s.MaxCombo = max(s.MaxCombo, s.Combo)
	s.comboTimer = s.Tuning.ComboTimeout

	if m, ok := s.Tuning.milestone(s.Combo); ok {
		s.addScore(m.Points)
		s.heal(m.Heal)
		s.emit(Event{Kind: EventComboMilestone, Combo: s.Combo, Points: m.Points, Health: m.Heal, X: s.Player.X, Y: object.PlayerY})
		s.emit(Event{Kind: EventSeedBurst, X: s.Player.X, Y: object.PlayerY})
	}
}

func (s *State) breakCombo() {
	if s.Combo > 0 {
		s.emit(Event{Kind: EventComboLost, Combo: s.Combo})
	}
	s.Combo = 0
	s.comboTimer = 0
}

// finish fixes the terminal phase and reports the result exactly once.
func (s *State) finish(phase Phase) {
	if s.finished {
		return
	}
	s.finished = true
	s.Phase = phase
	// The frame may end before updateLevel sees the last points.
	s.Level = max(s.Level, LevelForScore(s.Score))
	if phase == PhaseWon {
		s.emit(Event{Kind: EventWon})
	} else {
		s.emit(Event{Kind: EventLost})
	}
	if s.OnFinish != nil {
		s.OnFinish(s.Result())
	}
}
