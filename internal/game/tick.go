package game

import (
	"time"

	"github.com/tomz197/earthkeeper/internal/object"
	"github.com/tomz197/earthkeeper/internal/physics"
)

const frame = time.Second / 60

// Tick advances the run by dt. Frames outside PhasePlaying change nothing.
func Tick(s *State, dt time.Duration, in Input) {
	if s.Phase != PhasePlaying {
		return
	}
	dt = min(max(dt, 0), s.Tuning.MaxFrameDelta)
	scale := float64(dt) / float64(frame)

	s.Elapsed += dt
	s.countDown(dt)

	if s.Elapsed >= s.Settings.WinDuration {
		s.finish(PhaseWon)
		return
	}

	dir := 0
	if in.Left {
		dir--
	}
	if in.Right {
		dir++
	}
	s.Player.Move(dir, scale)

	if s.Combo > 0 {
		s.comboTimer -= dt
		if s.comboTimer <= 0 {
			s.breakCombo()
		}
	}

	s.fire(dt)
	s.spawn(dt)

	ctx := object.UpdateContext{Delta: dt, Scale: scale, Wind: s.Wind()}

	s.Projectiles = object.UpdateAll(s.Projectiles, ctx)
	s.collideProjectiles()

	s.moveItems(ctx)
	if s.Over() {
		return
	}

	s.PowerUps = object.UpdateAll(s.PowerUps, ctx)
	s.collectPowerUps()

	s.updateLevel()
}

// countDown advances the frame-independent timers.
func (s *State) countDown(dt time.Duration) {
	s.Player.Update(object.UpdateContext{Delta: dt})

	if s.LevelUpTimer > 0 {
		s.LevelUpTimer = max(0, s.LevelUpTimer-dt)
	}

	if s.PowerUp != object.PowerUpNone {
		s.PowerUpTimer -= dt
		if s.PowerUpTimer <= 0 {
			s.emit(Event{Kind: EventPowerUpExpired, PowerUp: s.PowerUp})
			s.PowerUp = object.PowerUpNone
			s.PowerUpTimer = 0
			s.Player.Shielded = false
		}
	}
}

// moveItems integrates items and settles the ones crossing the catch line.
// Stops resolving as soon as the run is lost.
func (s *State) moveItems(ctx object.UpdateContext) {
	kept := s.Items[:0]
	for i, it := range s.Items {
		if s.Over() {
			kept = append(kept, s.Items[i:]...)
			break
		}
		gone := it.Update(ctx)
		if !it.Resolved && it.Y >= s.Tuning.CatchLineY {
			if s.resolveCatch(it) {
				continue
			}
		}
		if gone {
			continue
		}
		kept = append(kept, it)
	}
	clear(s.Items[len(kept):])
	s.Items = kept
}

func (s *State) collectPowerUps() {
	kept := s.PowerUps[:0]
	for _, pu := range s.PowerUps {
		if physics.WithinBox(pu.X, pu.Y, s.Player.X, object.PlayerY, s.Tuning.PickupRadius) {
			s.pickUp(pu)
			continue
		}
		kept = append(kept, pu)
	}
	clear(s.PowerUps[len(kept):])
	s.PowerUps = kept
}

// updateLevel raises the level from the score and opens the quiz gate once.
func (s *State) updateLevel() {
	level := LevelForScore(s.Score)
	if level <= s.Level {
		return
	}
	s.Level = level
	s.LevelUpTimer = s.Tuning.LevelUpDuration
	s.emit(Event{Kind: EventLevelUp, Level: level})

	if !s.quizDone && s.Tuning.QuizGateLevel > 0 && level >= s.Tuning.QuizGateLevel {
		s.startQuiz()
	}
}
