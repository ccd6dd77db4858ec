package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/earthkeeper/internal/object"
)

var testQuestion = Question{
	Prompt:  "Which bin takes glass?",
	Choices: []string{"green", "red", "none"},
	Answer:  0,
	Fact:    "Glass is endlessly recyclable.",
}

type finishRecorder struct {
	calls   int
	results []Result
}

func (r *finishRecorder) record(res Result) {
	r.calls++
	r.results = append(r.results, res)
}

func newTestState(t *testing.T, d Difficulty) (*State, *finishRecorder) {
	t.Helper()
	rec := &finishRecorder{}
	s, err := NewState(Options{
		Difficulty: d,
		Nickname:   "tester",
		Seed:       42,
		Questions:  []Question{testQuestion},
		OnFinish:   rec.record,
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s, rec
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestHazardCaughtUnderPlayer(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		combo      int
		wantHeal   int
		wantPoints int
	}{
		{Easy, 0, 3, 25},
		{Normal, 0, 2, 25},
		{Hard, 0, 2, 25},
		{Normal, 5, 2, 50},
		{Normal, 12, 2, 75},
		{Normal, 25, 2, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			s, _ := newTestState(t, tt.difficulty)
			s.Health = 50
			s.Combo = tt.combo
			s.comboTimer = time.Second
			s.Items = []*object.Item{{ID: 1, X: s.Player.X, Y: 87.9, Speed: 0.4, Hazard: true, Category: object.CategoryBattery}}

			Tick(s, frame, Input{})

			if s.Collected != 1 {
				t.Errorf("collected = %d, want 1", s.Collected)
			}
			if s.Health != 50+tt.wantHeal {
				t.Errorf("health = %d, want %d", s.Health, 50+tt.wantHeal)
			}
			if s.Score != tt.wantPoints {
				t.Errorf("score = %d, want %d", s.Score, tt.wantPoints)
			}
			if len(s.Items) != 0 {
				t.Errorf("items = %d, want 0", len(s.Items))
			}
			if s.Combo != tt.combo+1 {
				t.Errorf("combo = %d, want %d", s.Combo, tt.combo+1)
			}
		})
	}
}

func TestProjectileDestroysItem(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Projectiles = []*object.Projectile{object.NewProjectile(100, 50, 40, s.Tuning.ProjectileSpeed)}
	s.Items = []*object.Item{{ID: 1, X: 52, Y: 42, Speed: 0.3, Category: object.CategoryCan}}

	Tick(s, frame, Input{})

	if s.Destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1", s.Destroyed)
	}
	if len(s.Items) != 0 {
		t.Errorf("items = %d, want 0", len(s.Items))
	}
	if len(s.Projectiles) != 0 {
		t.Errorf("projectiles = %d, want 0", len(s.Projectiles))
	}
	if s.Score != s.Tuning.ShotPoints {
		t.Errorf("score = %d, want %d", s.Score, s.Tuning.ShotPoints)
	}
	if s.Combo != 1 {
		t.Errorf("combo = %d, want 1", s.Combo)
	}
}

func TestProjectileMissesDistantItem(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Projectiles = []*object.Projectile{object.NewProjectile(100, 50, 40, s.Tuning.ProjectileSpeed)}
	s.Items = []*object.Item{{ID: 1, X: 56, Y: 40, Speed: 0.3}}

	Tick(s, frame, Input{})

	if s.Destroyed != 0 || len(s.Items) != 1 || len(s.Projectiles) != 1 {
		t.Fatalf("destroyed=%d items=%d projectiles=%d, want 0/1/1", s.Destroyed, len(s.Items), len(s.Projectiles))
	}
}

func TestOneProjectileOneItem(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Projectiles = []*object.Projectile{object.NewProjectile(100, 50, 40, s.Tuning.ProjectileSpeed)}
	s.Items = []*object.Item{
		{ID: 1, X: 51, Y: 39, Speed: 0.3},
		{ID: 2, X: 49, Y: 38, Speed: 0.3},
	}

	Tick(s, frame, Input{})

	if s.Destroyed != 1 || len(s.Items) != 1 {
		t.Fatalf("destroyed=%d items=%d, want 1/1", s.Destroyed, len(s.Items))
	}
}

func TestMissOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		dx         float64
		hazard     bool
		shielded   bool
		wantPoints int
		wantDamage int
		wantEvent  EventKind
	}{
		{"near miss", 10, false, false, 3, 8, EventNearMiss},
		{"far miss", 30, false, false, 0, 8, EventMissed},
		{"far hazard", 30, true, false, 0, 15, EventMissed},
		{"shielded", 30, true, true, 0, 0, EventBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestState(t, Normal)
			s.Combo = 7
			s.comboTimer = time.Second
			if tt.shielded {
				s.PowerUp = object.PowerUpShield
				s.PowerUpTimer = 5 * time.Second
			}
			s.Items = []*object.Item{{ID: 1, X: s.Player.X + tt.dx, Y: 87.9, Speed: 0.4, Hazard: tt.hazard}}

			Tick(s, frame, Input{})
			events := s.TakeEvents()

			if s.Combo != 0 {
				t.Errorf("combo = %d, want 0", s.Combo)
			}
			if s.Missed != 1 {
				t.Errorf("missed = %d, want 1", s.Missed)
			}
			if s.Score != tt.wantPoints {
				t.Errorf("score = %d, want %d", s.Score, tt.wantPoints)
			}
			if s.Health != 100-tt.wantDamage {
				t.Errorf("health = %d, want %d", s.Health, 100-tt.wantDamage)
			}
			if !hasEvent(events, tt.wantEvent) {
				t.Errorf("missing %v event in %v", tt.wantEvent, events)
			}
			if len(s.Items) != 1 || !s.Items[0].Resolved {
				t.Errorf("missed item should stay resolved on the field")
			}
		})
	}
}

func TestResolvedItemCountsOnce(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Items = []*object.Item{{ID: 1, X: 10, Y: 87.9, Speed: 0.4}}

	for range 10 {
		Tick(s, frame, Input{})
	}
	if s.Missed != 1 {
		t.Fatalf("missed = %d, want 1", s.Missed)
	}
}

func TestComboTimeout(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Combo = 3
	s.comboTimer = 10 * time.Millisecond

	Tick(s, frame, Input{})

	if s.Combo != 0 {
		t.Fatalf("combo = %d, want 0", s.Combo)
	}
	if !hasEvent(s.TakeEvents(), EventComboLost) {
		t.Error("expected combo-lost event")
	}
}

func TestComboMilestone(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Health = 50
	s.Combo = 9
	s.comboTimer = time.Second
	s.Items = []*object.Item{{ID: 1, X: s.Player.X, Y: 87.9, Speed: 0.4}}

	Tick(s, frame, Input{})
	events := s.TakeEvents()

	// 10 points x2 for the catch, plus the combo-10 payload.
	if s.Score != 20+50 {
		t.Errorf("score = %d, want 70", s.Score)
	}
	if s.Health != 50+1+10 {
		t.Errorf("health = %d, want 61", s.Health)
	}
	if !hasEvent(events, EventComboMilestone) || !hasEvent(events, EventSeedBurst) {
		t.Errorf("expected milestone and seed-burst events, got %v", events)
	}
	if s.MaxCombo != 10 {
		t.Errorf("max combo = %d, want 10", s.MaxCombo)
	}
}

func TestLossFreezesAndSavesOnce(t *testing.T) {
	s, rec := newTestState(t, Normal)
	s.Health = 5
	s.Items = []*object.Item{
		{ID: 1, X: 90, Y: 87.9, Speed: 0.4},
		{ID: 2, X: 10, Y: 87.9, Speed: 0.4},
	}

	Tick(s, frame, Input{})

	if s.Phase != PhaseLost || !s.Over() || s.Won() {
		t.Fatalf("phase = %v, want lost", s.Phase)
	}
	if s.Health != 0 {
		t.Errorf("health = %d, want 0", s.Health)
	}
	if s.Missed != 1 {
		t.Errorf("missed = %d, want 1 (frame ends at death)", s.Missed)
	}

	score, elapsed, items := s.Score, s.Elapsed, len(s.Items)
	for range 100 {
		Tick(s, frame, Input{Left: true})
	}
	if s.Score != score || s.Elapsed != elapsed || len(s.Items) != items {
		t.Error("state changed after loss")
	}
	if rec.calls != 1 {
		t.Fatalf("OnFinish calls = %d, want 1", rec.calls)
	}
	if got := rec.results[0]; got.Won || got.Nickname != "tester" || got.Difficulty != Normal {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestVictoryOnce(t *testing.T) {
	s, rec := newTestState(t, Easy)
	s.Elapsed = s.Settings.WinDuration - 5*time.Millisecond
	s.Health = 5
	s.Items = []*object.Item{{ID: 1, X: 90, Y: 87.9, Speed: 0.4}}

	Tick(s, frame, Input{})
	Tick(s, frame, Input{})

	if s.Phase != PhaseWon {
		t.Fatalf("phase = %v, want won", s.Phase)
	}
	if s.Health != 5 {
		t.Errorf("health = %d, want 5 (no damage after victory)", s.Health)
	}
	if rec.calls != 1 || !rec.results[0].Won {
		t.Fatalf("OnFinish calls = %d, results %+v", rec.calls, rec.results)
	}
	if s.Remaining() != 0 {
		t.Errorf("remaining = %v, want 0", s.Remaining())
	}
}

func TestFrameDeltaClamped(t *testing.T) {
	s, _ := newTestState(t, Normal)
	Tick(s, time.Second, Input{})
	if s.Elapsed != s.Tuning.MaxFrameDelta {
		t.Fatalf("elapsed = %v, want %v", s.Elapsed, s.Tuning.MaxFrameDelta)
	}
}

func TestPlayerMovement(t *testing.T) {
	s, _ := newTestState(t, Normal)
	start := s.Player.X

	Tick(s, frame, Input{Left: true})
	if math.Abs(s.Player.X-(start-s.Tuning.PlayerSpeed)) > 1e-9 {
		t.Errorf("x = %v, want %v", s.Player.X, start-s.Tuning.PlayerSpeed)
	}

	Tick(s, frame, Input{Left: true, Right: true})
	if math.Abs(s.Player.X-(start-s.Tuning.PlayerSpeed)) > 1e-9 {
		t.Errorf("opposite keys should cancel, x = %v", s.Player.X)
	}

	s.Player.X = object.PlayerMinX + 0.5
	Tick(s, frame, Input{Left: true})
	if s.Player.X != object.PlayerMinX {
		t.Errorf("x = %v, want clamp to %v", s.Player.X, object.PlayerMinX)
	}
}

func TestPauseStopsTime(t *testing.T) {
	s, _ := newTestState(t, Normal)
	Tick(s, frame, Input{})
	if !s.Pause() {
		t.Fatal("Pause returned false")
	}
	elapsed := s.Elapsed
	for range 10 {
		Tick(s, frame, Input{})
	}
	if s.Elapsed != elapsed {
		t.Fatal("time advanced while paused")
	}
	if !s.Resume() || s.Resume() {
		t.Fatal("Resume should succeed once")
	}
	Tick(s, frame, Input{})
	if s.Elapsed == elapsed {
		t.Fatal("time did not advance after resume")
	}
}

func TestFiring(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.fireTimer = time.Millisecond

	Tick(s, frame, Input{})

	if len(s.Projectiles) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(s.Projectiles))
	}
	if s.Projectiles[0].X != s.Player.X {
		t.Errorf("projectile x = %v, want %v", s.Projectiles[0].X, s.Player.X)
	}

	s.PowerUp = object.PowerUpRapidFire
	s.PowerUpTimer = time.Minute
	s.spawnTimer = time.Hour
	count := len(s.Projectiles)
	for range 30 {
		Tick(s, frame, Input{})
	}
	// Half a second at 140ms between shots.
	if got := len(s.Projectiles) - count; got < 3 {
		t.Errorf("rapid fire launched %d, want >= 3", got)
	}
}

func TestPowerUps(t *testing.T) {
	t.Run("clear burst", func(t *testing.T) {
		s, _ := newTestState(t, Normal)
		s.Items = []*object.Item{{ID: 1, X: 20, Y: 20, Speed: 0.3}, {ID: 2, X: 70, Y: 30, Speed: 0.3}}
		s.PowerUps = []*object.PowerUp{{ID: 3, X: s.Player.X, Y: object.PlayerY, Kind: object.PowerUpClearBurst}}

		Tick(s, frame, Input{})

		if len(s.Items) != 0 {
			t.Errorf("items = %d, want 0", len(s.Items))
		}
		if s.Score != s.Tuning.ClearBurstBonus {
			t.Errorf("score = %d, want %d", s.Score, s.Tuning.ClearBurstBonus)
		}
		if s.PowerUp != object.PowerUpNone {
			t.Errorf("clear burst should not stay active")
		}
		if !hasEvent(s.TakeEvents(), EventSeedBurst) {
			t.Error("expected seed-burst event")
		}
	})

	t.Run("retrigger resets", func(t *testing.T) {
		s, _ := newTestState(t, Normal)
		s.PowerUp = object.PowerUpRapidFire
		s.PowerUpTimer = time.Second
		s.PowerUps = []*object.PowerUp{{ID: 3, X: s.Player.X + 3, Y: object.PlayerY - 3, Kind: object.PowerUpRapidFire}}

		Tick(s, frame, Input{})

		if s.PowerUpTimer != s.Tuning.PowerUpDuration {
			t.Errorf("timer = %v, want %v", s.PowerUpTimer, s.Tuning.PowerUpDuration)
		}
	})

	t.Run("shield expires", func(t *testing.T) {
		s, _ := newTestState(t, Normal)
		s.PowerUps = []*object.PowerUp{{ID: 3, X: s.Player.X, Y: object.PlayerY, Kind: object.PowerUpShield}}
		Tick(s, frame, Input{})
		if !s.Player.Shielded || s.PowerUp != object.PowerUpShield {
			t.Fatal("shield not active after pickup")
		}

		s.PowerUpTimer = time.Millisecond
		Tick(s, frame, Input{})
		if s.Player.Shielded || s.PowerUp != object.PowerUpNone {
			t.Fatal("shield still active after expiry")
		}
		if !hasEvent(s.TakeEvents(), EventPowerUpExpired) {
			t.Error("expected expiry event")
		}
	})

	t.Run("out of reach", func(t *testing.T) {
		s, _ := newTestState(t, Normal)
		s.PowerUps = []*object.PowerUp{{ID: 3, X: s.Player.X + 20, Y: object.PlayerY, Kind: object.PowerUpShield}}
		Tick(s, frame, Input{})
		if s.PowerUp != object.PowerUpNone || len(s.PowerUps) != 1 {
			t.Fatal("power-up picked up out of reach")
		}
	})
}

func TestSlowTimeHalvesSpawnSpeed(t *testing.T) {
	a, _ := newTestState(t, Normal)
	b, _ := newTestState(t, Normal)
	b.PowerUp = object.PowerUpSlowTime

	for range 20 {
		ia, ib := a.newItem(), b.newItem()
		if math.Abs(ib.Speed-ia.Speed/2) > 1e-9 {
			t.Fatalf("slow-time speed = %v, want %v", ib.Speed, ia.Speed/2)
		}
	}
}

func TestSpawnSpeedScalesWithLevelAndDifficulty(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		level      int
	}{
		{Easy, 1}, {Easy, 5}, {Normal, 1}, {Normal, 4}, {Hard, 1}, {Hard, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/level%d", tt.difficulty, tt.level), func(t *testing.T) {
			s, _ := newTestState(t, tt.difficulty)
			s.Level = tt.level

			tun := s.Tuning
			factor := (1 + tun.SpeedPerLevel*float64(tt.level-1)) * s.Settings.SpeedMultiplier
			lo, hi := tun.MinItemSpeed*factor, tun.MaxItemSpeed*factor
			for range 200 {
				it := s.newItem()
				if it.Speed < lo-1e-9 || it.Speed > hi+1e-9 {
					t.Fatalf("speed = %v, want within [%v, %v]", it.Speed, lo, hi)
				}
			}
		})
	}

	s, _ := newTestState(t, Hard)
	s.Level = 3
	slowest := math.MaxFloat64
	for range 500 {
		slowest = min(slowest, s.newItem().Speed)
	}
	// 0.25 * (1 + 0.1*2) * 1.25 = 0.375
	if slowest < 0.375-1e-9 || slowest > 0.375+0.02 {
		t.Errorf("slowest hard level 3 speed = %v, want near 0.375", slowest)
	}
}

func TestSpawnedItemsInBounds(t *testing.T) {
	s, _ := newTestState(t, Hard)
	s.Level = 10
	for range 500 {
		it := s.newItem()
		if it.X < 7.5 || it.X > 92.5 {
			t.Fatalf("x = %v out of spawn range", it.X)
		}
		if it.Y != -2 {
			t.Fatalf("y = %v, want -2", it.Y)
		}
		cats := object.NormalCategories
		if it.Hazard {
			cats = object.HazardCategories
		}
		found := false
		for _, c := range cats {
			found = found || c == it.Category
		}
		if !found {
			t.Fatalf("category %v does not match hazard=%v", it.Category, it.Hazard)
		}
	}
}

func TestSpawnCurves(t *testing.T) {
	s, _ := newTestState(t, Normal)
	if got := s.SpawnInterval(); got != 1100*time.Millisecond {
		t.Errorf("level 1 interval = %v", got)
	}
	s.Level = 3
	if got := s.SpawnInterval(); got != 940*time.Millisecond {
		t.Errorf("level 3 interval = %v", got)
	}
	s.Level = 20
	if got := s.SpawnInterval(); got != s.Tuning.MinSpawnInterval {
		t.Errorf("level 20 interval = %v, want floor", got)
	}
	if got := s.HazardChance(); got != 0.75 {
		t.Errorf("hazard chance = %v, want cap 0.75", got)
	}
	s.Level = 1
	if got := s.HazardChance(); got != 0.20 {
		t.Errorf("level 1 hazard chance = %v, want 0.20", got)
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 1}, {249, 1}, {250, 2}, {300, 2}, {600, 3}, {1099, 3},
		{1100, 4}, {5100, 8}, {8299, 9}, {8300, 10}, {100000, 10},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}

	prev := 1
	for score := 0; score < 10000; score += 7 {
		l := LevelForScore(score)
		if l < prev {
			t.Fatalf("level decreased at score %d", score)
		}
		prev = l
	}

	if LevelName(1) != "Litter Picker" || LevelName(10) != "Earth Keeper" || LevelName(99) != "Earth Keeper" {
		t.Error("unexpected level names")
	}
	if NextThreshold(1) != 250 || NextThreshold(10) != -1 {
		t.Error("unexpected next thresholds")
	}
}

func TestComboMultiplier(t *testing.T) {
	tests := map[int]int{0: 1, 4: 1, 5: 2, 9: 2, 10: 3, 19: 3, 20: 4, 50: 4}
	for combo, want := range tests {
		if got := ComboMultiplier(combo); got != want {
			t.Errorf("ComboMultiplier(%d) = %d, want %d", combo, got, want)
		}
	}
}

func TestLevelUpAndQuizGate(t *testing.T) {
	s, rec := newTestState(t, Normal)
	s.Score = 600
	Tick(s, frame, Input{})
	if s.Level != 3 || s.LevelUpTimer != s.Tuning.LevelUpDuration {
		t.Fatalf("level=%d timer=%v", s.Level, s.LevelUpTimer)
	}
	if !hasEvent(s.TakeEvents(), EventLevelUp) {
		t.Error("expected level-up event")
	}

	s.Score = 1100
	Tick(s, frame, Input{})
	if s.Phase != PhaseQuiz || s.Quiz == nil {
		t.Fatalf("phase = %v, want quiz", s.Phase)
	}

	elapsed := s.Elapsed
	Tick(s, frame, Input{})
	if s.Elapsed != elapsed {
		t.Fatal("time advanced during quiz")
	}

	if _, err := AnswerQuiz(s, 5); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("err = %v, want ErrInvalidChoice", err)
	}
	out, err := AnswerQuiz(s, testQuestion.Answer)
	if err != nil || !out.Correct {
		t.Fatalf("AnswerQuiz = %+v, %v", out, err)
	}
	if s.Score != 1100+s.Tuning.QuizReward || s.Phase != PhasePlaying {
		t.Fatalf("score=%d phase=%v after correct answer", s.Score, s.Phase)
	}
	if _, err := AnswerQuiz(s, 0); !errors.Is(err, ErrNoQuiz) {
		t.Fatalf("err = %v, want ErrNoQuiz", err)
	}

	s.Score = 2000
	Tick(s, frame, Input{})
	if s.Phase != PhasePlaying {
		t.Fatal("quiz gate opened twice")
	}
	if rec.calls != 0 {
		t.Fatal("run finished unexpectedly")
	}
}

func TestWrongAnswerCanEndRun(t *testing.T) {
	s, rec := newTestState(t, Normal)
	s.Health = 10
	s.Score = 1100
	s.Level = 3
	Tick(s, frame, Input{})
	if s.Phase != PhaseQuiz {
		t.Fatalf("phase = %v, want quiz", s.Phase)
	}

	s.Combo = 7
	out, err := AnswerQuiz(s, 2)
	if err != nil || out.Correct {
		t.Fatalf("AnswerQuiz = %+v, %v", out, err)
	}
	if s.Phase != PhaseLost || rec.calls != 1 {
		t.Fatalf("phase=%v calls=%d, want lost/1", s.Phase, rec.calls)
	}
	if s.Combo != 0 {
		t.Errorf("combo = %d, want 0 after a wrong answer", s.Combo)
	}
}

func TestWrongAnswerBreaksCombo(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Score = 1100
	s.Level = 3
	Tick(s, frame, Input{})
	if s.Phase != PhaseQuiz {
		t.Fatalf("phase = %v, want quiz", s.Phase)
	}
	s.Combo = 7
	s.TakeEvents()

	if _, err := AnswerQuiz(s, 1); err != nil {
		t.Fatal(err)
	}
	if s.Combo != 0 {
		t.Errorf("combo = %d, want 0", s.Combo)
	}
	if s.Health != s.Tuning.StartHealth-s.Tuning.QuizPenalty {
		t.Errorf("health = %d, want %d", s.Health, s.Tuning.StartHealth-s.Tuning.QuizPenalty)
	}
	if !hasEvent(s.TakeEvents(), EventComboLost) {
		t.Error("missing combo-lost event")
	}
}

func TestResultLevelMatchesScoreOnLoss(t *testing.T) {
	s, rec := newTestState(t, Normal)
	s.Score = 245
	s.Health = 7
	s.Projectiles = []*object.Projectile{object.NewProjectile(100, 50, 40, s.Tuning.ProjectileSpeed)}
	s.Items = []*object.Item{
		{ID: 1, X: 52, Y: 42, Speed: 0.3, Category: object.CategoryCan},
		{ID: 2, X: 10, Y: 87.9, Speed: 0.4, Category: object.CategoryCan},
	}

	Tick(s, frame, Input{})

	if s.Phase != PhaseLost || rec.calls != 1 {
		t.Fatalf("phase=%v calls=%d, want lost/1", s.Phase, rec.calls)
	}
	if s.Score != 250 {
		t.Fatalf("score = %d, want 250", s.Score)
	}
	res := rec.results[0]
	if res.Level != LevelForScore(res.Score) || res.LevelName != LevelName(2) {
		t.Errorf("saved level = %d %q, want 2 %q", res.Level, res.LevelName, LevelName(2))
	}
}

func TestRandomRunInvariants(t *testing.T) {
	for _, d := range Difficulties {
		t.Run(string(d), func(t *testing.T) {
			s, rec := newTestState(t, d)
			inputs := rand.New(rand.NewSource(7))
			prevScore, prevLevel := 0, 1

			for i := 0; i < 20000 && !s.Over(); i++ {
				if s.Phase == PhaseQuiz {
					if _, err := AnswerQuiz(s, inputs.Intn(QuizChoices)); err != nil {
						t.Fatalf("AnswerQuiz: %v", err)
					}
				}
				Tick(s, frame, Input{Left: inputs.Intn(3) == 0, Right: inputs.Intn(3) == 0})
				s.TakeEvents()

				if s.Health < 0 || s.Health > MaxHealth {
					t.Fatalf("health %d out of range", s.Health)
				}
				if s.Score < prevScore {
					t.Fatalf("score decreased %d -> %d", prevScore, s.Score)
				}
				if s.Level < prevLevel {
					t.Fatalf("level decreased %d -> %d", prevLevel, s.Level)
				}
				if s.Player.X < object.PlayerMinX || s.Player.X > object.PlayerMaxX {
					t.Fatalf("player x %v out of bounds", s.Player.X)
				}
				for _, it := range s.Items {
					if it.X < object.ItemMinX || it.X > object.ItemMaxX {
						t.Fatalf("item x %v out of bounds", it.X)
					}
				}
				prevScore, prevLevel = s.Score, s.Level
			}

			if !s.Over() {
				t.Fatal("run never ended")
			}
			if rec.calls != 1 {
				t.Fatalf("OnFinish calls = %d, want 1", rec.calls)
			}
		})
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	a, _ := newTestState(t, Normal)
	b, _ := newTestState(t, Normal)
	for i := range 3000 {
		in := Input{Left: i%90 < 30, Right: i%90 > 60}
		Tick(a, frame, in)
		Tick(b, frame, in)
	}
	if a.Score != b.Score || a.Health != b.Health || len(a.Items) != len(b.Items) || a.Phase != b.Phase {
		t.Fatalf("runs diverged: %d/%d %d/%d", a.Score, b.Score, a.Health, b.Health)
	}
}

func TestTakeEvents(t *testing.T) {
	s, _ := newTestState(t, Normal)
	s.Items = []*object.Item{{ID: 1, X: s.Player.X, Y: 87.9, Speed: 0.4}}
	Tick(s, frame, Input{})
	if ev := s.TakeEvents(); !hasEvent(ev, EventCollected) {
		t.Fatalf("events = %v, want collected", ev)
	}
	if len(s.TakeEvents()) != 0 {
		t.Fatal("events not cleared")
	}
}
