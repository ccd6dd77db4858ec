package client

import (
	"fmt"
	"time"

	"github.com/tomz197/earthkeeper/internal/draw"
	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/loop/config"
	"github.com/tomz197/earthkeeper/internal/object"
)

// applyEvents turns one frame's game events into particles, popups and banners.
func (c *Client) applyEvents(events []game.Event) {
	s := c.state
	for _, ev := range events {
		switch ev.Kind {
		case game.EventCollected:
			s.Popups = append(s.Popups, object.NewPopup(ev.X, ev.Y-3, fmt.Sprintf("+%d", ev.Points), draw.ColorBrightGreen, config.PopupSeconds))
			s.Particles = append(s.Particles, object.SpawnBurst(ev.X, ev.Y, config.BurstParticles, 25, 0.5, draw.ColorYellow)...)
		case game.EventDestroyed:
			s.Popups = append(s.Popups, object.NewPopup(ev.X, ev.Y-3, fmt.Sprintf("+%d", ev.Points), draw.ColorCyan, config.PopupSeconds))
			color := draw.ColorYellow
			if ev.Hazard {
				color = draw.ColorBrightRed
			}
			s.Particles = append(s.Particles, object.SpawnBurst(ev.X, ev.Y, config.BurstParticles, 30, 0.6, color)...)
		case game.EventNearMiss:
			s.Popups = append(s.Popups, object.NewPopup(ev.X, ev.Y-3, "close!", draw.ColorYellow, config.PopupSeconds))
		case game.EventHit:
			s.HitFlash = config.HitFlashDuration
			s.Popups = append(s.Popups, object.NewPopup(ev.X, ev.Y-3, fmt.Sprintf("%d", ev.Health), draw.ColorRed, config.PopupSeconds))
			s.Particles = append(s.Particles, object.SpawnBurst(ev.X, ev.Y, config.BurstParticles/2, 20, 0.4, draw.ColorRed)...)
		case game.EventBlocked:
			s.Popups = append(s.Popups, object.NewPopup(ev.X, ev.Y-3, "blocked", draw.ColorBrightCyan, config.PopupSeconds))
		case game.EventPowerUp:
			c.showBanner(powerUpBanner(ev.PowerUp), 1500*time.Millisecond)
		case game.EventPowerUpExpired:
			c.showBanner(ev.PowerUp.String()+" wore off", time.Second)
		case game.EventComboMilestone:
			c.showBanner(fmt.Sprintf("%d COMBO! +%d", ev.Combo, ev.Points), 2*time.Second)
		case game.EventLevelUp:
			c.showBanner(fmt.Sprintf("LEVEL %d  %s", ev.Level, game.LevelName(ev.Level)), 2*time.Second)
		case game.EventSeedBurst:
			s.Particles = append(s.Particles, object.SpawnSeeds(ev.X, ev.Y, config.SeedParticles)...)
		case game.EventQuiz, game.EventWon, game.EventLost:
			s.Banner = ""
		}
	}
}

func powerUpBanner(k object.PowerUpKind) string {
	switch k {
	case object.PowerUpShield:
		return "SHIELD UP"
	case object.PowerUpRapidFire:
		return "RAPID FIRE"
	case object.PowerUpSlowTime:
		return "SLOW TIME"
	case object.PowerUpClearBurst:
		return "CLEAR BURST!"
	}
	return ""
}

func (c *Client) showBanner(text string, d time.Duration) {
	c.state.Banner = text
	c.state.BannerFor = d
}

// updateEffects ages particles, popups and timed overlays. Effects freeze
// while a run is paused.
func (c *Client) updateEffects() {
	s := c.state
	if s.Game != nil && s.Game.Phase == game.PhasePaused {
		return
	}
	dt := min(s.delta, c.maxFrameDelta())
	ctx := object.UpdateContext{Delta: dt, Scale: float64(dt) / float64(time.Second/60)}
	s.Particles = object.UpdateAll(s.Particles, ctx)
	s.Popups = object.UpdateAll(s.Popups, ctx)

	if s.HitFlash > 0 {
		s.HitFlash = max(0, s.HitFlash-s.delta)
	}
	if s.BannerFor > 0 {
		s.BannerFor -= s.delta
		if s.BannerFor <= 0 {
			s.BannerFor = 0
			s.Banner = ""
		}
	}
}

// maxFrameDelta caps effect steps the same way the simulation caps its frames.
func (c *Client) maxFrameDelta() time.Duration {
	if c.tuning != nil {
		return c.tuning.MaxFrameDelta
	}
	return game.DefaultTuning().MaxFrameDelta
}
