package client

import (
	"time"

	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/input"
	"github.com/tomz197/earthkeeper/internal/object"
)

// Screen is the client's current page.
type Screen int

const (
	ScreenIntro    Screen = iota // Story crawl
	ScreenMenu                   // Difficulty select and leaderboard
	ScreenPlaying                // A run, including pause and quiz overlays
	ScreenOver                   // Run finished, show result
	ScreenShutdown               // Server is shutting down
)

// SaveStatus tracks the hub's answer for the last finished run.
type SaveStatus int

const (
	SaveNone SaveStatus = iota
	SavePending
	SaveDone
	SaveFailed
)

// ClientState holds per-player state (input, run, effects).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input      input.Input
	Screen     Screen
	Difficulty int         // Index into game.Difficulties on the menu
	Game       *game.State // Current run, nil outside ScreenPlaying/ScreenOver
	Result     game.Result // Last finished run
	Save       SaveStatus
	Rank       int // Leaderboard position of the last saved run, 0 if outside
	Running    bool

	// Effects spawned from game events.
	Particles []*object.Particle
	Popups    []*object.Popup
	HitFlash  time.Duration // Red border flash after damage
	Banner    string        // Centered message, e.g. level-up or quiz outcome
	BannerFor time.Duration

	introStart    time.Time
	introSkipped  bool
	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	tooSmall      bool          // Terminal is below the minimum size
	lastStatus    time.Time     // Last status report to the hub

	// Previous frame's screen and overlay state, for full clears on transitions
	prevScreen  Screen
	prevPhase   game.Phase
	wasInactive bool
	wasTooSmall bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenIntro,
		Difficulty: 1,
		Running:    true,
		introStart: time.Now(),
		prevScreen: -1,
	}
}

// selectedDifficulty returns the difficulty highlighted on the menu.
func (s *ClientState) selectedDifficulty() game.Difficulty {
	return game.Difficulties[s.Difficulty]
}

// clearEffects drops all particles and popups, returning pooled ones.
func (s *ClientState) clearEffects() {
	for _, p := range s.Particles {
		p.Release()
	}
	s.Particles = s.Particles[:0]
	s.Popups = s.Popups[:0]
	s.HitFlash = 0
	s.Banner = ""
	s.BannerFor = 0
}
