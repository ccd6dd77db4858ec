// Package config centralizes the loop, render and hub parameters.
// Gameplay constants live in game.Tuning.
package config

import "time"

// Play field size on screen. The logical field is 100x100 and is scaled to
// fit inside these bounds (rows hold two sub-pixels each).
const (
	MaxFieldCols  = 72
	MaxFieldRows  = 36
	MinTermWidth  = 40 // Below this the client shows a resize prompt
	MinTermHeight = 20
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	DefaultUsername   = "keeper"
)

// Intro
const (
	IntroLineInterval = 1200 * time.Millisecond // Delay between story lines
)

// Effects
const (
	PopupSeconds     = 0.9
	BurstParticles   = 10
	SeedParticles    = 24
	HitFlashDuration = 300 * time.Millisecond
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Hub
const (
	HubTickRate     = 20
	HubTickTime     = time.Second / HubTickRate
	LeaderboardSize = 10
	SubmitBuffer    = 64
	SaveTimeout     = 5 * time.Second
)
