package game

import "github.com/tomz197/earthkeeper/internal/object"

// EventKind identifies an output signal of a frame.
type EventKind int

const (
	EventCollected EventKind = iota
	EventNearMiss
	EventMissed
	EventHit
	EventBlocked
	EventDestroyed
	EventPowerUp
	EventPowerUpExpired
	EventComboMilestone
	EventComboLost
	EventLevelUp
	EventSeedBurst
	EventQuiz
	EventQuizPassed
	EventQuizFailed
	EventLost
	EventWon
)

var eventNames = [...]string{
	EventCollected:      "collected",
	EventNearMiss:       "near-miss",
	EventMissed:         "missed",
	EventHit:            "hit",
	EventBlocked:        "blocked",
	EventDestroyed:      "destroyed",
	EventPowerUp:        "power-up",
	EventPowerUpExpired: "power-up-expired",
	EventComboMilestone: "combo-milestone",
	EventComboLost:      "combo-lost",
	EventLevelUp:        "level-up",
	EventSeedBurst:      "seed-burst",
	EventQuiz:           "quiz",
	EventQuizPassed:     "quiz-passed",
	EventQuizFailed:     "quiz-failed",
	EventLost:           "lost",
	EventWon:            "won",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is a transient signal for the presentation layer. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind     EventKind
	X, Y     float64
	Points   int
	Health   int // Health delta, negative for damage
	Hazard   bool
	Category object.Category
	PowerUp  object.PowerUpKind
	Combo    int
	Level    int
}
