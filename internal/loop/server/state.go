package server

import (
	"cmp"
	"slices"
	"time"

	"github.com/tomz197/earthkeeper/internal/leaderboard"
)

// LiveEntry is a connected player as seen by the others.
type LiveEntry struct {
	Username string
	Score    int
	Level    int
	Playing  bool
	clientID int // Used for deterministic tie-break when scores are equal
}

// Snapshot is an immutable view of the hub for rendering.
type Snapshot struct {
	TopScores []leaderboard.Record // Best saved runs, best first
	Live      []LiveEntry          // Connected players, highest live score first
	Players   int
	UpdatedAt time.Time
}

// PlayingCount returns how many connected players are in a run.
func (s *Snapshot) PlayingCount() int {
	n := 0
	for _, e := range s.Live {
		if e.Playing {
			n++
		}
	}
	return n
}

// sortLive orders entries by score, then by registration order.
func sortLive(entries []LiveEntry) {
	slices.SortFunc(entries, func(a, b LiveEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.clientID, b.clientID)
	})
}
