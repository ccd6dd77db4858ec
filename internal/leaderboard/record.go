// Package leaderboard stores finished runs and serves the ranking.
package leaderboard

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tomz197/earthkeeper/internal/game"
)

// MaxNicknameLength is the longest nickname kept, in runes.
const MaxNicknameLength = 16

// ErrInvalidRecord is returned by Validate and by stores given a bad record.
var ErrInvalidRecord = errors.New("invalid record")

// Record is one finished run.
type Record struct {
	ID         string    `json:"id" yaml:"id"`
	Nickname   string    `json:"nickname" yaml:"nickname"`
	Score      int       `json:"score" yaml:"score"`
	Level      int       `json:"level" yaml:"level"`
	LevelName  string    `json:"levelName" yaml:"level_name"`
	Difficulty string    `json:"difficulty" yaml:"difficulty"`
	MaxCombo   int       `json:"maxCombo" yaml:"max_combo"`
	Collected  int       `json:"collected" yaml:"collected"`
	Destroyed  int       `json:"destroyed" yaml:"destroyed"`
	Time       int       `json:"time" yaml:"time"` // Seconds played
	Won        bool      `json:"won" yaml:"won"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
}

// NewRecord converts a run result into a record with a fresh ID and timestamp.
func NewRecord(r game.Result) Record {
	return Record{
		ID:         uuid.NewString(),
		Nickname:   r.Nickname,
		Score:      r.Score,
		Level:      r.Level,
		LevelName:  r.LevelName,
		Difficulty: string(r.Difficulty),
		MaxCombo:   r.MaxCombo,
		Collected:  r.Collected,
		Destroyed:  r.Destroyed,
		Time:       int(r.Time / time.Second),
		Won:        r.Won,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate normalizes the record in place and rejects unusable ones.
// Nicknames are trimmed and cut to MaxNicknameLength runes.
func (r *Record) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("%w: id: %v", ErrInvalidRecord, err)
	}
	r.Nickname = strings.TrimSpace(r.Nickname)
	if r.Nickname == "" {
		return fmt.Errorf("%w: empty nickname", ErrInvalidRecord)
	}
	if utf8.RuneCountInString(r.Nickname) > MaxNicknameLength {
		r.Nickname = string([]rune(r.Nickname)[:MaxNicknameLength])
	}
	if r.Score < 0 || r.Level < 1 || r.MaxCombo < 0 || r.Collected < 0 || r.Destroyed < 0 || r.Time < 0 {
		return fmt.Errorf("%w: negative counters", ErrInvalidRecord)
	}
	if _, err := game.ParseDifficulty(r.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

// compareRank orders records by score descending, then oldest first.
func compareRank(a, b Record) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
