// Package leaderboard keeps the public high score table.
package leaderboard

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxNameLen      = 20
	MaxScore        = 999999
	MaxTimeSurvived = 36000
	MaxChildren     = 99999
	MaxCoinsEarned  = 999999
	DefaultTopLimit = 10
	MaxTopLimit     = 100
)

var (
	ErrNameRequired = errors.New("player name is required")
	ErrNameTooLong  = errors.New("player name is too long")
	ErrOutOfRange   = errors.New("out of valid range")
)

// Score is one leaderboard entry.
type Score struct {
	ID             string `json:"id"`
	PlayerName     string `json:"playerName"`
	Score          int    `json:"score"`
	TimeSurvived   int    `json:"timeSurvived"`
	ChildrenHelped int    `json:"childrenHelped"`
	CoinsEarned    int    `json:"coinsEarned"`
	CreatedAt      string `json:"createdAt"`
}

// Submission is the client payload for a finished run.
type Submission struct {
	PlayerName     string `json:"playerName"`
	Score          int    `json:"score"`
	TimeSurvived   int    `json:"timeSurvived"`
	ChildrenHelped int    `json:"childrenHelped"`
	CoinsEarned    int    `json:"coinsEarned"`
}

var (
	bracketStripper = strings.NewReplacer("<", "", ">", "")
	nameEscaper     = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"'", "&#x27;",
	)
)

// SanitizeName normalizes to NFC, strips angle brackets, truncates to
// MaxNameLen runes and then escapes quotes and ampersands, so an entity is
// never cut in half.
func SanitizeName(name string) string {
	s := strings.TrimSpace(bracketStripper.Replace(norm.NFC.String(name)))
	if utf8.RuneCountInString(s) > MaxNameLen {
		s = strings.TrimSpace(string([]rune(s)[:MaxNameLen]))
	}
	return nameEscaper.Replace(s)
}

func checkRange(field string, v, hi int) error {
	if v < 0 || v > hi {
		return fmt.Errorf("%s %w", field, ErrOutOfRange)
	}
	return nil
}

// Validate checks the raw submission and returns it with a sanitized name.
func (s Submission) Validate() (Submission, error) {
	if utf8.RuneCountInString(s.PlayerName) > MaxNameLen {
		return s, ErrNameTooLong
	}
	checks := []struct {
		field string
		v, hi int
	}{
		{"score", s.Score, MaxScore},
		{"time survived", s.TimeSurvived, MaxTimeSurvived},
		{"children helped", s.ChildrenHelped, MaxChildren},
		{"coins earned", s.CoinsEarned, MaxCoinsEarned},
	}
	for _, c := range checks {
		if err := checkRange(c.field, c.v, c.hi); err != nil {
			return s, err
		}
	}
	s.PlayerName = SanitizeName(s.PlayerName)
	if s.PlayerName == "" {
		return s, ErrNameRequired
	}
	return s, nil
}

// ClampLimit applies the default and the ceiling to a requested top size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return min(limit, MaxTopLimit)
}
