package model

import (
	"strings"
	"time"
)

// Rounds per match.
const MatchRounds = 3

// InitialAttempts is the per-round attempt budget of each player.
const InitialAttempts = 6

// PlayerMatchState is the per-player record inside a match.
type PlayerMatchState struct {
	Guessed           map[byte]struct{} // letters this player guessed personally
	RemainingAttempts int
	Score             uint32
	RoundScores       [MatchRounds]uint32
	Finished          bool
	Won               bool
}

// NewPlayerMatchState returns a fresh per-player record for round 1.
func NewPlayerMatchState() *PlayerMatchState {
	return &PlayerMatchState{
		Guessed:           make(map[byte]struct{}),
		RemainingAttempts: InitialAttempts,
	}
}

// ResetForRound clears the per-round portion of the record.
func (p *PlayerMatchState) ResetForRound() {
	p.Guessed = make(map[byte]struct{})
	p.RemainingAttempts = InitialAttempts
	p.Finished = false
}

// Match is the three-round game state bound to one room. The room id doubles
// as the match id.
type Match struct {
	RoomID   uint32
	Round    int // 1..3
	Words    [MatchRounds]string
	Revealed map[byte]struct{} // letters exposed in the current round, shared
	Players  map[string]*PlayerMatchState
	Seats    [2]string // player order at start; Seats[0] is the host
	Turn     string    // username holding the turn
	Active   bool
	EndedAt  time.Time // zero while the match is active
}

// Word returns the current round's word.
func (m *Match) Word() string {
	return m.Words[m.Round-1]
}

// Pattern renders the current word with revealed letters exposed and
// underscores elsewhere, one space between symbols.
func (m *Match) Pattern() string {
	word := m.Word()
	var b strings.Builder
	b.Grow(len(word) * 2)
	for i := 0; i < len(word); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if _, ok := m.Revealed[word[i]]; ok {
			b.WriteByte(word[i])
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// WordComplete reports whether every letter of the current word is revealed.
func (m *Match) WordComplete() bool {
	for i := 0; i < len(m.Word()); i++ {
		if _, ok := m.Revealed[m.Word()[i]]; !ok {
			return false
		}
	}
	return true
}

// OpponentOf returns the other player's username, or empty if unknown.
func (m *Match) OpponentOf(username string) string {
	for name := range m.Players {
		if name != username {
			return name
		}
	}
	return ""
}
