package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
	"wordduel/internal/store"
	"wordduel/internal/words"
)

// Scoring tables, indexed by round-1.
var (
	charPoints  = [model.MatchRounds]uint32{10, 15, 20}
	wordBonus   = [model.MatchRounds]uint32{30, 50, 80}
	wordPenalty = [model.MatchRounds]uint32{10, 15, 20}
)

// EndGame result codes on the wire.
const (
	EndResign     = 0 // caller resigns and loses
	EndCallerWon  = 1 // caller completed round 3 first
	EndCallerLost = 2 // caller acknowledges defeat, no award
	EndDraw       = 3 // accepted draw
)

// MatchService owns every live and recently ended match. The room id
// doubles as the match id. All mutation happens under one mutex;
// persistence runs strictly after the lock is released.
type MatchService struct {
	mu      sync.Mutex
	matches map[uint32]*model.Match
	rng     *rand.Rand

	corpus        *words.Corpus
	deterministic bool // test mode: always pick the first word per round

	auth    *AuthService
	users   store.UserStore
	history store.HistoryStore
}

// NewMatchService creates the match engine. With deterministic set, word
// selection always takes the first word of each round's list.
func NewMatchService(corpus *words.Corpus, auth *AuthService, userStore store.UserStore, historyStore store.HistoryStore, deterministic bool) *MatchService {
	return &MatchService{
		matches:       make(map[uint32]*model.Match),
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		corpus:        corpus,
		deterministic: deterministic,
		auth:          auth,
		users:         userStore,
		history:       historyStore,
	}
}

// StartMatch seeds a match for the room: one word per round, both players
// with fresh state, the host (players[0]) holding the first turn.
func (s *MatchService) StartMatch(roomID uint32, players [2]string) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, exists := s.matches[roomID]; exists && m.Active {
		return nil, fmt.Errorf("room %d already has an active match", roomID)
	}

	var matchWords [model.MatchRounds]string
	for round := 1; round <= model.MatchRounds; round++ {
		if s.deterministic {
			matchWords[round-1] = s.corpus.First(round)
		} else {
			matchWords[round-1] = s.corpus.Pick(round, s.rng)
		}
	}

	m := &model.Match{
		RoomID:   roomID,
		Round:    1,
		Words:    matchWords,
		Revealed: make(map[byte]struct{}),
		Players: map[string]*model.PlayerMatchState{
			players[0]: model.NewPlayerMatchState(),
			players[1]: model.NewPlayerMatchState(),
		},
		Seats:  players,
		Turn:   players[0],
		Active: true,
	}
	s.matches[roomID] = m

	slog.Info("match started", "match", roomID,
		"p1", players[0], "p2", players[1], "word_len", len(matchWords[0]))
	return s.snapshotLocked(m), nil
}

// GuessOutcome carries everything the dispatch layer needs to build the
// guesser's reply and the opponent's broadcast after a guess.
type GuessOutcome struct {
	Code    protocol.ResultCode
	Message string

	Correct     bool
	Pattern     string // shared pattern after the guess (and any transition)
	Remaining   uint8  // guesser's attempts, post-transition
	ScoreGained uint32 // magnitude of the score change
	TotalScore  uint32
	Round       uint8
	YourTurn    bool // for the guesser

	// RoundComplete is set when this guess advanced the round.
	RoundComplete bool
	// MatchOver is set when round 3 ended for the whole match.
	MatchOver bool

	// Opponent view, sent as a broadcast.
	Opponent     string
	OppRemaining uint8
	OppTotal     uint32
	OppYourTurn  bool
}

func failOutcome(code protocol.ResultCode, msg string) GuessOutcome {
	return GuessOutcome{Code: code, Message: msg}
}

// GuessChar applies one character guess.
func (s *MatchService) GuessChar(token string, roomID, matchID uint32, ch byte) GuessOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return failOutcome(protocol.RCAuthFail, "invalid session")
	}
	letter := upperByte(ch)
	if letter < 'A' || letter > 'Z' {
		return failOutcome(protocol.RCInvalid, "guess must be a letter")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ps, out := s.guessPreamble(sess.Username, roomID, matchID)
	if out != nil {
		return *out
	}

	// A revealed letter scores nothing for anyone; a player's own repeats
	// are tracked in their personal guessed set. Neither consumes a turn.
	if _, seen := m.Revealed[letter]; seen {
		return failOutcome(protocol.RCInvalid, "letter already revealed")
	}
	if _, seen := ps.Guessed[letter]; seen {
		return failOutcome(protocol.RCInvalid, "you already guessed that letter")
	}

	word := m.Word()
	occurrences := strings.Count(word, string(letter))
	var gained uint32
	correct := occurrences > 0
	if correct {
		m.Revealed[letter] = struct{}{}
		gained = charPoints[m.Round-1] * uint32(occurrences)
		ps.Score += gained
		ps.RoundScores[m.Round-1] += gained
	} else if ps.RemainingAttempts > 0 {
		ps.RemainingAttempts--
	}
	ps.Guessed[letter] = struct{}{}

	transitioned := s.advanceLocked(m, sess.Username, ps, correct && m.WordComplete())
	if !transitioned {
		m.Turn = m.OpponentOf(sess.Username)
	}

	return s.buildOutcomeLocked(m, sess.Username, ps, correct, gained, transitioned)
}

// GuessWord applies one whole-word guess, compared case-insensitively.
func (s *MatchService) GuessWord(token string, roomID, matchID uint32, guess string) GuessOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return failOutcome(protocol.RCAuthFail, "invalid session")
	}
	if guess == "" {
		return failOutcome(protocol.RCInvalid, "empty word guess")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ps, out := s.guessPreamble(sess.Username, roomID, matchID)
	if out != nil {
		return *out
	}

	round := m.Round
	correct := strings.EqualFold(guess, m.Word())
	var gained uint32
	if correct {
		gained = wordBonus[round-1]
		ps.Score += gained
		ps.RoundScores[round-1] += gained
	} else {
		gained = wordPenalty[round-1]
		if ps.Score < gained {
			ps.Score = 0
		} else {
			ps.Score -= gained
		}
		if ps.RoundScores[round-1] < wordPenalty[round-1] {
			ps.RoundScores[round-1] = 0
		} else {
			ps.RoundScores[round-1] -= wordPenalty[round-1]
		}
		if ps.RemainingAttempts > 0 {
			ps.RemainingAttempts--
		}
	}

	transitioned := s.advanceLocked(m, sess.Username, ps, correct)
	if !transitioned {
		m.Turn = m.OpponentOf(sess.Username)
	}

	result := s.buildOutcomeLocked(m, sess.Username, ps, correct, gained, transitioned)
	switch {
	case result.MatchOver && ps.Won:
		result.Message = "correct, all rounds complete"
	case correct:
		result.Message = "correct word"
	default:
		result.Message = "wrong word"
	}
	return result
}

// guessPreamble runs the shared pre-checks. Caller holds s.mu.
func (s *MatchService) guessPreamble(username string, roomID, matchID uint32) (*model.Match, *model.PlayerMatchState, *GuessOutcome) {
	m, ok := s.matches[matchID]
	if !ok || m.RoomID != roomID {
		out := failOutcome(protocol.RCNotFound, "no such match")
		return nil, nil, &out
	}
	if !m.Active {
		out := failOutcome(protocol.RCFail, "match is over")
		return nil, nil, &out
	}
	ps, in := m.Players[username]
	if !in {
		out := failOutcome(protocol.RCFail, "not a player in this match")
		return nil, nil, &out
	}
	if ps.Finished {
		out := failOutcome(protocol.RCFail, "you have already finished")
		return nil, nil, &out
	}
	if m.Turn != username {
		out := failOutcome(protocol.RCFail, "not your turn")
		return nil, nil, &out
	}
	return m, ps, nil
}

// advanceLocked applies the round-transition rule after a guess.
// conditionA is a completed word (all letters revealed, or a correct word
// guess). Condition B is the guesser running out of attempts. A transition
// below round 3 resets both players and keeps the turn with the guesser; at
// round 3 the guesser's match is over. Returns whether a transition (or a
// round-3 terminal) happened, in which case the caller must not switch turn.
func (s *MatchService) advanceLocked(m *model.Match, username string, ps *model.PlayerMatchState, conditionA bool) bool {
	conditionB := ps.RemainingAttempts == 0
	if !conditionA && !conditionB {
		return false
	}

	if m.Round < model.MatchRounds {
		m.Round++
		m.Revealed = make(map[byte]struct{})
		for _, p := range m.Players {
			p.ResetForRound()
		}
		slog.Debug("round advanced", "match", m.RoomID, "round", m.Round, "by", username)
		return true
	}

	// Round 3 terminal.
	ps.Finished = true
	ps.Won = conditionA
	if conditionA {
		// Word is done; nothing left for the opponent to guess.
		s.endLocked(m)
	} else {
		opp := m.Players[m.OpponentOf(username)]
		if opp == nil || opp.Finished {
			s.endLocked(m)
		} else {
			// Guesser is out; the opponent plays round 3 to the end.
			m.Turn = m.OpponentOf(username)
		}
	}
	return true
}

func (s *MatchService) endLocked(m *model.Match) {
	m.Active = false
	m.EndedAt = time.Now()
	slog.Info("match ended", "match", m.RoomID)
}

// buildOutcomeLocked snapshots the reply and the opponent view.
func (s *MatchService) buildOutcomeLocked(m *model.Match, username string, ps *model.PlayerMatchState, correct bool, gained uint32, transitioned bool) GuessOutcome {
	opponent := m.OpponentOf(username)
	opp := m.Players[opponent]

	out := GuessOutcome{
		Code:          protocol.RCOK,
		Correct:       correct,
		Pattern:       m.Pattern(),
		Remaining:     uint8(ps.RemainingAttempts),
		ScoreGained:   gained,
		TotalScore:    ps.Score,
		Round:         uint8(m.Round),
		YourTurn:      m.Active && m.Turn == username,
		RoundComplete: transitioned && m.Active,
		MatchOver:     !m.Active,
		Opponent:      opponent,
	}
	if opp != nil {
		out.OppRemaining = uint8(opp.RemainingAttempts)
		out.OppTotal = opp.Score
		out.OppYourTurn = m.Active && m.Turn == opponent
	}
	return out
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// DrawOutcome carries the opponent to notify about a draw offer.
type DrawOutcome struct {
	Code     protocol.ResultCode
	Message  string
	Opponent string
	MatchID  uint32
	From     string
}

// RequestDraw forwards a draw offer to the opponent. Acceptance arrives as
// an EndGame with the draw result code; a decline is never signaled.
func (s *MatchService) RequestDraw(token string, roomID, matchID uint32) DrawOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return DrawOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.matches[matchID]
	if !exists || m.RoomID != roomID {
		return DrawOutcome{Code: protocol.RCNotFound, Message: "no such match"}
	}
	if !m.Active {
		return DrawOutcome{Code: protocol.RCFail, Message: "match is over"}
	}
	if _, in := m.Players[sess.Username]; !in {
		return DrawOutcome{Code: protocol.RCFail, Message: "not a player in this match"}
	}

	return DrawOutcome{
		Code:     protocol.RCOK,
		Message:  "draw offered",
		Opponent: m.OpponentOf(sess.Username),
		MatchID:  matchID,
		From:     sess.Username,
	}
}

// EndOutcome describes a finished match: who to notify and what was
// persisted.
type EndOutcome struct {
	Code       protocol.ResultCode
	Message    string
	MatchID    uint32
	ResultCode uint8
	Summary    string
	Caller     string
	Opponent   string
}

// EndGame finalizes the match: marks it ended, persists history rows for
// both players and applies win/point awards. The first EndGame wins; later
// calls on the same match fail.
func (s *MatchService) EndGame(ctx context.Context, token string, roomID, matchID uint32, resultCode uint8) EndOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return EndOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}
	if resultCode > EndDraw {
		return EndOutcome{Code: protocol.RCInvalid, Message: "unknown result code"}
	}

	s.mu.Lock()
	m, exists := s.matches[matchID]
	if !exists || m.RoomID != roomID {
		s.mu.Unlock()
		return EndOutcome{Code: protocol.RCNotFound, Message: "no such match"}
	}
	if _, in := m.Players[sess.Username]; !in {
		s.mu.Unlock()
		return EndOutcome{Code: protocol.RCFail, Message: "not a player in this match"}
	}
	if !m.Active {
		s.mu.Unlock()
		return EndOutcome{Code: protocol.RCFail, Message: "match already ended"}
	}

	outcome := s.finalizeLocked(m, sess.Username, resultCode)
	s.mu.Unlock()

	s.persist(ctx, outcome)
	return outcome.EndOutcome
}

// Forfeit ends the active match of username as a resignation, typically on
// disconnect. Returns false if the user has no active match.
func (s *MatchService) Forfeit(ctx context.Context, username string) (EndOutcome, bool) {
	s.mu.Lock()
	var m *model.Match
	for _, candidate := range s.matches {
		if !candidate.Active {
			continue
		}
		if _, in := candidate.Players[username]; in {
			m = candidate
			break
		}
	}
	if m == nil {
		s.mu.Unlock()
		return EndOutcome{}, false
	}
	outcome := s.finalizeLocked(m, username, EndResign)
	s.mu.Unlock()

	s.persist(ctx, outcome)
	return outcome.EndOutcome, true
}

// matchResult is the persistence snapshot taken under the lock.
type matchResult struct {
	EndOutcome
	when    time.Time
	players [2]resultRow
}

type resultRow struct {
	username    string
	opponent    string
	result      string
	roundScores [3]uint32
	winDelta    uint32
	pointDelta  uint32
}

// finalizeLocked marks the match ended and computes per-player results and
// awards. Caller holds s.mu; persistence happens afterwards, unlocked.
func (s *MatchService) finalizeLocked(m *model.Match, caller string, resultCode uint8) matchResult {
	opponent := m.OpponentOf(caller)
	callerState := m.Players[caller]
	oppState := m.Players[opponent]

	var callerRes, oppRes string
	switch resultCode {
	case EndResign, EndCallerLost:
		callerRes, oppRes = model.HistoryLose, model.HistoryWin
		if oppState != nil {
			oppState.Won = true
		}
	case EndCallerWon:
		callerRes, oppRes = model.HistoryWin, model.HistoryLose
		callerState.Won = true
	case EndDraw:
		callerRes, oppRes = model.HistoryDraw, model.HistoryDraw
	}

	s.endLocked(m)

	res := matchResult{
		EndOutcome: EndOutcome{
			Code:       protocol.RCOK,
			Message:    "game over",
			MatchID:    m.RoomID,
			ResultCode: resultCode,
			Summary:    "Game Over",
			Caller:     caller,
			Opponent:   opponent,
		},
		when: m.EndedAt,
	}

	res.players[0] = resultRow{
		username: caller, opponent: opponent, result: callerRes,
		roundScores: callerState.RoundScores,
	}
	res.players[1] = resultRow{
		username: opponent, opponent: caller, result: oppRes,
		roundScores: [3]uint32{},
	}
	if oppState != nil {
		res.players[1].roundScores = oppState.RoundScores
	}

	// Awards: resignation pays the opponent, a declared win pays the caller,
	// an accepted draw pays one point to each. A declared loss pays nobody.
	switch resultCode {
	case EndResign:
		res.players[1].winDelta = 1
		res.players[1].pointDelta = 10
	case EndCallerWon:
		res.players[0].winDelta = 1
		res.players[0].pointDelta = 10
	case EndDraw:
		res.players[0].pointDelta = 1
		res.players[1].pointDelta = 1
	}
	return res
}

// persist writes history rows and stat updates. Failures are logged and
// swallowed: the game outcome already lives in memory and in the reply.
func (s *MatchService) persist(ctx context.Context, res matchResult) {
	for _, row := range res.players {
		if row.username == "" {
			continue
		}
		rec := model.HistoryRecord{
			When:        res.when,
			Opponent:    row.opponent,
			Result:      row.result,
			RoundScores: row.roundScores,
		}
		if err := s.history.Append(ctx, row.username, rec); err != nil {
			slog.Error("writing history row failed", "user", row.username, "error", err)
		}

		if row.winDelta == 0 && row.pointDelta == 0 {
			continue
		}
		wins, points, ok := s.auth.ApplyMatchResult(row.username, row.winDelta, row.pointDelta)
		if !ok {
			slog.Warn("match award for unknown user", "user", row.username)
			continue
		}
		if err := s.users.UpdateStats(ctx, row.username, wins, points); err != nil {
			slog.Error("persisting stats failed", "user", row.username, "error", err)
		}
	}
}

// SummaryOutcome is the full-match scoreboard.
type SummaryOutcome struct {
	Code    protocol.ResultCode
	Message string
	MatchID uint32
	Players [2]string
	Rounds  [2][3]uint32
	Totals  [2]uint32
	Winner  string // empty for a draw or an undecided match
}

// Summary derives the scoreboard from the match state. Works on ended
// matches too; it never tears the match down.
func (s *MatchService) Summary(token string, matchID uint32) SummaryOutcome {
	if _, ok := s.auth.Session(token); !ok {
		return SummaryOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.matches[matchID]
	if !exists {
		return SummaryOutcome{Code: protocol.RCNotFound, Message: "no such match"}
	}

	out := SummaryOutcome{
		Code:    protocol.RCOK,
		MatchID: matchID,
		Players: m.Seats,
	}
	for i, name := range m.Seats {
		if ps := m.Players[name]; ps != nil {
			out.Rounds[i] = ps.RoundScores
			out.Totals[i] = ps.Score
			if ps.Won {
				out.Winner = name
			}
		}
	}
	return out
}

// Match returns a snapshot of the match with the given id.
func (s *MatchService) Match(matchID uint32) (*model.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, false
	}
	return s.snapshotLocked(m), true
}

// SweepEnded drops ended matches older than maxAge so summaries stay
// available for a while without the map growing forever.
func (s *MatchService) SweepEnded(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, m := range s.matches {
		if !m.Active && m.EndedAt.Before(cutoff) {
			delete(s.matches, id)
			removed++
		}
	}
	return removed
}

func (s *MatchService) snapshotLocked(m *model.Match) *model.Match {
	cp := *m
	cp.Revealed = make(map[byte]struct{}, len(m.Revealed))
	for k := range m.Revealed {
		cp.Revealed[k] = struct{}{}
	}
	cp.Players = make(map[string]*model.PlayerMatchState, len(m.Players))
	for name, ps := range m.Players {
		pc := *ps
		pc.Guessed = make(map[byte]struct{}, len(ps.Guessed))
		for k := range ps.Guessed {
			pc.Guessed[k] = struct{}{}
		}
		cp.Players[name] = &pc
	}
	return &cp
}
