package game

import (
	"context"
	"log/slog"
	"sort"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
	"wordduel/internal/store"
)

// LeaderboardLimit caps the leaderboard reply size.
const LeaderboardLimit = 50

// SummaryService answers history and leaderboard queries. Reads go to the
// history store and the auth service's user cache; nothing here mutates
// game state.
type SummaryService struct {
	auth    *AuthService
	history store.HistoryStore
}

// NewSummaryService wires the read-only summary queries.
func NewSummaryService(auth *AuthService, historyStore store.HistoryStore) *SummaryService {
	return &SummaryService{auth: auth, history: historyStore}
}

// History returns the caller's match history, newest first.
func (s *SummaryService) History(ctx context.Context, token string) (protocol.ResultCode, []model.HistoryRecord) {
	sess, ok := s.auth.Session(token)
	if !ok {
		return protocol.RCAuthFail, nil
	}

	records, err := s.history.List(ctx, sess.Username)
	if err != nil {
		slog.Error("loading history failed", "user", sess.Username, "error", err)
		return protocol.RCServerError, nil
	}
	// Stores keep rows oldest first; clients want the latest on top.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return protocol.RCOK, records
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank        uint16
	Username    string
	Wins        uint32
	TotalPoints uint32
}

// Leaderboard ranks all known users by wins, then total points, then name.
func (s *SummaryService) Leaderboard(token string) (protocol.ResultCode, []LeaderboardEntry) {
	if _, ok := s.auth.Session(token); !ok {
		return protocol.RCAuthFail, nil
	}

	users := s.auth.Users()
	sort.Slice(users, func(i, j int) bool {
		if users[i].Wins != users[j].Wins {
			return users[i].Wins > users[j].Wins
		}
		if users[i].TotalPoints != users[j].TotalPoints {
			return users[i].TotalPoints > users[j].TotalPoints
		}
		return users[i].Username < users[j].Username
	})
	if len(users) > LeaderboardLimit {
		users = users[:LeaderboardLimit]
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:        uint16(i + 1),
			Username:    u.Username,
			Wins:        u.Wins,
			TotalPoints: u.TotalPoints,
		}
	}
	return protocol.RCOK, entries
}
