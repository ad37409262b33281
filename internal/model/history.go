package model

import "time"

// Match results as persisted in history rows.
const (
	HistoryWin  = "win"
	HistoryLose = "lose"
	HistoryDraw = "draw"
)

// HistoryRecord is one finished match from one player's point of view.
type HistoryRecord struct {
	When        time.Time
	Opponent    string
	Result      string // win, lose or draw
	RoundScores [3]uint32
}
