package model

import "time"

// Session represents a logged-in user. Owned by the auth service; looked up
// by token, by username and by connection id.
type Session struct {
	Token       string
	Username    string
	Wins        uint32
	TotalPoints uint32
	CreatedAt   time.Time
	Conn        ConnID
}
