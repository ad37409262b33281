package model

// User is the persistent account record.
type User struct {
	Username     string
	PasswordHash string
	Wins         uint32
	TotalPoints  uint32
}
