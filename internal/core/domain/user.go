package domain

import "time"

// User is a library member. Login is the identity presented at sign-in and
// carried in issued tokens.
type User struct {
	ID           int64
	Name         string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
