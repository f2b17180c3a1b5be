package domain

import "time"

// User represents an account allowed to publish entries. Accounts are
// provisioned outside the application; this system only reads them.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
