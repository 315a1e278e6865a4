package entities

import "time"

// User represents a registered account in the database
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"` // Email address
	PasswordHash string     `json:"-"`        // Don't expose password hash in JSON
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Confirmed    bool       `json:"confirmed"`
	ConfirmedOn  *time.Time `json:"confirmed_on,omitempty"` // Nil until the email link is followed
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
