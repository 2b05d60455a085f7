package domain

import "time"

// User is the demo login identity. Users are created on first login by
// email; they carry no credentials.
type User struct {
	ID        string
	Email     string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
