package domain

import "time"

// User represents a rider in the system.
type User struct {
	ID    string
	Name  string
	Phone string

	// UniqueOTP is the user's standing 4-digit ride-completion credential.
	// It is regenerated only by admin action, not per ride.
	UniqueOTP string

	CreatedAt time.Time
}
