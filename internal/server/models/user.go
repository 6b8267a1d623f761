// Package models holds the persistence-level types shared by the
// repositories and services.
package models

import "time"

// User is an account identity. Password holds only the bcrypt digest.
// Cars is an ordered list of owned car ids; it is an informational
// back-reference, not a lifetime owner. Token is the last issued session
// token and is advisory only: it does not invalidate earlier tokens.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Cars      []string
	Token     string
	CreatedAt time.Time
}
