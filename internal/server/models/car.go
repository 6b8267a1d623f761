package models

import "time"

// MaxCarImages caps the images list on a car record.
const MaxCarImages = 10

// Car is a car record owned by exactly one user. UserID is immutable
// after creation. Tags and Images are ordered; duplicates in Tags are
// allowed. len(Images) <= MaxCarImages always.
type Car struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Tags        []string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
