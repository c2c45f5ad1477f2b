package domain

import "time"

// Platform is a streaming service that hosts watchlist items.
type Platform struct {
	ID          int64
	Name        string
	Description string
	Website     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
