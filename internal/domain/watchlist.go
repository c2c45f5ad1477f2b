package domain

import "time"

// WatchlistItem is a trackable movie or show with its aggregate rating.
// AvgRating and NumberRatings are maintained by ApplyRating only.
type WatchlistItem struct {
	ID              int64
	Title           string
	Description     string
	StoragePlatform *int64
	Active          bool
	AvgRating       float64
	NumberRatings   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
