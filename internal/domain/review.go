package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of a watchlist item.
// WatchlistID and ReviewUser never change after creation.
type Review struct {
	ID          int64
	WatchlistID int64
	ReviewUser  uuid.UUID
	Rating      int
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
