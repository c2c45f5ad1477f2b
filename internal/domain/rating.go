package domain

// ApplyRating folds a new review rating into the item's aggregate.
//
// The first rating becomes the average outright. Every later rating is
// averaged pairwise with the previous average, so recent ratings weigh more
// than a true running mean would give them.
func ApplyRating(item *WatchlistItem, rating int) {
	if item.NumberRatings == 0 {
		item.AvgRating = float64(rating)
	} else {
		item.AvgRating = (item.AvgRating + float64(rating)) / 2
	}
	item.NumberRatings++
}
