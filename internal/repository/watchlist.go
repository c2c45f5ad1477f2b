package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

const watchlistTable = "watchlist"

var watchlistColumns = []string{
	"id",
	"title",
	"description",
	"storage_platform",
	"active",
	"avg_rating",
	"number_ratings",
	"created_at",
	"updated_at",
}

// WatchlistRepository provides persistence helpers for watchlist items.
type WatchlistRepository struct {
	db DB
}

// List returns all watchlist items ordered by id.
func (r *WatchlistRepository) List(ctx context.Context) ([]domain.WatchlistItem, error) {
	q := psql.Select(watchlistColumns...).From(watchlistTable).OrderBy("id")
	items, err := queryAll(ctx, r.db, q, scanWatchlistItem)
	if err != nil {
		return nil, wrapf(err, "list watchlist")
	}
	return items, nil
}

// ListByPlatforms returns the items hosted on any of the given platforms.
func (r *WatchlistRepository) ListByPlatforms(ctx context.Context, platformIDs []int64) ([]domain.WatchlistItem, error) {
	if len(platformIDs) == 0 {
		return []domain.WatchlistItem{}, nil
	}
	q := psql.Select(watchlistColumns...).
		From(watchlistTable).
		Where(squirrel.Eq{"storage_platform": platformIDs}).
		OrderBy("id")
	items, err := queryAll(ctx, r.db, q, scanWatchlistItem)
	if err != nil {
		return nil, wrapf(err, "list watchlist by platform")
	}
	return items, nil
}

// GetByID fetches a watchlist item by its identifier.
func (r *WatchlistRepository) GetByID(ctx context.Context, id int64) (domain.WatchlistItem, error) {
	return getWatchlistItem(ctx, r.db, id, false)
}

// Create inserts a new item. The aggregate rating always starts at zero.
func (r *WatchlistRepository) Create(ctx context.Context, item domain.WatchlistItem) (domain.WatchlistItem, error) {
	q := psql.Insert(watchlistTable).
		Columns("title", "description", "storage_platform", "active").
		Values(item.Title, item.Description, item.StoragePlatform, item.Active).
		Suffix(returning(watchlistColumns))

	row, err := queryRow(ctx, r.db, q)
	if err != nil {
		return domain.WatchlistItem{}, err
	}
	created, err := scanWatchlistItem(row)
	if err != nil {
		return domain.WatchlistItem{}, mapWatchlistWriteError(err, item)
	}
	return created, nil
}

// Update replaces the client-editable fields of item.ID. The aggregate
// rating columns are left untouched.
func (r *WatchlistRepository) Update(ctx context.Context, item domain.WatchlistItem) (domain.WatchlistItem, error) {
	q := psql.Update(watchlistTable).
		Set("title", item.Title).
		Set("description", item.Description).
		Set("storage_platform", item.StoragePlatform).
		Set("active", item.Active).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix(returning(watchlistColumns))

	row, err := queryRow(ctx, r.db, q)
	if err != nil {
		return domain.WatchlistItem{}, err
	}
	updated, err := scanWatchlistItem(row)
	if err != nil {
		return domain.WatchlistItem{}, mapWatchlistWriteError(err, item)
	}
	return updated, nil
}

// Delete removes an item together with its reviews.
func (r *WatchlistRepository) Delete(ctx context.Context, id int64) error {
	tag, err := exec(ctx, r.db, psql.Delete(watchlistTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return mapError(err, "watchlist item", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "watchlist item", id)
	}
	return nil
}

func getWatchlistItem(ctx context.Context, q Querier, id int64, forUpdate bool) (domain.WatchlistItem, error) {
	b := psql.Select(watchlistColumns...).From(watchlistTable).Where(squirrel.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return domain.WatchlistItem{}, err
	}
	item, err := scanWatchlistItem(row)
	if err != nil {
		return domain.WatchlistItem{}, mapError(err, "watchlist item", id)
	}
	return item, nil
}

func saveAggregate(ctx context.Context, q Querier, item domain.WatchlistItem) error {
	tag, err := exec(ctx, q, psql.Update(watchlistTable).
		Set("avg_rating", item.AvgRating).
		Set("number_ratings", item.NumberRatings).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": item.ID}))
	if err != nil {
		return mapError(err, "watchlist item", item.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "watchlist item", item.ID)
	}
	return nil
}

// mapWatchlistWriteError reports an unknown storage platform as a field error.
func mapWatchlistWriteError(err error, item domain.WatchlistItem) error {
	if isPgCode(err, pgForeignKeyViolation) && item.StoragePlatform != nil {
		return domain.NewValidationError("storage_platform",
			fmt.Sprintf("Invalid pk %d - object does not exist.", *item.StoragePlatform))
	}
	return mapError(err, "watchlist item", item.ID)
}

func scanWatchlistItem(row pgx.Row) (domain.WatchlistItem, error) {
	var item domain.WatchlistItem
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.StoragePlatform,
		&item.Active,
		&item.AvgRating,
		&item.NumberRatings,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
