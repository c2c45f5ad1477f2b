package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

const reviewsTable = "reviews"

var reviewColumns = []string{
	"id",
	"watchlist",
	"review_user",
	"rating",
	"description",
	"active",
	"created_at",
	"updated_at",
}

// ErrDuplicateReview is returned when a user reviews the same item twice.
var ErrDuplicateReview = domain.NewValidationError("non_field_errors", "You have already reviewed this item.")

// ReviewsRepository provides persistence helpers for reviews.
type ReviewsRepository struct {
	db DB
}

// ReviewCreateParams captures the payload required to create a review.
type ReviewCreateParams struct {
	WatchlistID int64
	ReviewUser  uuid.UUID
	Rating      int
	Description string
	Active      bool
}

// ListByWatchlist returns the reviews of one item. A missing item yields an
// empty list.
func (r *ReviewsRepository) ListByWatchlist(ctx context.Context, watchlistID int64) ([]domain.Review, error) {
	q := psql.Select(reviewColumns...).
		From(reviewsTable).
		Where(squirrel.Eq{"watchlist": watchlistID}).
		OrderBy("id")
	reviews, err := queryAll(ctx, r.db, q, scanReview)
	if err != nil {
		return nil, wrapf(err, "list reviews")
	}
	return reviews, nil
}

// GetByID fetches a review by its identifier.
func (r *ReviewsRepository) GetByID(ctx context.Context, id int64) (domain.Review, error) {
	row, err := queryRow(ctx, r.db, psql.Select(reviewColumns...).From(reviewsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return domain.Review{}, err
	}
	review, err := scanReview(row)
	if err != nil {
		return domain.Review{}, mapError(err, "review", id)
	}
	return review, nil
}

// CreateRated stores a new review and folds its rating into the item's
// aggregate in a single transaction. The item row is locked for the duration
// so concurrent reviews of the same item are applied one after another.
func (r *ReviewsRepository) CreateRated(ctx context.Context, params ReviewCreateParams) (domain.Review, domain.WatchlistItem, error) {
	var (
		review domain.Review
		item   domain.WatchlistItem
	)

	err := runInTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		item, err = getWatchlistItem(ctx, tx, params.WatchlistID, true)
		if err != nil {
			return err
		}

		exists, err := reviewExists(ctx, tx, params.WatchlistID, params.ReviewUser)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateReview
		}

		domain.ApplyRating(&item, params.Rating)
		if err := saveAggregate(ctx, tx, item); err != nil {
			return err
		}

		review, err = insertReview(ctx, tx, params)
		return err
	})
	if err != nil {
		return domain.Review{}, domain.WatchlistItem{}, err
	}
	return review, item, nil
}

// Update replaces the editable fields of review.ID. The owning item and user
// never change, and the item's aggregate is not recomputed.
func (r *ReviewsRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	q := psql.Update(reviewsTable).
		Set("rating", review.Rating).
		Set("description", review.Description).
		Set("active", review.Active).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": review.ID}).
		Suffix(returning(reviewColumns))

	row, err := queryRow(ctx, r.db, q)
	if err != nil {
		return domain.Review{}, err
	}
	updated, err := scanReview(row)
	if err != nil {
		return domain.Review{}, mapError(err, "review", review.ID)
	}
	return updated, nil
}

// Delete removes a review. The item's aggregate keeps the deleted rating.
func (r *ReviewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := exec(ctx, r.db, psql.Delete(reviewsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return mapError(err, "review", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "review", id)
	}
	return nil
}

func reviewExists(ctx context.Context, q Querier, watchlistID int64, user uuid.UUID) (bool, error) {
	b := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(reviewsTable).
		Where(squirrel.Eq{"watchlist": watchlistID, "review_user": user}).
		Suffix(")")
	row, err := queryRow(ctx, q, b)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, wrapf(err, "check existing review")
	}
	return exists, nil
}

func insertReview(ctx context.Context, q Querier, params ReviewCreateParams) (domain.Review, error) {
	b := psql.Insert(reviewsTable).
		Columns("watchlist", "review_user", "rating", "description", "active").
		Values(params.WatchlistID, params.ReviewUser, params.Rating, params.Description, params.Active).
		Suffix(returning(reviewColumns))

	row, err := queryRow(ctx, q, b)
	if err != nil {
		return domain.Review{}, err
	}
	review, err := scanReview(row)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return domain.Review{}, ErrDuplicateReview
		}
		return domain.Review{}, mapError(err, "review", 0)
	}
	return review, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var r domain.Review
	err := row.Scan(
		&r.ID,
		&r.WatchlistID,
		&r.ReviewUser,
		&r.Rating,
		&r.Description,
		&r.Active,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// IsDuplicateReview reports whether err is the one-review-per-user rejection.
func IsDuplicateReview(err error) bool {
	return errors.Is(err, ErrDuplicateReview)
}
