package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
	"github.com/rohittgajula/IMDB-clone/internal/domain"
	"github.com/rohittgajula/IMDB-clone/internal/repository"
)

type reviewRequest struct {
	Rating      *int   `json:"rating"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type reviewResponse struct {
	ID          int64     `json:"id"`
	Watchlist   int64     `json:"watchlist"`
	ReviewUser  uuid.UUID `json:"review_user"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toDomain applies the request onto base, which carries the immutable fields.
func (req reviewRequest) toDomain(base domain.Review) (domain.Review, error) {
	if req.Rating == nil {
		return base, domain.NewValidationError("rating", "This field is required.")
	}
	base.Rating = *req.Rating
	base.Description = strings.TrimSpace(req.Description)
	base.Active = true
	if req.Active != nil {
		base.Active = *req.Active
	}
	if err := domain.ValidateReview(base); err != nil {
		return base, err
	}
	return base, nil
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AuthenticatedOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "list reviews")
		return
	}
	watchlistID, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}
	reviews, err := s.repo.Reviews.ListByWatchlist(r.Context(), watchlistID)
	if err != nil {
		s.respondDomainError(w, err, "list reviews")
		return
	}
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.RequireAuthenticated(caller); err != nil {
		s.respondDomainError(w, err, "create review")
		return
	}
	watchlistID, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	review, err := req.toDomain(domain.Review{WatchlistID: watchlistID, ReviewUser: caller.UserID})
	if err != nil {
		s.metrics.ReviewRejected("invalid")
		s.respondDomainError(w, err, "create review")
		return
	}

	created, item, err := s.repo.Reviews.CreateRated(r.Context(), repository.ReviewCreateParams{
		WatchlistID: review.WatchlistID,
		ReviewUser:  review.ReviewUser,
		Rating:      review.Rating,
		Description: review.Description,
		Active:      review.Active,
	})
	if err != nil {
		switch {
		case repository.IsDuplicateReview(err):
			s.metrics.ReviewRejected("duplicate")
		case errors.Is(err, domain.ErrNotFound):
			s.metrics.ReviewRejected("missing_item")
		}
		s.respondDomainError(w, err, "create review")
		return
	}

	s.metrics.ReviewCreated()
	s.logger.Debug("review created",
		zap.Int64("review_id", created.ID),
		zap.Int64("watchlist_id", item.ID),
		zap.Float64("avg_rating", item.AvgRating),
		zap.Int("number_ratings", item.NumberRatings),
	)
	s.respondJSON(w, http.StatusCreated, toReviewResponse(created))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}
	review, err := s.repo.Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err, "fetch review")
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	existing, ok := s.loadReviewForWrite(w, r, caller, "update review")
	if !ok {
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	review, err := req.toDomain(existing)
	if err != nil {
		s.respondDomainError(w, err, "update review")
		return
	}

	updated, err := s.repo.Reviews.Update(r.Context(), review)
	if err != nil {
		s.respondDomainError(w, err, "update review")
		return
	}
	s.respondJSON(w, http.StatusAccepted, toReviewResponse(updated))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	existing, ok := s.loadReviewForWrite(w, r, caller, "delete review")
	if !ok {
		return
	}
	if err := s.repo.Reviews.Delete(r.Context(), existing.ID); err != nil {
		s.respondDomainError(w, err, "delete review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadReviewForWrite fetches the review named in the URL and checks that
// caller may change it. It writes the error response itself when it fails.
func (s *Server) loadReviewForWrite(w http.ResponseWriter, r *http.Request, caller auth.Caller, action string) (domain.Review, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return domain.Review{}, false
	}
	review, err := s.repo.Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err, action)
		return domain.Review{}, false
	}
	if err := auth.ReviewOwnerOrReadOnly(r.Method, caller, review); err != nil {
		s.respondDomainError(w, err, action)
		return domain.Review{}, false
	}
	return review, true
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:          review.ID,
		Watchlist:   review.WatchlistID,
		ReviewUser:  review.ReviewUser,
		Rating:      review.Rating,
		Description: review.Description,
		Active:      review.Active,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
}
