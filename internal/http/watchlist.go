package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

type watchlistItemRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StoragePlatform *int64 `json:"storage_platform"`
	Active          *bool  `json:"active"`
}

type watchlistItemResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StoragePlatform *int64    `json:"storage_platform"`
	Active          bool      `json:"active"`
	AvgRating       float64   `json:"avg_rating"`
	NumberRatings   int       `json:"number_ratings"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (req watchlistItemRequest) toDomain(id int64) domain.WatchlistItem {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return domain.WatchlistItem{
		ID:              id,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		StoragePlatform: req.StoragePlatform,
		Active:          active,
	}
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Watchlist.List(r.Context())
	if err != nil {
		s.respondDomainError(w, err, "list watchlist")
		return
	}
	s.respondJSON(w, http.StatusOK, toWatchlistResponses(items))
}

func (s *Server) handleCreateWatchlistItem(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AdminOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "create watchlist item")
		return
	}

	var req watchlistItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	item := req.toDomain(0)
	if err := domain.ValidateWatchlistItem(item); err != nil {
		s.respondDomainError(w, err, "create watchlist item")
		return
	}

	created, err := s.repo.Watchlist.Create(r.Context(), item)
	if err != nil {
		s.respondDomainError(w, err, "create watchlist item")
		return
	}
	s.respondJSON(w, http.StatusCreated, toWatchlistResponse(created))
}

func (s *Server) handleGetWatchlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}
	item, err := s.repo.Watchlist.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err, "fetch watchlist item")
		return
	}
	s.respondJSON(w, http.StatusOK, toWatchlistResponse(item))
}

func (s *Server) handleUpdateWatchlistItem(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AdminOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "update watchlist item")
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}

	var req watchlistItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	item := req.toDomain(id)
	if err := domain.ValidateWatchlistItem(item); err != nil {
		s.respondDomainError(w, err, "update watchlist item")
		return
	}

	updated, err := s.repo.Watchlist.Update(r.Context(), item)
	if err != nil {
		s.respondDomainError(w, err, "update watchlist item")
		return
	}
	s.respondJSON(w, http.StatusAccepted, toWatchlistResponse(updated))
}

func (s *Server) handleDeleteWatchlistItem(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AdminOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "delete watchlist item")
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}
	if err := s.repo.Watchlist.Delete(r.Context(), id); err != nil {
		s.respondDomainError(w, err, "delete watchlist item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toWatchlistResponse(item domain.WatchlistItem) watchlistItemResponse {
	return watchlistItemResponse{
		ID:              item.ID,
		Title:           item.Title,
		Description:     item.Description,
		StoragePlatform: item.StoragePlatform,
		Active:          item.Active,
		AvgRating:       item.AvgRating,
		NumberRatings:   item.NumberRatings,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func toWatchlistResponses(items []domain.WatchlistItem) []watchlistItemResponse {
	out := make([]watchlistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toWatchlistResponse(item))
	}
	return out
}
