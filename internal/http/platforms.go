package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

type platformRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// platformResponse nests the items hosted on the platform.
type platformResponse struct {
	ID          int64                   `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Website     string                  `json:"website"`
	Watchlist   []watchlistItemResponse `json:"watchlist"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func (req platformRequest) toDomain(id int64) domain.Platform {
	return domain.Platform{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Website:     strings.TrimSpace(req.Website),
	}
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.repo.Platforms.List(r.Context())
	if err != nil {
		s.respondDomainError(w, err, "list platforms")
		return
	}

	ids := make([]int64, 0, len(platforms))
	for _, p := range platforms {
		ids = append(ids, p.ID)
	}
	hosted, err := s.repo.Watchlist.ListByPlatforms(r.Context(), ids)
	if err != nil {
		s.respondDomainError(w, err, "list platforms")
		return
	}

	s.respondJSON(w, http.StatusOK, toPlatformResponses(platforms, hosted))
}

func (s *Server) handleCreatePlatform(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AdminOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "create platform")
		return
	}

	var req platformRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	p := req.toDomain(0)
	if err := domain.ValidatePlatform(p); err != nil {
		s.respondDomainError(w, err, "create platform")
		return
	}

	created, err := s.repo.Platforms.Create(r.Context(), p)
	if err != nil {
		s.respondDomainError(w, err, "create platform")
		return
	}
	s.respondJSON(w, http.StatusCreated, toPlatformResponse(created, nil))
}

func (s *Server) handleGetPlatform(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}
	p, err := s.repo.Platforms.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err, "fetch platform")
		return
	}
	hosted, err := s.repo.Watchlist.ListByPlatforms(r.Context(), []int64{id})
	if err != nil {
		s.respondDomainError(w, err, "fetch platform")
		return
	}
	s.respondJSON(w, http.StatusOK, toPlatformResponse(p, hosted))
}

func (s *Server) handleUpdatePlatform(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AdminOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "update platform")
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}

	var req platformRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	p := req.toDomain(id)
	if err := domain.ValidatePlatform(p); err != nil {
		s.respondDomainError(w, err, "update platform")
		return
	}

	updated, err := s.repo.Platforms.Update(r.Context(), p)
	if err != nil {
		s.respondDomainError(w, err, "update platform")
		return
	}
	hosted, err := s.repo.Watchlist.ListByPlatforms(r.Context(), []int64{id})
	if err != nil {
		s.respondDomainError(w, err, "update platform")
		return
	}
	s.respondJSON(w, http.StatusAccepted, toPlatformResponse(updated, hosted))
}

func (s *Server) handleDeletePlatform(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	if err := auth.AdminOrReadOnly(r.Method, caller); err != nil {
		s.respondDomainError(w, err, "delete platform")
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		s.respondNotFound(w)
		return
	}
	if err := s.repo.Platforms.Delete(r.Context(), id); err != nil {
		s.respondDomainError(w, err, "delete platform")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toPlatformResponse keeps only the hosted items that belong to p.
func toPlatformResponse(p domain.Platform, hosted []domain.WatchlistItem) platformResponse {
	items := make([]watchlistItemResponse, 0)
	for _, item := range hosted {
		if item.StoragePlatform != nil && *item.StoragePlatform == p.ID {
			items = append(items, toWatchlistResponse(item))
		}
	}
	return platformResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
		Watchlist:   items,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPlatformResponses(platforms []domain.Platform, hosted []domain.WatchlistItem) []platformResponse {
	out := make([]platformResponse, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, toPlatformResponse(p, hosted))
	}
	return out
}
