package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

func FuzzReviewRequest(f *testing.F) {
	seeds := []string{
		`{"rating":4,"description":"great"}`,
		`{"rating":9}`,
		`{"rating":"x"}`,
		`{"active":false}`,
		`{"rating":3,"review_user":"x"}`,
		``,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, body string) {
		req := httptest.NewRequest(http.MethodPost, "/1/review-create", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var payload reviewRequest
		if err := decodeJSONBody(rec, req, &payload); err != nil {
			return
		}
		review, err := payload.toDomain(domain.Review{WatchlistID: 1})
		if err != nil {
			return
		}
		if review.Rating < domain.MinRating || review.Rating > domain.MaxRating {
			t.Fatalf("accepted out-of-range rating %d", review.Rating)
		}
	})
}

func FuzzWatchlistItemRequest(f *testing.F) {
	seeds := []string{
		`{"title":"Dune","storage_platform":1}`,
		`{"title":"","storage_platform":-1}`,
		`{"title":"Dune","avg_rating":5}`,
		`{`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, body string) {
		req := httptest.NewRequest(http.MethodPost, "/list", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var payload watchlistItemRequest
		if err := decodeJSONBody(rec, req, &payload); err != nil {
			return
		}
		item := payload.toDomain(0)
		if err := domain.ValidateWatchlistItem(item); err != nil {
			return
		}
		if item.AvgRating != 0 || item.NumberRatings != 0 {
			t.Fatalf("request populated aggregate: %+v", item)
		}
	})
}
