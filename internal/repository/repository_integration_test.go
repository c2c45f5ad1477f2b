package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
	"github.com/rohittgajula/IMDB-clone/internal/testpg"
)

type testEnv struct {
	ctx  context.Context
	repo *Repository
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	pg := testpg.Start(t, "watchlist_repo_test")
	return &testEnv{ctx: context.Background(), repo: NewWithDB(pg.Pool)}
}

func mustCreatePlatform(t testing.TB, env *testEnv, name string) domain.Platform {
	t.Helper()
	p, err := env.repo.Platforms.Create(env.ctx, domain.Platform{
		Name:        name,
		Description: "Streaming service",
		Website:     "https://example.com",
	})
	require.NoError(t, err)
	return p
}

func mustCreateItem(t testing.TB, env *testEnv, title string, platformID *int64) domain.WatchlistItem {
	t.Helper()
	item, err := env.repo.Watchlist.Create(env.ctx, domain.WatchlistItem{
		Title:           title,
		Description:     "A story",
		StoragePlatform: platformID,
		Active:          true,
	})
	require.NoError(t, err)
	return item
}

func TestRepository_ReviewScenario(t *testing.T) {
	env := newTestEnv(t)

	platform := mustCreatePlatform(t, env, "Netflix")
	item := mustCreateItem(t, env, "Dune", &platform.ID)
	assert.Equal(t, 0.0, item.AvgRating)
	assert.Equal(t, 0, item.NumberRatings)

	userA, userB := uuid.New(), uuid.New()

	_, item, err := env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{WatchlistID: item.ID, ReviewUser: userA, Rating: 4, Active: true})
	require.NoError(t, err)
	assert.Equal(t, 4.0, item.AvgRating)
	assert.Equal(t, 1, item.NumberRatings)

	_, item, err = env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{WatchlistID: item.ID, ReviewUser: userB, Rating: 2, Active: true})
	require.NoError(t, err)
	assert.Equal(t, 3.0, item.AvgRating)
	assert.Equal(t, 2, item.NumberRatings)

	_, _, err = env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{WatchlistID: item.ID, ReviewUser: userA, Rating: 5, Active: true})
	assert.True(t, IsDuplicateReview(err), "expected duplicate review, got %v", err)

	stored, err := env.repo.Watchlist.GetByID(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.AvgRating)
	assert.Equal(t, 2, stored.NumberRatings)

	reviews, err := env.repo.Reviews.ListByWatchlist(env.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, userA, reviews[0].ReviewUser)

	// Deleting a review keeps the aggregate as it was.
	require.NoError(t, env.repo.Reviews.Delete(env.ctx, reviews[0].ID))
	stored, err = env.repo.Watchlist.GetByID(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.AvgRating)
	assert.Equal(t, 2, stored.NumberRatings)
}

func TestRepository_CreateRatedMissingItem(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{WatchlistID: 999, ReviewUser: uuid.New(), Rating: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_PlatformLifecycle(t *testing.T) {
	env := newTestEnv(t)

	platform := mustCreatePlatform(t, env, "Prime")
	item := mustCreateItem(t, env, "Fallout", &platform.ID)

	platform.Website = "https://primevideo.com"
	updated, err := env.repo.Platforms.Update(env.ctx, platform)
	require.NoError(t, err)
	assert.Equal(t, "https://primevideo.com", updated.Website)

	hosted, err := env.repo.Watchlist.ListByPlatforms(env.ctx, []int64{platform.ID})
	require.NoError(t, err)
	require.Len(t, hosted, 1)
	assert.Equal(t, item.ID, hosted[0].ID)

	require.NoError(t, env.repo.Platforms.Delete(env.ctx, platform.ID))
	_, err = env.repo.Platforms.GetByID(env.ctx, platform.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.repo.Platforms.Delete(env.ctx, platform.ID), domain.ErrNotFound)

	orphan, err := env.repo.Watchlist.GetByID(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.StoragePlatform)
}

func TestRepository_WatchlistUpdateKeepsAggregate(t *testing.T) {
	env := newTestEnv(t)
	item := mustCreateItem(t, env, "Arrival", nil)

	_, _, err := env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{WatchlistID: item.ID, ReviewUser: uuid.New(), Rating: 5, Active: true})
	require.NoError(t, err)

	item.Title = "Arrival (2016)"
	item.AvgRating = 0
	item.NumberRatings = 0
	updated, err := env.repo.Watchlist.Update(env.ctx, item)
	require.NoError(t, err)
	assert.Equal(t, "Arrival (2016)", updated.Title)
	assert.Equal(t, 5.0, updated.AvgRating)
	assert.Equal(t, 1, updated.NumberRatings)

	missing := int64(12345)
	item.StoragePlatform = &missing
	_, err = env.repo.Watchlist.Update(env.ctx, item)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, env.repo.Watchlist.Delete(env.ctx, item.ID))
	reviews, err := env.repo.Reviews.ListByWatchlist(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestRepository_ConcurrentReviewsKeepCount(t *testing.T) {
	env := newTestEnv(t)
	item := mustCreateItem(t, env, "Concurrent", nil)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{
				WatchlistID: item.ID,
				ReviewUser:  uuid.New(),
				Rating:      4,
				Active:      true,
			})
			if err != nil {
				t.Errorf("create review: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, err := env.repo.Watchlist.GetByID(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, stored.NumberRatings)
	assert.Equal(t, 4.0, stored.AvgRating)
}

func BenchmarkReviewsRepositoryCreateRated(b *testing.B) {
	env := newTestEnv(b)
	item := mustCreateItem(b, env, "Bench", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := env.repo.Reviews.CreateRated(env.ctx, ReviewCreateParams{
			WatchlistID: item.ID,
			ReviewUser:  uuid.New(),
			Rating:      3,
			Active:      true,
		})
		if err != nil {
			b.Fatalf("create review: %v", err)
		}
	}
}
