package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/rohittgajula/IMDB-clone/internal/store"
	"github.com/rohittgajula/IMDB-clone/internal/testpg"
)

func TestStore_ConnectMigrateHealthCheck(t *testing.T) {
	pg := testpg.Start(t, "store_test")
	ctx := context.Background()

	st, err := store.New(ctx, pg.DSN, store.Options{
		MaxConns:               4,
		MinConns:               1,
		ConnTimeout:            5 * time.Second,
		StatementCacheCapacity: 32,
	})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer st.Close()

	// Migrations were applied by testpg; a second run must be a no-op.
	if err := st.Migrate(); err != nil {
		t.Fatalf("Migrate on up-to-date schema: %v", err)
	}
	if err := st.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if stats := st.Stats(); stats == nil || stats.MaxConns() != 4 {
		t.Fatalf("unexpected pool stats: %+v", stats)
	}

	var tables int
	err = st.Pool().QueryRow(ctx, `
        SELECT count(*) FROM information_schema.tables
        WHERE table_name IN ('platforms', 'watchlist', 'reviews')
    `).Scan(&tables)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tables != 3 {
		t.Fatalf("tables = %d, want 3", tables)
	}
}

func TestMigrate_ReleasesConnection(t *testing.T) {
	pg := testpg.Start(t, "store_migrate_test")

	// testpg already migrated once; run again on the up-to-date schema.
	for i := 0; i < 2; i++ {
		if err := store.Migrate(pg.Pool); err != nil {
			t.Fatalf("Migrate run %d: %v", i, err)
		}
		if acquired := pg.Pool.Stat().AcquiredConns(); acquired != 0 {
			t.Fatalf("after run %d: %d connections still acquired", i, acquired)
		}
	}
}

func TestStore_AutoMigrateOnSingleConnectionPool(t *testing.T) {
	pg := testpg.Start(t, "store_automigrate_test")
	ctx := context.Background()

	st, err := store.New(ctx, pg.DSN, store.Options{
		MaxConns:    1,
		ConnTimeout: 5 * time.Second,
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer st.Close()

	if acquired := st.Stats().AcquiredConns(); acquired != 0 {
		t.Fatalf("acquired conns after startup = %d, want 0", acquired)
	}

	// The only connection must be usable by regular queries after migrating.
	queryCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := st.HealthCheck(queryCtx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	var n int
	if err := st.Pool().QueryRow(queryCtx, `SELECT count(*) FROM platforms`).Scan(&n); err != nil {
		t.Fatalf("query after migrate: %v", err)
	}
}

func TestStore_InvalidURL(t *testing.T) {
	if _, err := store.New(context.Background(), "://bad", store.Options{}); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestStore_NilSafety(t *testing.T) {
	var st *store.Store
	st.Close()
	if err := st.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected error from nil store")
	}
	if st.Stats() != nil {
		t.Fatalf("expected nil stats from nil store")
	}
}
