package repository

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/rohittgajula/IMDB-clone/internal/domain"
)

const platformsTable = "platforms"

var platformColumns = []string{"id", "name", "description", "website", "created_at", "updated_at"}

// PlatformsRepository provides persistence helpers for streaming platforms.
type PlatformsRepository struct {
	db DB
}

// List returns all platforms ordered by id.
func (r *PlatformsRepository) List(ctx context.Context) ([]domain.Platform, error) {
	q := psql.Select(platformColumns...).From(platformsTable).OrderBy("id")
	platforms, err := queryAll(ctx, r.db, q, scanPlatform)
	if err != nil {
		return nil, wrapf(err, "list platforms")
	}
	return platforms, nil
}

// GetByID fetches a platform by its identifier.
func (r *PlatformsRepository) GetByID(ctx context.Context, id int64) (domain.Platform, error) {
	row, err := queryRow(ctx, r.db, psql.Select(platformColumns...).From(platformsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return domain.Platform{}, err
	}
	p, err := scanPlatform(row)
	if err != nil {
		return domain.Platform{}, mapError(err, "platform", id)
	}
	return p, nil
}

// Create inserts a new platform and returns the stored entity.
func (r *PlatformsRepository) Create(ctx context.Context, p domain.Platform) (domain.Platform, error) {
	q := psql.Insert(platformsTable).
		Columns("name", "description", "website").
		Values(p.Name, p.Description, p.Website).
		Suffix(returning(platformColumns))

	row, err := queryRow(ctx, r.db, q)
	if err != nil {
		return domain.Platform{}, err
	}
	created, err := scanPlatform(row)
	if err != nil {
		return domain.Platform{}, mapError(err, "platform", 0)
	}
	return created, nil
}

// Update replaces the editable fields of platform p.ID.
func (r *PlatformsRepository) Update(ctx context.Context, p domain.Platform) (domain.Platform, error) {
	q := psql.Update(platformsTable).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("website", p.Website).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix(returning(platformColumns))

	row, err := queryRow(ctx, r.db, q)
	if err != nil {
		return domain.Platform{}, err
	}
	updated, err := scanPlatform(row)
	if err != nil {
		return domain.Platform{}, mapError(err, "platform", p.ID)
	}
	return updated, nil
}

// Delete removes a platform. Items hosted on it keep existing with no platform.
func (r *PlatformsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := exec(ctx, r.db, psql.Delete(platformsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return mapError(err, "platform", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "platform", id)
	}
	return nil
}

func scanPlatform(row pgx.Row) (domain.Platform, error) {
	var p domain.Platform
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Website, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}
