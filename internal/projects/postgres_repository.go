package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists the catalog in Postgres. The images
// gallery is stored as a JSONB column; tile uniqueness is enforced by
// a partial unique index so concurrent writers cannot race past the
// application-level check.
type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	if db == nil {
		return nil
	}
	return &PostgresRepository{db: db}
}

const projectColumns = `slug, name, location, property_type, bedrooms, developer,
		starting_price_aed, size_range, description, listing_url, images, top_tile`

func (r *PostgresRepository) List(ctx context.Context) ([]Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY lower(name)
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("projects: list: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("projects: list: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("projects: list: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE slug = $1
	`
	p, err := scanProject(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("projects: get %s: %w", slug, err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Project) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("projects: encode images: %w", err)
	}
	query := `
		INSERT INTO projects (slug, name, location, property_type, bedrooms, developer,
			starting_price_aed, size_range, description, listing_url, images, top_tile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		p.Slug, p.Name, p.Location, p.PropertyType, p.Bedrooms, p.Developer,
		p.StartingPriceAED, p.SizeRange, p.Description, p.ListingURL, images, p.TopTile)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("projects: create %s: %w", p.Slug, err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *Project) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("projects: encode images: %w", err)
	}
	query := `
		UPDATE projects
		SET name = $2, location = $3, property_type = $4, bedrooms = $5, developer = $6,
			starting_price_aed = $7, size_range = $8, description = $9, listing_url = $10,
			images = $11, top_tile = $12, updated_at = now()
		WHERE slug = $1
	`
	tag, err := r.db.Exec(ctx, query,
		p.Slug, p.Name, p.Location, p.PropertyType, p.Bedrooms, p.Developer,
		p.StartingPriceAED, p.SizeRange, p.Description, p.ListingURL, images, p.TopTile)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("projects: update %s: %w", p.Slug, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, slug string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("projects: delete %s: %w", slug, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*Project, error) {
	var (
		p      Project
		images []byte
	)
	if err := row.Scan(&p.Slug, &p.Name, &p.Location, &p.PropertyType, &p.Bedrooms,
		&p.Developer, &p.StartingPriceAED, &p.SizeRange, &p.Description,
		&p.ListingURL, &images, &p.TopTile); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return &p, nil
}

// mapConstraintError translates unique violations into the catalog
// sentinels. projects_top_tile_key is the partial index on top_tile.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if pgErr.ConstraintName == "projects_top_tile_key" {
		return ErrTileTaken
	}
	return ErrSlugTaken
}
