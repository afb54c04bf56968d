package projects

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository is the persistence surface for the listings catalog.
// List returns projects ordered by name.
type Repository interface {
	List(ctx context.Context) ([]Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, slug string) error
}

// InMemoryRepository keeps the catalog in memory. Used in development
// when no database is configured, and in tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{projects: make(map[string]Project)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *InMemoryRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.Slug]; ok {
		return ErrSlugTaken
	}
	if err := r.tileFree(p.TopTile, p.Slug); err != nil {
		return err
	}
	r.projects[p.Slug] = *p
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.Slug]; !ok {
		return ErrNotFound
	}
	if err := r.tileFree(p.TopTile, p.Slug); err != nil {
		return err
	}
	r.projects[p.Slug] = *p
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[slug]; !ok {
		return ErrNotFound
	}
	delete(r.projects, slug)
	return nil
}

// tileFree reports ErrTileTaken when another project holds the tile.
// Callers hold the write lock.
func (r *InMemoryRepository) tileFree(tile *int, slug string) error {
	if tile == nil {
		return nil
	}
	for _, existing := range r.projects {
		if existing.Slug == slug {
			continue
		}
		if existing.TopTile != nil && *existing.TopTile == *tile {
			return ErrTileTaken
		}
	}
	return nil
}
