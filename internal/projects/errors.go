package projects

import "errors"

var (
	// ErrNotFound is returned when no project exists for a slug.
	ErrNotFound = errors.New("project not found")
	// ErrSlugTaken is returned when creating a project whose slug already exists.
	ErrSlugTaken = errors.New("project slug already in use")
	// ErrTileTaken is returned when another project already occupies the
	// requested homepage tile position.
	ErrTileTaken = errors.New("top tile position already in use")
	// ErrInvalid wraps all validation failures.
	ErrInvalid = errors.New("invalid project")
)
