// Package projects holds the property listings catalog shown on the
// marketing site: the public list and detail endpoints plus the admin
// mutations behind JWT auth.
package projects

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxImages caps the gallery size per listing.
const MaxImages = 5

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Image is a single gallery entry for a listing.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Project is a property development listed on the site.
type Project struct {
	Slug             string  `json:"slug"`
	Name             string  `json:"name"`
	Location         string  `json:"location"`
	PropertyType     string  `json:"propertyType,omitempty"`
	Bedrooms         string  `json:"bedrooms,omitempty"`
	Developer        string  `json:"developer,omitempty"`
	StartingPriceAED int64   `json:"startingPriceAed,omitempty"`
	SizeRange        string  `json:"sizeRange,omitempty"`
	Description      string  `json:"description,omitempty"`
	ListingURL       string  `json:"listingUrl,omitempty"`
	Images           []Image `json:"images,omitempty"`
	// TopTile pins the project to one of the four homepage tiles.
	// Nil means the project is list-only. Positions are unique.
	TopTile *int `json:"topTile,omitempty"`
}

// Validate checks the listing before it is persisted.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalid)
	}
	if !slugPattern.MatchString(p.Slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and hyphens", ErrInvalid)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(p.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalid)
	}
	if p.StartingPriceAED < 0 {
		return fmt.Errorf("%w: starting price must not be negative", ErrInvalid)
	}
	if len(p.Images) > MaxImages {
		return fmt.Errorf("%w: at most %d images per project", ErrInvalid, MaxImages)
	}
	for i, img := range p.Images {
		if strings.TrimSpace(img.URL) == "" {
			return fmt.Errorf("%w: image %d has no url", ErrInvalid, i+1)
		}
	}
	if p.TopTile != nil && (*p.TopTile < 1 || *p.TopTile > 4) {
		return fmt.Errorf("%w: top tile must be between 1 and 4", ErrInvalid)
	}
	return nil
}
