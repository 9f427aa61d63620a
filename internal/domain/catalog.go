package domain

import (
	"fmt"
	"strings"
)

// ListKind identifies a catalog list served by the API
type ListKind string

const (
	ListMovies ListKind = "filmes"
	ListSeries ListKind = "series"
)

// ParseListKind converts a list key to a ListKind
func ParseListKind(s string) (ListKind, error) {
	switch ListKind(strings.ToLower(strings.TrimSpace(s))) {
	case ListMovies:
		return ListMovies, nil
	case ListSeries:
		return ListSeries, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownList, s)
	}
}

// CatalogItem is one entry of a paginated catalog response
type CatalogItem struct {
	ID          int      `json:"id,omitempty" yaml:"id"`
	Title       string   `json:"titulo" yaml:"titulo"`
	PosterURL   string   `json:"poster_url,omitempty" yaml:"poster_url"` // Empty when the item has no poster
	Synopsis    string   `json:"sinopse,omitempty" yaml:"sinopse"`
	ReleaseDate string   `json:"data_lancamento,omitempty" yaml:"data_lancamento"`
	Rating      float64  `json:"nota,omitempty" yaml:"nota"`
	Kind        string   `json:"tipo,omitempty" yaml:"tipo"` // "movie", "tv"
	GenreIDs    []string `json:"generos,omitempty" yaml:"generos"`
}

// HasPoster reports whether the item can be rendered as a poster.
// A blank poster_url counts as absent, unlike a plain truthiness check.
func (c CatalogItem) HasPoster() bool {
	return strings.TrimSpace(c.PosterURL) != ""
}

// Year returns the release year, or "" when the date is missing
func (c CatalogItem) Year() string {
	if len(c.ReleaseDate) < 4 {
		return ""
	}
	return c.ReleaseDate[:4]
}

// HasGenres reports whether the item carries every genre in ids
func (c CatalogItem) HasGenres(ids []string) bool {
	for _, want := range ids {
		found := false
		for _, g := range c.GenreIDs {
			if g == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// List describes one paginated catalog list and where to fetch it
type List struct {
	Key        ListKind `mapstructure:"key"`
	Title      string   `mapstructure:"title"`
	Path       string   `mapstructure:"path"`        // e.g. /api/filmes
	FilterPath string   `mapstructure:"filter_path"` // e.g. /api/series/filtrar, empty when not filterable
}

// Filterable returns true if the list supports genre filtering
func (l List) Filterable() bool {
	return l.FilterPath != ""
}

// Genre is a selectable genre in the filter form
type Genre struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// Poster is the rendered representation of one catalog item:
// a container holding a link around a lazily loaded image.
type Poster struct {
	Title    string // Also used as the image alt text
	ImageURL string
	Href     string
	Lazy     bool

	Item CatalogItem // Source item, for detail views
}
