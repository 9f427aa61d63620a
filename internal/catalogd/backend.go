package catalogd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
)

// Backend produces catalog pages for the HTTP handlers
type Backend interface {
	Name() string
	// Page returns page (1-based) of a list. genres is a comma-joined list
	// of genre ids; items must carry all of them. An empty slice means the
	// list is exhausted.
	Page(ctx context.Context, kind domain.ListKind, page int, genres string) ([]domain.CatalogItem, error)
}

// BoltBackend serves pages from the local catalog store
type BoltBackend struct {
	store    *store.CatalogStore
	pageSize int
}

// NewBoltBackend creates a backend over s with pageSize items per page
func NewBoltBackend(s *store.CatalogStore, pageSize int) *BoltBackend {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &BoltBackend{store: s, pageSize: pageSize}
}

func (b *BoltBackend) Name() string { return "bolt" }

func (b *BoltBackend) Page(_ context.Context, kind domain.ListKind, page int, genres string) ([]domain.CatalogItem, error) {
	var ids []string
	if genres != "" {
		ids = strings.Split(genres, ",")
	}
	return b.store.Page(kind, page, b.pageSize, ids)
}

// TMDBBackend serves pages straight from TMDB
type TMDBBackend struct {
	client *tmdb.Client
}

// NewTMDBBackend creates a backend over client
func NewTMDBBackend(client *tmdb.Client) *TMDBBackend {
	return &TMDBBackend{client: client}
}

func (b *TMDBBackend) Name() string { return "tmdb" }

func (b *TMDBBackend) Page(ctx context.Context, kind domain.ListKind, page int, genres string) ([]domain.CatalogItem, error) {
	switch kind {
	case domain.ListMovies:
		if genres != "" {
			return b.client.DiscoverMovies(ctx, page, genres)
		}
		return b.client.PopularMovies(ctx, page)
	case domain.ListSeries:
		if genres != "" {
			return b.client.DiscoverSeries(ctx, page, genres)
		}
		return b.client.PopularSeries(ctx, page)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownList, kind)
	}
}
