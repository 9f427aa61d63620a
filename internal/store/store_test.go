package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func makeItems(n int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, n)
	for i := range items {
		items[i] = domain.CatalogItem{
			ID:        i + 1,
			Title:     fmt.Sprintf("Item %d", i+1),
			PosterURL: fmt.Sprintf("https://img.example/%d.jpg", i+1),
		}
	}
	return items
}

func titles(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestCatalogStore_MemoryPages(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.Persistent())

	require.NoError(t, s.ReplaceList(domain.ListMovies, makeItems(5)))
	assert.Equal(t, 5, s.Count(domain.ListMovies))

	page1, err := s.Page(domain.ListMovies, 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Item 1", "Item 2"}, titles(page1))

	page3, err := s.Page(domain.ListMovies, 3, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Item 5"}, titles(page3))

	page4, err := s.Page(domain.ListMovies, 4, 2, nil)
	require.NoError(t, err)
	assert.Empty(t, page4)
	assert.NotNil(t, page4, "past-the-end pages encode as an empty array")
}

func TestCatalogStore_PageErrors(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	_, err = s.Page(domain.ListMovies, 0, 20, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = s.Page(domain.ListMovies, 1, 0, nil)
	assert.Error(t, err)

	items, err := s.Page(domain.ListSeries, 1, 20, nil)
	require.NoError(t, err)
	assert.Empty(t, items, "unknown lists are empty")
}

func TestCatalogStore_GenreFilter(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	items := []domain.CatalogItem{
		{Title: "Drama", GenreIDs: []string{"18"}},
		{Title: "Crime Drama", GenreIDs: []string{"80", "18"}},
		{Title: "Comedy", GenreIDs: []string{"35"}},
		{Title: "Crime", GenreIDs: []string{"80"}},
	}
	require.NoError(t, s.ReplaceList(domain.ListSeries, items))

	got, err := s.Page(domain.ListSeries, 1, 10, []string{"18"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama", "Crime Drama"}, titles(got))

	got, err = s.Page(domain.ListSeries, 1, 10, []string{"80", "18"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Crime Drama"}, titles(got))

	got, err = s.Page(domain.ListSeries, 2, 1, []string{"80"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Crime"}, titles(got))

	got, err = s.Page(domain.ListSeries, 1, 10, []string{"99"})
	require.NoError(t, err)
	assert.Empty(t, got)

	all, _ := s.List(domain.ListSeries)
	assert.Len(t, all, 4, "filtering must not modify the stored list")
}

func TestCatalogStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "catalog.db")

	s, err := Open(path)
	require.NoError(t, err)
	assert.True(t, s.Persistent())
	require.NoError(t, s.ReplaceList(domain.ListSeries, makeItems(3)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 3, s.Count(domain.ListSeries))
	_, ok := s.UpdatedAt(domain.ListSeries)
	assert.True(t, ok)
	assert.Equal(t, []domain.ListKind{domain.ListSeries}, s.Kinds())
}

func TestCatalogStore_ReplaceDeleteClear(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ReplaceList(domain.ListMovies, makeItems(4)))
	require.NoError(t, s.ReplaceList(domain.ListMovies, makeItems(2)))
	assert.Equal(t, 2, s.Count(domain.ListMovies))

	require.NoError(t, s.ReplaceList(domain.ListSeries, makeItems(1)))
	require.NoError(t, s.DeleteList(domain.ListMovies))
	_, ok := s.List(domain.ListMovies)
	assert.False(t, ok)
	_, ok = s.UpdatedAt(domain.ListMovies)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count(domain.ListSeries))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Kinds())
}

const validFixture = `
filmes:
  - id: 1
    titulo: Duna
    poster_url: https://image.tmdb.org/t/p/w500/duna.jpg
    nota: 8.1
    tipo: movie
  - id: 2
    titulo: Sem Poster
    poster_url: null
series:
  - id: 10
    titulo: Ruptura
    poster_url: https://image.tmdb.org/t/p/w500/ruptura.jpg
    data_lancamento: "2022-02-17"
    tipo: tv
    generos: ["18", "9648"]
`

func TestLoadFixtureAndImport(t *testing.T) {
	f, err := LoadFixture(strings.NewReader(validFixture))
	require.NoError(t, err)
	require.Len(t, f.Movies, 2)
	assert.False(t, f.Movies[1].HasPoster())
	assert.Equal(t, []string{"18", "9648"}, f.Series[0].GenreIDs)

	s, err := Open("")
	require.NoError(t, err)
	counts, err := s.Import(f)
	require.NoError(t, err)
	assert.Equal(t, map[domain.ListKind]int{domain.ListMovies: 2, domain.ListSeries: 1}, counts)

	got, err := s.Page(domain.ListSeries, 1, 20, []string{"9648"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ruptura"}, titles(got))
}

func TestImport_LeavesAbsentListsAlone(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	require.NoError(t, s.ReplaceList(domain.ListSeries, makeItems(3)))

	f, err := LoadFixture(strings.NewReader("filmes:\n  - titulo: Solo\n"))
	require.NoError(t, err)
	_, err = s.Import(f)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count(domain.ListMovies))
	assert.Equal(t, 3, s.Count(domain.ListSeries))
}

func TestLoadFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown list", "animes:\n  - titulo: X\n"},
		{"missing title", "filmes:\n  - id: 1\n"},
		{"numeric genre", "series:\n  - titulo: X\n    generos: [18]\n"},
		{"bad kind", "filmes:\n  - titulo: X\n    tipo: game\n"},
		{"unknown field", "filmes:\n  - titulo: X\n    diretor: Y\n"},
		{"empty document", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixture(strings.NewReader(tt.body))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Problems)
		})
	}

	_, err := LoadFixture(strings.NewReader("filmes: [\n"))
	assert.Error(t, err)
}
