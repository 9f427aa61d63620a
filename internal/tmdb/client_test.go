package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

const popularTV = `{
  "page": 2,
  "total_pages": 500,
  "results": [
    {"id": 1, "name": "Ruptura", "overview": "Funcionários.", "first_air_date": "2022-02-17",
     "poster_path": "/ruptura.jpg", "vote_average": 8.4, "genre_ids": [18, 9648]},
    {"id": 2, "name": "Sem Poster", "poster_path": null},
    {"id": 3, "name": ""}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "secret", BaseURL: server.URL}, nil)
}

func TestPopularSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/popular", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "pt-BR", q.Get("language"))
		assert.Equal(t, "2", q.Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(popularTV))
	})

	items, err := client.PopularSeries(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2, "untitled results are dropped")

	assert.Equal(t, domain.CatalogItem{
		ID:          1,
		Title:       "Ruptura",
		Synopsis:    "Funcionários.",
		ReleaseDate: "2022-02-17",
		PosterURL:   DefaultImageBaseURL + "/ruptura.jpg",
		Rating:      8.4,
		Kind:        "tv",
		GenreIDs:    []string{"18", "9648"},
	}, items[0])
	assert.False(t, items[1].HasPoster())
}

func TestPopularMovies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		w.Write([]byte(`{"results":[{"id":9,"title":"Duna","release_date":"2021-10-21","poster_path":"/d.jpg"}]}`))
	})

	items, err := client.PopularMovies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Duna", items[0].Title)
	assert.Equal(t, "movie", items[0].Kind)
	assert.Equal(t, "2021", items[0].Year())
}

func TestDiscoverSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/tv", r.URL.Path)
		assert.Equal(t, "18,35", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		w.Write([]byte(`{"results":[]}`))
	})

	items, err := client.DiscoverSeries(context.Background(), 1, "18,35")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDiscoverOmitsEmptyGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["with_genres"]
		assert.False(t, ok)
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.DiscoverMovies(context.Background(), 1, "")
	require.NoError(t, err)
}

func TestPageBounds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	})

	items, err := client.PopularMovies(context.Background(), MaxPage+1)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = client.PopularMovies(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	assert.Zero(t, calls.Load(), "out of range pages never reach TMDB")
}

func TestErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	})

	_, err := client.PopularSeries(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")

	unconfigured := NewClient(Config{BaseURL: "http://127.0.0.1:0"}, nil)
	assert.False(t, unconfigured.IsConfigured())
	_, err = unconfigured.PopularSeries(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	})

	_, err := client.PopularMovies(context.Background(), 1)
	assert.Error(t, err)
}

func TestRateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, RatePerSecond: 0.01, Burst: 1}, nil)

	// The first call consumes the only token
	_, err := client.PopularMovies(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.PopularMovies(ctx, 1)
	assert.Error(t, err)
}
