package catalogd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/adapter/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
)

func seededServer(t *testing.T, pageSize int) *httptest.Server {
	t.Helper()

	s, err := store.Open("")
	require.NoError(t, err)

	movies := make([]domain.CatalogItem, 5)
	for i := range movies {
		movies[i] = domain.CatalogItem{
			ID:        i + 1,
			Title:     fmt.Sprintf("Filme %d", i+1),
			PosterURL: fmt.Sprintf("https://img.example/%d.jpg", i+1),
			Kind:      "movie",
		}
	}
	require.NoError(t, s.ReplaceList(domain.ListMovies, movies))
	require.NoError(t, s.ReplaceList(domain.ListSeries, []domain.CatalogItem{
		{ID: 10, Title: "Drama", PosterURL: "https://img.example/10.jpg", GenreIDs: []string{"18"}},
		{ID: 11, Title: "Crime Drama", PosterURL: "https://img.example/11.jpg", GenreIDs: []string{"80", "18"}},
		{ID: 12, Title: "Comédia", GenreIDs: []string{"35"}},
	}))

	srv := httptest.NewServer(New(NewBoltBackend(s, pageSize), adapter.NullLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, dest any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	return resp.StatusCode
}

func TestPages(t *testing.T) {
	srv := seededServer(t, 2)

	var items []domain.CatalogItem
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/filmes", &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Filme 1", items[0].Title)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/filmes?pagina=3", &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Filme 5", items[0].Title)

	var raw json.RawMessage
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/filmes?pagina=9", &raw))
	assert.JSONEq(t, "[]", string(raw), "exhausted lists return an empty array")
}

func TestFilteredSeries(t *testing.T) {
	srv := seededServer(t, 20)

	var items []domain.CatalogItem
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/series/filtrar?pagina=1&generos=18", &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Drama", items[0].Title)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/series/filtrar?pagina=1&generos=80,18", &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Crime Drama", items[0].Title)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/series/filtrar?pagina=1", &items))
	assert.Len(t, items, 3, "no generos means no filter")

	// generos is ignored on the unfiltered endpoint
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/series?generos=35", &items))
	assert.Len(t, items, 3)
}

func TestBadRequests(t *testing.T) {
	srv := seededServer(t, 20)

	for _, path := range []string{
		"/api/filmes?pagina=0",
		"/api/filmes?pagina=-2",
		"/api/series?pagina=abc",
		"/api/series/filtrar?generos=drama",
	} {
		var body map[string]string
		assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+path, &body), path)
		assert.NotEmpty(t, body["error"], path)
	}
}

// The client and server agree on the wire format.
func TestClientRoundTrip(t *testing.T) {
	srv := seededServer(t, 2)
	client := catalog.NewClient(srv.URL, adapter.NullLogger())

	series := domain.List{Key: domain.ListSeries, Path: "/api/series", FilterPath: "/api/series/filtrar"}
	items, err := client.FetchPage(context.Background(), domain.PageQuery{List: series, Page: 1, Genres: "80,18"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Crime Drama", items[0].Title)
	assert.Equal(t, []string{"80", "18"}, items[0].GenreIDs)
}

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Page(context.Context, domain.ListKind, int, string) ([]domain.CatalogItem, error) {
	return nil, errors.New("upstream down")
}

func TestBackendFailure(t *testing.T) {
	srv := httptest.NewServer(New(failingBackend{}, adapter.NullLogger()).Handler())
	defer srv.Close()

	var body map[string]string
	assert.Equal(t, http.StatusBadGateway, getJSON(t, srv.URL+"/api/filmes", &body))
	assert.Equal(t, "catalog backend unavailable", body["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	srv := seededServer(t, 20)

	var health map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", &health))
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "bolt", health["backend"])

	var items []domain.CatalogItem
	getJSON(t, srv.URL+"/api/filmes", &items)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "marquee_catalogd_requests_total")
	assert.Contains(t, string(body), `route="GET /api/filmes"`)
	assert.Contains(t, string(body), "marquee_catalogd_items_served_total")
}

func TestCORSPreflight(t *testing.T) {
	srv := seededServer(t, 20)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/filmes", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, err := store.Open("")
	require.NoError(t, err)
	server := New(NewBoltBackend(s, 20), adapter.NullLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestTMDBBackend(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/tv":
			assert.Equal(t, "18", r.URL.Query().Get("with_genres"))
			w.Write([]byte(`{"results":[{"id":1,"name":"Ruptura","poster_path":"/r.jpg","genre_ids":[18]}]}`))
		case "/movie/popular":
			w.Write([]byte(`{"results":[{"id":2,"title":"Duna","poster_path":"/d.jpg"}]}`))
		default:
			w.Write([]byte(`{"results":[]}`))
		}
	}))
	defer upstream.Close()

	backend := NewTMDBBackend(tmdb.NewClient(tmdb.Config{APIKey: "k", BaseURL: upstream.URL}, adapter.NullLogger()))
	srv := httptest.NewServer(New(backend, adapter.NullLogger()).Handler())
	defer srv.Close()

	var items []domain.CatalogItem
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/series/filtrar?generos=18", &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Ruptura", items[0].Title)
	assert.Equal(t, tmdb.DefaultImageBaseURL+"/r.jpg", items[0].PosterURL)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/filmes", &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Duna", items[0].Title)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/series?pagina=501", &items))
	assert.Empty(t, items)
}
