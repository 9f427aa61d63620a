package cli

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/catalogd"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
)

func posterURL(title string) string {
	return "https://image.tmdb.org/t/p/w500/" + strings.ToLower(title) + ".jpg"
}

// newCatalogServer serves a small catalog two items per page
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := store.Open("")
	require.NoError(t, err)

	require.NoError(t, s.ReplaceList(domain.ListMovies, []domain.CatalogItem{
		{Title: "Duna", PosterURL: posterURL("duna"), ReleaseDate: "2021-10-21", Rating: 7.8},
		{Title: "Oppenheimer", PosterURL: posterURL("oppenheimer"), ReleaseDate: "2023-07-20"},
		{Title: "Sem Capa"},
		{Title: "Barbie", PosterURL: posterURL("barbie")},
		{Title: "Wonka", PosterURL: posterURL("wonka")},
	}))
	require.NoError(t, s.ReplaceList(domain.ListSeries, []domain.CatalogItem{
		{Title: "Arcane", PosterURL: posterURL("arcane"), GenreIDs: []string{"16", "10765"}},
		{Title: "The Bear", PosterURL: posterURL("bear"), GenreIDs: []string{"35", "18"}},
		{Title: "Blue Eye Samurai", PosterURL: posterURL("samurai"), GenreIDs: []string{"16", "10759"}},
	}))

	srv := httptest.NewServer(catalogd.New(catalogd.NewBoltBackend(s, 2), adapter.NullLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(serverURL string) *adapter.Config {
	cfg := adapter.DefaultConfig()
	cfg.Server.URL = serverURL
	cfg.Logging.Level = "ERROR"
	cfg.Catalogd.DBPath = ""
	return cfg
}

func run(t *testing.T, cfg *adapter.Config, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp(cfg)
	app.root.SetOut(&stdout)
	app.root.SetErr(&stderr)
	app.root.SetArgs(append([]string{"--no-color"}, args...))
	err := app.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, testConfig(""), "version")
	require.NoError(t, err)
	assert.Equal(t, "marquee dev (commit: none)\n", out)
}

func TestExport_LoadsUntilExhausted(t *testing.T) {
	srv := newCatalogServer(t)

	out, _, err := run(t, testConfig(srv.URL), "export", "filmes")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<div class="grade-posters">`))
	assert.Equal(t, 4, strings.Count(out, `class="item-poster"`), "items without a poster are skipped")
	assert.Contains(t, out, `alt="Duna"`)
	assert.Contains(t, out, `loading="lazy"`)
	assert.NotContains(t, out, "Sem Capa")

	// Response order is kept across pages
	assert.Less(t, strings.Index(out, "Duna"), strings.Index(out, "Wonka"))
}

func TestExport_MaxPages(t *testing.T) {
	srv := newCatalogServer(t)

	out, _, err := run(t, testConfig(srv.URL), "export", "filmes", "--max-pages", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, `class="item-poster"`))
}

func TestExport_GenreSearchToFile(t *testing.T) {
	srv := newCatalogServer(t)
	outPath := filepath.Join(t.TempDir(), "series.html")

	_, stderr, err := run(t, testConfig(srv.URL), "export", "series", "--genres", "16", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "Arcane")
	assert.Contains(t, html, "Blue Eye Samurai")
	assert.NotContains(t, html, "The Bear")
}

func TestExport_NoResults(t *testing.T) {
	srv := newCatalogServer(t)

	out, _, err := run(t, testConfig(srv.URL), "export", "series", "--genres", "99")
	require.NoError(t, err)
	assert.Contains(t, out, `<p class="sem-resultados">Nenhum resultado encontrado.</p>`)
	assert.NotContains(t, out, "item-poster")
}

func TestExport_Errors(t *testing.T) {
	srv := newCatalogServer(t)

	_, _, err := run(t, testConfig(srv.URL), "export", "filmes", "--genres", "16")
	assert.ErrorIs(t, err, domain.ErrFilterUnsupported)

	_, _, err = run(t, testConfig(srv.URL), "export", "novelas")
	assert.ErrorIs(t, err, domain.ErrUnknownList)

	down := httptest.NewServer(nil)
	down.Close()
	_, _, err = run(t, testConfig(down.URL), "export", "filmes")
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
}

func TestList(t *testing.T) {
	srv := newCatalogServer(t)
	cfg := testConfig(srv.URL)

	out, _, err := run(t, cfg, "list", "filmes", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Filmes ===")
	assert.Contains(t, out, "página 2")
	assert.Contains(t, out, "Sem Capa sem pôster")
	assert.Contains(t, out, "Barbie")
	assert.NotContains(t, out, "Duna")

	out, _, err = run(t, cfg, "list", "series", "--genres", "35")
	require.NoError(t, err)
	assert.Contains(t, out, "The Bear")
	assert.NotContains(t, out, "Arcane")

	out, _, err = run(t, cfg, "list", "filmes", "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Fim da lista")

	_, _, err = run(t, cfg, "list", "--page", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}

func TestList_EndOfListLabel(t *testing.T) {
	srv := newCatalogServer(t)
	cfg := testConfig(srv.URL)
	cfg.Labels.EndOfList = "Acabou"

	out, _, err := run(t, cfg, "list", "filmes", "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Acabou")
	assert.NotContains(t, out, "Fim da lista")
}

func TestImport_NeedsDatabasePath(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte("filmes:\n  - titulo: Duna\n"), 0o644))

	_, _, err := run(t, testConfig(""), "import", fixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`
filmes:
  - titulo: Duna
    poster_url: https://image.tmdb.org/t/p/w500/duna.jpg
    nota: 7.8
  - titulo: Sem Capa
    poster_url: null
series:
  - titulo: Arcane
    generos: ["16", "10765"]
`), 0o644))
	dbPath := filepath.Join(dir, "catalog.db")

	out, _, err := run(t, testConfig(""), "import", fixture, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "filmes")
	assert.Contains(t, out, "2 items")
	assert.Contains(t, out, "1 items")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 2, s.Count(domain.ListMovies))
	assert.Equal(t, 1, s.Count(domain.ListSeries))
}

func TestImport_InvalidFixture(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte("filmes:\n  - nota: 5\n"), 0o644))

	_, _, err := run(t, testConfig(""), "import", fixture, "--db", filepath.Join(dir, "catalog.db"))
	var verr *store.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Problems)
}

func TestOpenBackend(t *testing.T) {
	logger := adapter.NullLogger()
	cfg := adapter.DefaultConfig().Catalogd

	cfg.Backend = "bolt"
	cfg.DBPath = ""
	b, closeFn, err := openBackend(cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, "bolt", b.Name())
	closeFn()

	cfg.Backend = "tmdb"
	cfg.TMDB.APIKey = ""
	_, _, err = openBackend(cfg, logger)
	assert.ErrorIs(t, err, tmdb.ErrNoAPIKey)

	cfg.TMDB.APIKey = "key"
	b, closeFn, err = openBackend(cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, "tmdb", b.Name())
	closeFn()

	cfg.Backend = "sqlite"
	_, _, err = openBackend(cfg, logger)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Duna", truncate("Duna", 10))
	assert.Equal(t, "Blue Ey...", truncate("Blue Eye Samurai", 10))
	assert.Equal(t, "Blu", truncate("Blue Eye Samurai", 3))
}
