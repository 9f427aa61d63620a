package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmcdole/marquee/internal/carousel"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Lists    []domain.List     `mapstructure:"lists"`
	Genres   []domain.Genre    `mapstructure:"genres"`
	Labels   pagination.Labels `mapstructure:"labels"`
	Carousel CarouselConfig    `mapstructure:"carousel"`
	UI       UIConfig          `mapstructure:"ui"`
	Logging  LoggingConfig     `mapstructure:"logging"`
	Catalogd CatalogdConfig    `mapstructure:"catalogd"`
}

// ServerConfig holds catalog API configuration
type ServerConfig struct {
	URL string `mapstructure:"url"` // Base URL of the catalog API
}

// CarouselConfig holds carousel scroll configuration (pixels)
type CarouselConfig struct {
	Step         int `mapstructure:"step"`
	EndTolerance int `mapstructure:"end_tolerance"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	GridColumns int    `mapstructure:"grid_columns"` // 0 = fit to terminal width
	DefaultView string `mapstructure:"default_view"` // "home" or a list key
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// CatalogdConfig holds configuration for the local catalog server
type CatalogdConfig struct {
	Listen   string     `mapstructure:"listen"`
	Backend  string     `mapstructure:"backend"` // "bolt" or "tmdb"
	DBPath   string     `mapstructure:"db_path"` // Empty = memory only
	PageSize int        `mapstructure:"page_size"`
	TMDB     TMDBConfig `mapstructure:"tmdb"`
}

// TMDBConfig holds upstream TMDB configuration
type TMDBConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	ImageBaseURL  string  `mapstructure:"image_base_url"`
	Language      string  `mapstructure:"language"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

// DefaultLists returns the lists served by the catalog API
func DefaultLists() []domain.List {
	return []domain.List{
		{Key: domain.ListMovies, Title: "Filmes", Path: "/api/filmes"},
		{Key: domain.ListSeries, Title: "Séries", Path: "/api/series", FilterPath: "/api/series/filtrar"},
	}
}

// DefaultGenres returns the TMDB TV genres offered in the filter form
func DefaultGenres() []domain.Genre {
	return []domain.Genre{
		{ID: "10759", Name: "Ação e Aventura"},
		{ID: "16", Name: "Animação"},
		{ID: "35", Name: "Comédia"},
		{ID: "80", Name: "Crime"},
		{ID: "99", Name: "Documentário"},
		{ID: "18", Name: "Drama"},
		{ID: "10751", Name: "Família"},
		{ID: "10762", Name: "Kids"},
		{ID: "9648", Name: "Mistério"},
		{ID: "10764", Name: "Reality"},
		{ID: "10765", Name: "Ficção científica e Fantasia"},
		{ID: "10766", Name: "Novela"},
		{ID: "10768", Name: "Guerra e Política"},
		{ID: "37", Name: "Faroeste"},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:5000",
		},
		Lists:  DefaultLists(),
		Genres: DefaultGenres(),
		Labels: pagination.DefaultLabels(),
		Carousel: CarouselConfig{
			Step:         carousel.DefaultStep,
			EndTolerance: carousel.DefaultEndTolerance,
		},
		UI: UIConfig{
			Theme:       "default",
			GridColumns: 0,
			DefaultView: "home",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Catalogd: CatalogdConfig{
			Listen:   ":5000",
			Backend:  "bolt",
			DBPath:   filepath.Join(defaultDataPath(), "catalog.db"),
			PageSize: 20,
			TMDB: TMDBConfig{
				BaseURL:       "https://api.themoviedb.org/3",
				ImageBaseURL:  "https://image.tmdb.org/t/p/w500",
				Language:      "pt-BR",
				RatePerSecond: 20,
				Burst:         5,
			},
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return filepath.Join(defaultDataPath(), "marquee.log")
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// LoadConfigFrom loads configuration from path, or from the default
// locations when path is empty. Environment variables prefixed with
// MARQUEE_ override file values (e.g. MARQUEE_SERVER_URL).
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Slices from the file replace the defaults instead of merging into them
	if v.IsSet("lists") {
		cfg.Lists = nil
	}
	if v.IsSet("genres") {
		cfg.Genres = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnv registers scalar keys so AutomaticEnv applies to Unmarshal
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"server.url",
		"ui.theme", "ui.grid_columns", "ui.default_view",
		"logging.file", "logging.level",
		"carousel.step", "carousel.end_tolerance",
		"catalogd.listen", "catalogd.backend", "catalogd.db_path", "catalogd.page_size",
		"catalogd.tmdb.api_key", "catalogd.tmdb.base_url", "catalogd.tmdb.language",
	} {
		_ = v.BindEnv(key)
	}
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if len(c.Lists) == 0 {
		return errors.New("config: at least one list is required")
	}
	seen := make(map[domain.ListKind]bool)
	for _, l := range c.Lists {
		if _, err := domain.ParseListKind(string(l.Key)); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if l.Path == "" {
			return fmt.Errorf("config: list %q has no path", l.Key)
		}
		if seen[l.Key] {
			return fmt.Errorf("config: list %q is defined twice", l.Key)
		}
		seen[l.Key] = true
	}
	if c.Carousel.Step <= 0 {
		return fmt.Errorf("config: carousel.step must be positive, got %d", c.Carousel.Step)
	}
	if c.Carousel.EndTolerance < 0 {
		return fmt.Errorf("config: carousel.end_tolerance must not be negative, got %d", c.Carousel.EndTolerance)
	}
	if c.Catalogd.PageSize <= 0 {
		return fmt.Errorf("config: catalogd.page_size must be positive, got %d", c.Catalogd.PageSize)
	}
	return nil
}

// List returns the configured list with the given key
func (c *Config) List(key domain.ListKind) (domain.List, error) {
	for _, l := range c.Lists {
		if l.Key == key {
			return l, nil
		}
	}
	return domain.List{}, fmt.Errorf("%w: %q", domain.ErrUnknownList, key)
}

// SaveConfig writes the configuration to path, or to the default location
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("server.url", cfg.Server.URL)

	lists := make([]map[string]any, len(cfg.Lists))
	for i, l := range cfg.Lists {
		lists[i] = map[string]any{"key": string(l.Key), "title": l.Title, "path": l.Path, "filter_path": l.FilterPath}
	}
	v.Set("lists", lists)

	genres := make([]map[string]any, len(cfg.Genres))
	for i, g := range cfg.Genres {
		genres[i] = map[string]any{"id": g.ID, "name": g.Name}
	}
	v.Set("genres", genres)

	v.Set("labels.load_more", cfg.Labels.LoadMore)
	v.Set("labels.loading", cfg.Labels.Loading)
	v.Set("labels.end_of_list", cfg.Labels.EndOfList)
	v.Set("labels.retry", cfg.Labels.Retry)
	v.Set("labels.search", cfg.Labels.Search)
	v.Set("labels.searching", cfg.Labels.Searching)
	v.Set("labels.no_results", cfg.Labels.NoResults)

	v.Set("carousel.step", cfg.Carousel.Step)
	v.Set("carousel.end_tolerance", cfg.Carousel.EndTolerance)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.grid_columns", cfg.UI.GridColumns)
	v.Set("ui.default_view", cfg.UI.DefaultView)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("catalogd.listen", cfg.Catalogd.Listen)
	v.Set("catalogd.backend", cfg.Catalogd.Backend)
	v.Set("catalogd.db_path", cfg.Catalogd.DBPath)
	v.Set("catalogd.page_size", cfg.Catalogd.PageSize)
	v.Set("catalogd.tmdb.base_url", cfg.Catalogd.TMDB.BaseURL)
	v.Set("catalogd.tmdb.image_base_url", cfg.Catalogd.TMDB.ImageBaseURL)
	v.Set("catalogd.tmdb.language", cfg.Catalogd.TMDB.Language)
	v.Set("catalogd.tmdb.rate_per_second", cfg.Catalogd.TMDB.RatePerSecond)
	v.Set("catalogd.tmdb.burst", cfg.Catalogd.TMDB.Burst)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigPath returns the default config file path
func ConfigPath() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}
