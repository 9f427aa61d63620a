package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/catalogd"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
)

func (a *App) serveCmd() *cobra.Command {
	var (
		listen  string
		backend string
		dbPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local catalog API",
		Long: `Run the catalog API consumed by marquee.

The bolt backend serves items imported with "marquee import"; the tmdb
backend proxies TMDB popular and discover lists (requires an API key in
catalogd.tmdb.api_key or MARQUEE_CATALOGD_TMDB_API_KEY).`,
		Example: `  marquee serve
  marquee serve --backend tmdb --listen :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.config.Catalogd
			if listen != "" {
				cfg.Listen = listen
			}
			if backend != "" {
				cfg.Backend = backend
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}

			logger := a.consoleLogger(cmd)
			b, closeFn, err := openBackend(cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return catalogd.New(b, logger).ListenAndServe(ctx, cfg.Listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, :5000)")
	cmd.Flags().StringVar(&backend, "backend", "", "Backend: bolt or tmdb")
	cmd.Flags().StringVar(&dbPath, "db", "", "Catalog database path for the bolt backend (empty = memory)")

	return cmd
}

// openBackend builds the configured catalog backend. The returned func releases
// its resources.
func openBackend(cfg adapter.CatalogdConfig, logger *slog.Logger) (catalogd.Backend, func(), error) {
	switch cfg.Backend {
	case "bolt":
		s, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening catalog store: %w", err)
		}
		for _, kind := range s.Kinds() {
			logger.Info("catalog list", "list", kind, "items", s.Count(kind))
		}
		return catalogd.NewBoltBackend(s, cfg.PageSize), func() { _ = s.Close() }, nil

	case "tmdb":
		client := tmdb.NewClient(tmdb.Config{
			APIKey:        cfg.TMDB.APIKey,
			BaseURL:       cfg.TMDB.BaseURL,
			ImageBaseURL:  cfg.TMDB.ImageBaseURL,
			Language:      cfg.TMDB.Language,
			RatePerSecond: cfg.TMDB.RatePerSecond,
			Burst:         cfg.TMDB.Burst,
		}, logger)
		if !client.IsConfigured() {
			return nil, nil, tmdb.ErrNoAPIKey
		}
		return catalogd.NewTMDBBackend(client), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want bolt or tmdb)", cfg.Backend)
	}
}
