// Package catalogd serves the paginated catalog API consumed by marquee:
//
//	GET /api/filmes?pagina=N
//	GET /api/series?pagina=N
//	GET /api/series/filtrar?pagina=N&generos=a,b
//	GET /healthz
//	GET /metrics
package catalogd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
)

// Server is the catalog HTTP server
type Server struct {
	backend Backend
	logger  *slog.Logger
	handler http.Handler
}

// New creates a server for backend
func New(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{backend: backend, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/filmes", s.handlePage(domain.ListMovies, false))
	mux.HandleFunc("GET /api/series", s.handlePage(domain.ListSeries, false))
	mux.HandleFunc("GET /api/series/filtrar", s.handlePage(domain.ListSeries, true))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = RequestLogger(logger)(CORS(mux))
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("catalog server listening", "addr", ln.Addr().String(), "backend", s.backend.Name())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("catalog server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handlePage(kind domain.ListKind, filtered bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := parsePage(q.Get("pagina"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var genres string
		if filtered {
			ids := filter.SplitGenres(q.Get("generos"))
			for _, id := range ids {
				if _, err := strconv.Atoi(id); err != nil {
					writeError(w, http.StatusBadRequest, fmt.Sprintf("generos: invalid genre id %q", id))
					return
				}
			}
			genres = strings.Join(ids, ",")
		}

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		items, err := s.backend.Page(ctx, kind, page, genres)
		if err != nil {
			s.logger.Error("backend page failed",
				"backend", s.backend.Name(),
				"list", kind,
				"page", page,
				"genres", genres,
				"error", err,
			)
			writeError(w, http.StatusBadGateway, "catalog backend unavailable")
			return
		}
		if items == nil {
			items = []domain.CatalogItem{}
		}

		itemsServed.WithLabelValues(string(kind)).Add(float64(len(items)))
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "backend": s.backend.Name()})
}

// parsePage parses the pagina parameter; a missing value means page 1
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("pagina: must be a positive integer, got %q", raw)
	}
	return page, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
