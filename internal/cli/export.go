package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/adapter/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/poster"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		maxPages int
		outPath  string
		genres   string
	)

	cmd := &cobra.Command{
		Use:   "export [list]",
		Short: "Render a list as an HTML poster grid",
		Long: `Render a catalog list as the HTML poster grid a browser would build.

The first page is loaded, then "load more" is repeated until the list is
exhausted or --max-pages pages were requested. With --genres the list is
searched through its filtered endpoint instead.`,
		Example: `  marquee export filmes
  marquee export series --genres 16,35 --out series.html
  marquee export filmes --max-pages 0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.lookupList(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			grid := poster.NewHTMLGrid()
			pages, err := a.export(ctx, cmd, list, grid, filter.SplitGenres(genres), maxPages)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if _, err := grid.WriteTo(out); err != nil {
				return fmt.Errorf("writing grid: %w", err)
			}

			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s, %s)\n",
					formatStats("Wrote"), outPath,
					formatMuted(fmt.Sprintf("%d pages", pages)),
					formatMuted(fmt.Sprintf("%d nodes", grid.Len())))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPages, "max-pages", 5, "Maximum pages to request (0 = until exhausted)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&genres, "genres", "", "Comma-separated genre ids to search for")

	return cmd
}

// export drives a controller into grid and returns the number of pages
// requested. A failed page ends the export with an error.
func (a *App) export(ctx context.Context, cmd *cobra.Command, list domain.List, grid domain.Renderer, genres []string, maxPages int) (int, error) {
	logger := a.consoleLogger(cmd).With("list", list.Key)
	client := catalog.NewClient(a.config.Server.URL, logger)
	ctrl := pagination.New(list, client, grid,
		pagination.WithLabels(a.config.Labels),
		pagination.WithLogger(logger),
	)

	var res pagination.Result
	if len(genres) > 0 {
		if !list.Filterable() {
			return 0, fmt.Errorf("%w: %s", domain.ErrFilterUnsupported, list.Key)
		}
		form := make(filter.Checkboxes, len(genres))
		for i, id := range genres {
			form[i] = filter.Checkbox{Name: filter.GenreField, Value: id, Checked: true}
		}
		res = ctrl.Search(ctx, form)
	} else {
		res = ctrl.Refresh(ctx)
	}

	pages := 1
	for {
		if res.Outcome == pagination.OutcomeFailed {
			return pages, fmt.Errorf("page %d: %w", ctrl.State().CurrentPage, res.Err)
		}
		if ctrl.LoadMoreTrigger().Phase == pagination.PhaseExhausted {
			break
		}
		if maxPages > 0 && pages >= maxPages {
			break
		}
		res = ctrl.LoadMore(ctx)
		pages++
	}

	logger.Info("export finished", "pages", pages, "page", ctrl.State().CurrentPage)
	return pages, nil
}
