package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/adapter/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
)

func (a *App) listCmd() *cobra.Command {
	var (
		page   int
		genres string
	)

	cmd := &cobra.Command{
		Use:   "list [list]",
		Short: "Print one page of a catalog list",
		Long: `Print one page of a catalog list as plain text.

Items without a poster are never shown by the grid; they are listed here
marked "sem pôster".`,
		Example: `  marquee list
  marquee list series --page 2
  marquee list series --genres 18`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.lookupList(args)
			if err != nil {
				return err
			}
			if page < 1 {
				return domain.ErrInvalidPage
			}
			if genres != "" && !list.Filterable() {
				return fmt.Errorf("%w: %s", domain.ErrFilterUnsupported, list.Key)
			}

			client := catalog.NewClient(a.config.Server.URL, a.consoleLogger(cmd))
			q := domain.PageQuery{
				List:   list,
				Page:   page,
				Genres: strings.Join(filter.SplitGenres(genres), ","),
			}
			items, err := client.FetchPage(cmd.Context(), q)
			if err != nil {
				return err
			}

			printPage(cmd.OutOrStdout(), list, page, items, a.config.Labels.EndOfList, termWidth())
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().StringVar(&genres, "genres", "", "Comma-separated genre ids (filterable lists only)")

	return cmd
}

// printPage writes one line per item, truncated to width
func printPage(w io.Writer, list domain.List, page int, items []domain.CatalogItem, endOfList string, width int) {
	fmt.Fprintf(w, "%s %s\n", formatHeader(fmt.Sprintf("=== %s ===", list.Title)), formatMuted(fmt.Sprintf("página %d", page)))
	if len(items) == 0 {
		fmt.Fprintln(w, formatMuted(endOfList))
		return
	}

	for i, item := range items {
		title := truncate(item.Title, max(width-24, 10))
		var meta []string
		if y := item.Year(); y != "" {
			meta = append(meta, y)
		}
		if item.Rating > 0 {
			meta = append(meta, fmt.Sprintf("★ %.1f", item.Rating))
		}

		line := fmt.Sprintf("  %2d. %s", i+1, formatTitle(title))
		if len(meta) > 0 {
			line += " " + formatMuted(strings.Join(meta, " · "))
		}
		if !item.HasPoster() {
			line += " " + formatWarn("sem pôster")
		}
		fmt.Fprintln(w, line)
	}
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
