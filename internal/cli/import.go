package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
)

func (a *App) importCmd() *cobra.Command {
	var (
		dbPath     string
		clearFirst bool
	)

	cmd := &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Import a catalog fixture into the local store",
		Long: `Import a YAML catalog fixture into the store served by "marquee serve".

The fixture is validated before anything is written. Lists present in the
fixture replace the stored ones; other lists are kept unless --clear is set.

  filmes:
    - titulo: Duna
      poster_url: https://image.tmdb.org/t/p/w500/d5NXSklXo0qyIYkgV94XAgMIckC.jpg
      data_lancamento: "2021-10-21"
      nota: 7.8
  series:
    - titulo: Arcane
      generos: ["16", "10765"]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening fixture: %w", err)
			}
			defer f.Close()

			fixture, err := store.LoadFixture(f)
			if err != nil {
				return err
			}

			path := a.config.Catalogd.DBPath
			if cmd.Flags().Changed("db") {
				path = dbPath
			}
			if path == "" {
				return fmt.Errorf("import needs a database path (--db or catalogd.db_path)")
			}

			s, err := store.Open(path)
			if err != nil {
				return fmt.Errorf("opening catalog store: %w", err)
			}
			defer s.Close()

			if clearFirst {
				if err := s.Clear(); err != nil {
					return fmt.Errorf("clearing catalog store: %w", err)
				}
			}

			counts, err := s.Import(fixture)
			if err != nil {
				return err
			}

			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, string(k))
			}
			sort.Strings(kinds)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatHeader("Imported into"), path)
			for _, k := range kinds {
				fmt.Fprintf(out, "  %-8s %s\n", k, formatStats(fmt.Sprintf("%d items", counts[domain.ListKind(k)])))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Catalog database path (default from config)")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Remove every stored list before importing")

	return cmd
}
