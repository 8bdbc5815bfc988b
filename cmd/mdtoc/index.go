package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/config"
	"github.com/pfassina/mdtoc/internal/index"
	"github.com/pfassina/mdtoc/internal/ui"
)

// indexCache opens the configured cache, or the default location when
// none is set.
func (c *cli) indexCache() (*index.Cache, func(), error) {
	path := c.cfg.CachePath
	if path == "" {
		path = config.DefaultCachePath()
	}
	cache, err := c.openCache(path)
	if err != nil {
		return nil, nil, err
	}
	return cache, c.closer(cache), nil
}

func (c *cli) indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [paths...]",
		Short: "Record headings in the cache for search",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := discover(args)
			if err != nil {
				return err
			}
			cache, done, err := c.indexCache()
			if err != nil {
				return err
			}
			defer done()

			r := app.New(c.engine(), c.cfg.Fingerprint(),
				app.WithCache(cache), app.WithLogger(c.log), app.WithJobs(c.cfg.Jobs))
			results, err := r.IndexFiles(cmd.Context(), paths)
			s := ui.NewStyles(ui.DefaultPalette())
			fmt.Fprintln(cmd.OutOrStdout(), s.Summary(results))
			return err
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	var (
		limit int
		list  bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached headings",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, done, err := c.indexCache()
			if err != nil {
				return err
			}
			defer done()

			s := ui.NewStyles(ui.DefaultPalette())
			out := cmd.OutOrStdout()
			if list {
				docs, err := cache.DB().ListDocuments(limit)
				if err != nil {
					return fmt.Errorf("list documents: %w", err)
				}
				for _, d := range docs {
					fmt.Fprintln(out, s.Document(d))
				}
				return nil
			}

			hits, err := cache.DB().SearchHeadings(strings.Join(args, " "), limit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			for _, h := range hits {
				fmt.Fprintln(out, s.Hit(h))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list cached documents instead of searching")
	return cmd
}
