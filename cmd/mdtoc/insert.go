package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/ui"
)

func (c *cli) insertCmd() *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "insert [files...]",
		Short: "Insert the TOC between <!-- toc --> markers",
		Long: `Insert regenerates the TOC between the <!-- toc --> and <!-- tocstop -->
markers. Without --in-place a single document (or stdin) is written to
stdout. With --in-place every file and every markdown file under the given
directories is rewritten when its TOC changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !inPlace {
				if len(args) > 1 {
					return errors.New("multiple files require --in-place")
				}
				return c.insertStdout(cmd, inputArg(args))
			}

			paths, err := discover(args)
			if err != nil {
				return err
			}
			r, done, err := c.runner()
			if err != nil {
				return err
			}
			defer done()

			results, err := r.InsertFiles(cmd.Context(), paths, true)
			c.report(cmd, results)
			return err
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "rewrite files instead of printing")
	return cmd
}

func (c *cli) insertStdout(cmd *cobra.Command, path string) error {
	data, err := app.ReadInput(path, c.stdin)
	if err != nil {
		return err
	}
	updated, err := c.engine().Insert(string(data))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), updated)
	return err
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Fail when a TOC is out of date",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := discover(args)
			if err != nil {
				return err
			}
			r, done, err := c.runner()
			if err != nil {
				return err
			}
			defer done()

			results, err := r.CheckFiles(cmd.Context(), paths)
			c.report(cmd, results)
			return err
		},
	}
}

// discover expands args, defaulting to the working directory.
func discover(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	paths, err := app.Discover(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errNoFiles
	}
	return paths, nil
}

func (c *cli) report(cmd *cobra.Command, results []app.FileResult) {
	if len(results) == 0 {
		return
	}
	s := ui.NewStyles(ui.DefaultPalette())
	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprintln(out, s.Status(res))
	}
	fmt.Fprintln(out, s.Summary(results))
}
