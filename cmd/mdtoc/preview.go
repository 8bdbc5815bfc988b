package main

import (
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/preview"
)

func (c *cli) previewCmd() *cobra.Command {
	var (
		htmlOut string
		style   string
		width   int
	)
	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Render a document with its TOC",
		Long: `Preview renders the document as insert would leave it. By default it is
styled for the terminal; with --html a standalone page with the TOC in a
sidebar is written instead ("-" for stdout).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("style") {
				c.cfg.PreviewStyle = style
			}
			if cmd.Flags().Changed("width") {
				c.cfg.PreviewWidth = width
			}

			data, err := app.ReadInput(inputArg(args), c.stdin)
			if err != nil {
				return err
			}
			r := preview.New(c.engine(), c.log)

			if htmlOut == "" {
				out, err := r.Terminal(string(data), c.cfg.PreviewStyle, c.cfg.PreviewWidth)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}

			if htmlOut == "-" {
				return r.HTML(cmd.OutOrStdout(), string(data))
			}
			var page strings.Builder
			if err := r.HTML(&page, string(data)); err != nil {
				return err
			}
			if err := atomic.WriteFile(htmlOut, strings.NewReader(page.String())); err != nil {
				return fmt.Errorf("write %s: %w", htmlOut, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", htmlOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlOut, "html", "", "write an html page to this path")
	cmd.Flags().StringVar(&style, "style", "", "glamour style: dark, light, notty, ascii, dracula")
	cmd.Flags().IntVar(&width, "width", 0, "terminal word wrap width")
	return cmd
}
