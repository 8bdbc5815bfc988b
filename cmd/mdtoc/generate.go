package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pfassina/mdtoc/internal/app"
)

func (c *cli) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [file|-]",
		Short: "Print the TOC of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runGenerate,
	}
	addFormatFlags(cmd)
	return cmd
}

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "print the result as json (same as --format json)")
	cmd.Flags().String("format", "md", "output format: md, json or yaml")
}

func outputFormat(cmd *cobra.Command) (string, error) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return "json", nil
	}
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "", "md", "markdown":
		return "md", nil
	case "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func (c *cli) runGenerate(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	data, err := app.ReadInput(inputArg(args), c.stdin)
	if err != nil {
		return err
	}
	res, err := c.engine().Generate(string(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}
	if res.Content != "" {
		fmt.Fprintln(out, res.Content)
	}
	return nil
}
