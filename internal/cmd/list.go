package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/cmdutil"
	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/output"
	"github.com/grimwm/stencil/internal/templates"
)

// NewListCmd creates the list command.
func NewListCmd(cfg *config.GlobalConfig) *cobra.Command {
	var (
		outputFlag string
		bundled    bool
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List packages defined in the config",
		Long: `List every package in the config with its type, output directory
and services.

Examples:
  # Table of packages
  stencil list

  # Machine-readable listing
  stencil list -o json

  # Templates compiled into the binary
  stencil list --bundled`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if bundled {
				return runListBundled(c.OutOrStdout(), outputFlag)
			}
			return runList(c, cfg, outputFlag)
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))
	c.Flags().BoolVar(&bundled, "bundled", false,
		"List the bundled templates instead of packages")
	return c
}

func parseListFormat(outputFmt string) (output.OutputFormat, error) {
	format := output.ParseOutputFormat(outputFmt)
	if !format.IsValid() {
		return format, &oerrors.ExitError{
			Code: oerrors.ExitGeneralError,
			Err: fmt.Errorf("invalid output format %q (valid: %s)",
				outputFmt, strings.Join(output.ValidFormats(), ", ")),
		}
	}
	return format, nil
}

// runListBundled needs no config file: the bundled templates are part
// of the binary.
func runListBundled(w io.Writer, outputFmt string) error {
	format, err := parseListFormat(outputFmt)
	if err != nil {
		return err
	}

	names, err := templates.ListBundled()
	if err != nil {
		return fmt.Errorf("listing bundled templates: %w", err)
	}

	if format != output.FormatTable {
		return output.WriteData(w, format, names)
	}
	tbl := output.NewTable("TEMPLATE", "DEST")
	for _, name := range names {
		tbl.Row(name, templates.DestFromSrc(name))
	}
	fmt.Fprintln(w, tbl.String())
	return nil
}

func runList(c *cobra.Command, cfg *config.GlobalConfig, outputFmt string) error {
	format, err := parseListFormat(outputFmt)
	if err != nil {
		return err
	}

	loaded, err := cmdutil.LoadConfig(cfg)
	if err != nil {
		return err
	}

	rows := packageRows(loaded)
	if format == output.FormatTable {
		fmt.Fprintln(c.OutOrStdout(), output.RenderPackageTable(rows))
		return nil
	}
	return output.WriteData(c.OutOrStdout(), format, rows)
}

func packageRows(c *config.Config) []output.PackageRow {
	ids := c.Packages.IDs()
	rows := make([]output.PackageRow, 0, len(ids))
	for _, id := range ids {
		pkg, _ := c.Packages.Get(id)
		row := output.PackageRow{
			ID:       id,
			Name:     pkg.Name,
			Type:     string(pkg.Type),
			Dir:      pkg.Dir,
			Services: strings.Join(pkg.Services, ","),
		}
		if row.Name == "" {
			row.Name = id
		}
		if row.Dir == "" {
			row.Dir = id
		}
		rows = append(rows, row)
	}
	return rows
}
