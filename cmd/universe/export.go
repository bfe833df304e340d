package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/universe/internal/bootstrap"
	"github.com/yigit/universe/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export <courses|materials|opportunities|jobs|events|timetable>",
	Short:     "Write a listing as CSV",
	Long:      `Reads a listing from the configured store and writes it as CSV to stdout or --out.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: listingNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		listing, err := export.ParseListing(args[0])
		if err != nil {
			return fmt.Errorf("%w (want one of %s)", err, strings.Join(listingNames(), ", "))
		}

		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		wb, release, err := bootstrap.SetupWorkbook(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer release()

		deps, err := bootstrap.BuildDependencies(cfg, wb, lgr)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOut != "" {
			file, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()
			out = file
		}

		n, err := export.NewExporter(deps.Services).Write(ctx, listing, out)
		if err != nil {
			return err
		}
		lgr.Info().Str("listing", string(listing)).Int("rows", n).Str("source", wb.Source()).Msg("Export finished")
		return nil
	},
}

func listingNames() []string {
	var names []string
	for _, l := range export.Listings() {
		names = append(names, string(l))
	}
	return names
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
