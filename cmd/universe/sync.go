package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yigit/universe/internal/bootstrap"
	"github.com/yigit/universe/internal/config"
	"github.com/yigit/universe/internal/pkg/workbook"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy every worksheet from Google Sheets into the SQL store",
	Long: `Reads the configured worksheets from the Google spreadsheet and replaces
their contents in the PostgreSQL or SQLite store selected by STORAGE_DRIVER.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		switch cfg.Storage.Driver {
		case config.DriverPostgres, config.DriverSQLite:
		default:
			return fmt.Errorf("sync needs a postgres or sqlite store, got %q", cfg.Storage.Driver)
		}
		ctx := cmd.Context()

		wb, release, err := bootstrap.SetupWorkbook(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer release()

		dst, ok := wb.(workbook.Loader)
		if !ok {
			return fmt.Errorf("%s store cannot be bulk loaded", wb.Source())
		}

		src := bootstrap.NewGoogleWorkbook(cfg, lgr)
		res, err := workbook.Copy(ctx, src, dst, bootstrap.SheetNames(cfg).All(), lgr)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(res.Rows))
		for name := range res.Rows {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d rows\n", name, res.Rows[name])
		}
		for _, name := range res.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s skipped\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
