package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/pkg/workbook"
)

// Target is a store that can report and bulk load worksheets.
type Target interface {
	workbook.Loader
	HasSheet(ctx context.Context, name string) (bool, error)
}

// CreateDefaultData loads the bundled sample worksheets into every configured
// worksheet that does not exist yet. Existing worksheets are never touched.
// Errors are collected so one failing worksheet does not stop the rest.
func CreateDefaultData(ctx context.Context, target Target, names workbook.SheetNames, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default worksheets...")
	var finalErr error

	byLogical := names.ByLogical()
	logical := make([]string, 0, len(byLogical))
	for k := range byLogical {
		logical = append(logical, k)
	}
	sort.Strings(logical)

	created := 0
	for _, key := range logical {
		title := byLogical[key]
		if title == "" {
			continue
		}

		exists, err := target.HasSheet(ctx, title)
		if err != nil {
			lgr.Error().Err(err).Str("worksheet", title).Msg("Error checking worksheet")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			lgr.Debug().Str("worksheet", title).Msg("Worksheet already exists, skipping")
			continue
		}

		header, rows, err := workbook.SampleRows(key)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if err := target.ReplaceSheet(ctx, title, header, rows); err != nil {
			lgr.Error().Err(err).Str("worksheet", title).Msg("Error seeding worksheet")
			finalErr = errors.Join(finalErr, fmt.Errorf("seed %q: %w", title, err))
			continue
		}
		created++
		lgr.Info().Str("worksheet", title).Int("rows", len(rows)).Msg("Worksheet seeded with sample data")
	}

	lgr.Info().Int("created", created).Msg("Default worksheet check/creation finished.")
	return finalErr
}
