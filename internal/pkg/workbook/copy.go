package workbook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/universe/internal/pkg/apperrors"
)

// copyConcurrency bounds the worksheets read from the source at once
const copyConcurrency = 4

// CopyResult reports the rows written per worksheet; missing worksheets are listed in Skipped.
type CopyResult struct {
	Rows    map[string]int
	Skipped []string
}

// Copy reads the named worksheets from src concurrently and replaces them in dst.
// Worksheets src does not have are skipped. Blank rows are dropped, so row
// positions in dst are renumbered.
func Copy(ctx context.Context, src Workbook, dst Loader, names []string, logger zerolog.Logger) (*CopyResult, error) {
	res := &CopyResult{Rows: make(map[string]int)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)

	for _, name := range dedupe(names) {
		g.Go(func() error {
			s, err := src.Sheet(ctx, name)
			if errors.Is(err, apperrors.ErrSheetNotFound) || (err == nil && len(s.Header) == 0) {
				logger.Warn().Str("sheet", name).Str("source", src.Source()).Msg("Worksheet missing in source, skipped")
				mu.Lock()
				res.Skipped = append(res.Skipped, name)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return fmt.Errorf("read %q from %s: %w", name, src.Source(), err)
			}

			rows := make([][]string, len(s.Records))
			for i, r := range s.Records {
				cells := make([]string, len(s.Header))
				for j, h := range s.Header {
					cells[j] = r.Values[h]
				}
				rows[i] = cells
			}
			if err := dst.ReplaceSheet(ctx, name, s.Header, rows); err != nil {
				return fmt.Errorf("write %q: %w", name, err)
			}

			logger.Info().Str("sheet", name).Int("rows", len(rows)).Msg("Worksheet copied")
			mu.Lock()
			res.Rows[name] = len(rows)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
