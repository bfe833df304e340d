package workbook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/helpers"
)

// ErrNotConfigured is returned when no spreadsheet id or credentials are available.
var ErrNotConfigured = errors.New("google sheets not configured")

// GoogleConfig configures the Google Sheets workbook.
type GoogleConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	Retry           helpers.RetryConfig
	// Options replace the credentials file option, used by tests to point at a fake endpoint.
	Options []option.ClientOption
}

// Google reads and writes a Google spreadsheet through the Sheets v4 API.
type Google struct {
	cfg    GoogleConfig
	logger zerolog.Logger

	mu  sync.Mutex
	svc *sheets.Service
}

// NewGoogle creates the workbook. Authentication happens lazily on first use so a
// missing credentials file only surfaces when data is requested.
func NewGoogle(cfg GoogleConfig, logger zerolog.Logger) *Google {
	return &Google{cfg: cfg, logger: logger.With().Str("component", "google-sheets").Logger()}
}

// Source implements Workbook.
func (g *Google) Source() string {
	return "google-sheets"
}

func (g *Google) service(ctx context.Context) (*sheets.Service, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.svc != nil {
		return g.svc, nil
	}
	if g.cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SHEET_ID is not set", ErrNotConfigured)
	}

	opts := g.cfg.Options
	if len(opts) == 0 {
		if _, err := os.Stat(g.cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("%w: credentials file %q: %v", ErrNotConfigured, g.cfg.CredentialsFile, err)
		}
		opts = []option.ClientOption{
			option.WithCredentialsFile(g.cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope),
		}
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets client: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	g.logger.Info().Str("spreadsheet", g.cfg.SpreadsheetID).Msg("Authenticated with Google Sheets")
	g.svc = svc
	return svc, nil
}

// Sheet implements Workbook. The first row of the worksheet is the header.
func (g *Google) Sheet(ctx context.Context, name string) (*Sheet, error) {
	values, err := g.values(ctx, name, quoteSheet(name))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return &Sheet{Name: name}, nil
	}
	return buildSheet(name, values[0], values[1:]), nil
}

// AppendRow implements Workbook.
func (g *Google) AppendRow(ctx context.Context, name string, values map[string]string) error {
	header, err := g.header(ctx, name)
	if err != nil {
		return err
	}
	row, err := alignRow(name, header, values)
	if err != nil {
		return err
	}

	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err = svc.Spreadsheets.Values.Append(g.cfg.SpreadsheetID, quoteSheet(name), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return translateError(name, err)
	}
	return nil
}

// UpdateRow implements Workbook. Only the given cells are written.
func (g *Google) UpdateRow(ctx context.Context, name string, row int, values map[string]string) error {
	if row < 0 {
		return rowNotFound(name, row)
	}
	header, err := g.header(ctx, name)
	if err != nil {
		return err
	}

	data := make([]*sheets.ValueRange, 0, len(values))
	for k, v := range values {
		idx := columnIndex(header, k)
		if idx < 0 {
			return fmt.Errorf("%w: %q in worksheet %q", apperrors.ErrColumnNotFound, k, name)
		}
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", quoteSheet(name), ColumnLetter(idx), row+2),
			Values: [][]interface{}{{v}},
		})
	}
	if len(data) == 0 {
		return nil
	}

	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "USER_ENTERED", Data: data}
	if _, err := svc.Spreadsheets.Values.BatchUpdate(g.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return translateError(name, err)
	}
	return nil
}

func (g *Google) header(ctx context.Context, name string) ([]string, error) {
	values, err := g.values(ctx, name, quoteSheet(name)+"!1:1")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

func (g *Google) values(ctx context.Context, name, rng string) ([][]string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	var resp *sheets.ValueRange
	err = g.cfg.Retry.Do(ctx, "read worksheet "+name, func() error {
		var callErr error
		resp, callErr = svc.Spreadsheets.Values.Get(g.cfg.SpreadsheetID, rng).Context(ctx).Do()
		if callErr != nil && !retryable(callErr) {
			return backoff.Permanent(callErr)
		}
		return callErr
	})
	if err != nil {
		return nil, translateError(name, err)
	}

	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = fmt.Sprint(c)
		}
		out[i] = cells
	}
	return out, nil
}

func retryable(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError
	}
	return true
}

func translateError(name string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusNotFound,
			gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"):
			return sheetNotFound(name)
		}
	}
	return fmt.Errorf("%w: worksheet %q: %v", apperrors.ErrUpstreamUnavailable, name, err)
}

// quoteSheet renders a worksheet title for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// ColumnLetter converts a zero-based column index to its A1 letters (0 -> A, 26 -> AA).
func ColumnLetter(idx int) string {
	var b []byte
	for idx >= 0 {
		b = append([]byte{byte('A' + idx%26)}, b...)
		idx = idx/26 - 1
	}
	return string(b)
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
