package workbook

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Fallback serves reads from primary and switches to secondary whenever primary fails.
// Writes go to whichever store the worksheet was last read from, so row positions
// handed out by Sheet stay valid for UpdateRow.
type Fallback struct {
	primary   Workbook
	secondary Workbook
	logger    zerolog.Logger

	usingPrimary atomic.Bool

	mu       sync.Mutex
	degraded map[string]bool
}

// NewFallback wraps primary with secondary as the sample-data fallback.
func NewFallback(primary, secondary Workbook, logger zerolog.Logger) *Fallback {
	f := &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "workbook").Logger(),
		degraded:  make(map[string]bool),
	}
	f.usingPrimary.Store(true)
	return f
}

// Source implements Workbook. It reports the store that served the last read.
func (f *Fallback) Source() string {
	if f.usingPrimary.Load() {
		return f.primary.Source()
	}
	return f.secondary.Source()
}

// UsingPrimary reports whether the last read was served by the primary store.
func (f *Fallback) UsingPrimary() bool {
	return f.usingPrimary.Load()
}

// Sheet implements Workbook.
func (f *Fallback) Sheet(ctx context.Context, name string) (*Sheet, error) {
	s, err := f.primary.Sheet(ctx, name)
	if err == nil {
		f.mark(name, false)
		return s, nil
	}

	f.logger.Warn().Err(err).
		Str("worksheet", name).
		Str("primary", f.primary.Source()).
		Str("fallback", f.secondary.Source()).
		Msg("Primary store failed, serving fallback data")
	f.mark(name, true)
	return f.secondary.Sheet(ctx, name)
}

// AppendRow implements Workbook.
func (f *Fallback) AppendRow(ctx context.Context, name string, values map[string]string) error {
	if f.isDegraded(name) {
		return f.secondary.AppendRow(ctx, name, values)
	}
	err := f.primary.AppendRow(ctx, name, values)
	if err == nil {
		return nil
	}
	f.logger.Warn().Err(err).Str("worksheet", name).Msg("Primary store rejected append, writing to fallback")
	f.mark(name, true)
	return f.secondary.AppendRow(ctx, name, values)
}

// UpdateRow implements Workbook.
func (f *Fallback) UpdateRow(ctx context.Context, name string, row int, values map[string]string) error {
	if f.isDegraded(name) {
		return f.secondary.UpdateRow(ctx, name, row, values)
	}
	return f.primary.UpdateRow(ctx, name, row, values)
}

func (f *Fallback) mark(name string, degraded bool) {
	f.usingPrimary.Store(!degraded)
	f.mu.Lock()
	f.degraded[name] = degraded
	f.mu.Unlock()
}

func (f *Fallback) isDegraded(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded[name]
}
