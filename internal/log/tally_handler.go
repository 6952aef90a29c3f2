package log

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// CategoryKey is the attribute key TallyHandler inspects to classify a
// warning record.
const CategoryKey = "category"

// defaultCategory buckets warnings logged without a category attribute.
const defaultCategory = "general"

// TallyHandler wraps an slog.Handler and counts records at warn level
// or above by their category attribute. Records pass through to the
// underlying handler unchanged.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Pipeline steps stay unaware of the tally; they just log
type TallyHandler struct {
	// handler is the underlying slog handler that receives all records.
	handler slog.Handler

	// preset holds category attributes bound via WithAttrs.
	preset string

	// mu guards counts. Handlers derived via WithAttrs and WithGroup
	// share the same counts map.
	mu     *sync.Mutex
	counts map[string]int
}

// NewTallyHandler creates a TallyHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewTallyHandler(handler slog.Handler) *TallyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &TallyHandler{
		handler: handler,
		mu:      &sync.Mutex{},
		counts:  make(map[string]int),
	}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TallyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Warnings must be tallied even when the underlying handler is
	// filtered above warn level; the summary depends on the counts.
	if level >= slog.LevelWarn {
		return true
	}
	return h.handler.Enabled(ctx, level)
}

// Handle counts warn-and-above records by category, then passes the
// record to the underlying handler if it wants it.
func (h *TallyHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		category := h.preset
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == CategoryKey {
				category = a.Value.String()
				return false
			}
			return true
		})
		if category == "" {
			category = defaultCategory
		}

		h.mu.Lock()
		h.counts[category]++
		h.mu.Unlock()
	}

	if !h.handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added. A
// category attribute among them classifies all records logged through
// the derived handler.
func (h *TallyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	for _, a := range attrs {
		if a.Key == CategoryKey {
			derived.preset = a.Value.String()
		}
	}
	derived.handler = h.handler.WithAttrs(attrs)
	return &derived
}

// WithGroup returns a new handler with the given group name.
func (h *TallyHandler) WithGroup(name string) slog.Handler {
	derived := *h
	derived.handler = h.handler.WithGroup(name)
	return &derived
}

// Counts returns a copy of the per-category warning tallies.
func (h *TallyHandler) Counts() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	counts := make(map[string]int, len(h.counts))
	for category, n := range h.counts {
		counts[category] = n
	}
	return counts
}

// Total returns the sum of all warning tallies.
func (h *TallyHandler) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := 0
	for _, n := range h.counts {
		total += n
	}
	return total
}

// NewLogger creates a logger whose warnings are tallied by category.
// It returns both the logger and the handler so callers can read the
// tallies after the run.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) (*slog.Logger, *TallyHandler) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	tally := NewTallyHandler(slog.NewTextHandler(w, opts))
	return slog.New(tally), tally
}
