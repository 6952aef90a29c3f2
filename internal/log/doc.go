// Package log provides warning-aware logging built on top of the
// standard slog package.
//
// The TallyHandler counts warning records by category while passing
// every record through to an underlying handler unchanged. The tally
// feeds the end-of-run summary: the converter never aborts on a bad
// page, so the counts are the only complete picture of what was
// skipped or degraded during a conversion.
//
// # Usage
//
//	tally := log.NewTallyHandler(slog.NewTextHandler(os.Stderr, nil))
//	logger := slog.New(tally)
//
//	logger.Warn("dropped unknown template",
//	    "category", "unknown_template",
//	    "name", "Weather",
//	)
//
//	counts := tally.Counts() // map[unknown_template:1]
package log
