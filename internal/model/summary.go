package model

import "time"

// RunSummary describes one completed conversion run. It is printed at the
// end of the run and persisted to the run database for the history command.
type RunSummary struct {
	// DumpName is the base name of the input dump file.
	DumpName string `json:"dump_name"`

	// OutputDir is the vault directory documents were written to.
	OutputDir string `json:"output_dir"`

	// StartedAt is when the conversion began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the conversion completed.
	FinishedAt time.Time `json:"finished_at"`

	// PagesWritten is the number of Markdown documents produced,
	// including redirect pointer documents.
	PagesWritten int `json:"pages_written"`

	// RedirectsSkipped counts redirect pages excluded by --skip-redirects.
	RedirectsSkipped int `json:"redirects_skipped"`

	// IndexesWritten is the number of per-tag index documents produced.
	IndexesWritten int `json:"indexes_written"`

	// ImagesFetched counts successfully downloaded images.
	ImagesFetched int `json:"images_fetched"`

	// ImageFailures counts images that could not be downloaded.
	// Failures are reported per item and never abort the run.
	ImageFailures int `json:"image_failures"`

	// Warnings tallies non-fatal problems by category.
	Warnings map[string]int `json:"warnings,omitempty"`

	// TagCounts maps each tag to the number of pages associated with it.
	TagCounts map[string]int `json:"tag_counts,omitempty"`
}

// Duration returns the wall-clock duration of the run.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// TotalWarnings returns the sum of all warning tallies.
func (s *RunSummary) TotalWarnings() int {
	total := 0
	for _, n := range s.Warnings {
		total += n
	}
	return total
}
