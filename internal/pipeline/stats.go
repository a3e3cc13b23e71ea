package pipeline

import "github.com/backmassage/assetpress/internal/report"

// RunStats tracks the image transcode counters and byte totals. Primary holds
// original vs re-encoded sizes of successful files only; WebP is kept apart
// and never folded into the primary aggregate.
type RunStats struct {
	Total     int
	Processed int
	Failed    int
	Skipped   int // not started because the run was interrupted
	Primary   report.Totals
	WebP      report.Totals
}

// SpaceSaved returns the aggregate byte difference between originals and
// re-encoded copies. Negative means the copies grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.Primary.Saved()
}
