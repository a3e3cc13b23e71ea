// Package report holds the reporting primitives shared by every stage:
// savings arithmetic, the running byte totals, audit findings, and the capped
// listing used to print long lists.
package report

import (
	"fmt"
	"sort"
)

// Policy thresholds. Comparisons against them are strict (">").
const (
	OversizedBytes int64 = 200 * 1024      // 204800
	LazyLoadBytes  int64 = 5 * 1024 * 1024 // total image weight that triggers the lazy-loading advice
	ListingCap           = 10
)

// SavingsPercent returns 1 - out/in as a fraction (0.25 means 25% smaller).
// It is never clamped: a larger output yields a negative value. A zero-byte
// input yields 0.
func SavingsPercent(in, out int64) float64 {
	if in <= 0 {
		return 0
	}
	return 1 - float64(out)/float64(in)
}

// Output is one artifact derived from an input.
type Output struct {
	Label string // "minified", "critical", "reencoded", "webp", ...
	Path  string
	Size  int64
}

// Result records one input and the outputs derived from it.
type Result struct {
	Path      string
	InputSize int64
	Outputs   []Output
}

// Output returns the output with the given label.
func (r Result) Output(label string) (Output, bool) {
	for _, o := range r.Outputs {
		if o.Label == label {
			return o, true
		}
	}
	return Output{}, false
}

// Savings returns the savings fraction of the labeled output relative to the
// input, or 0 when no such output exists.
func (r Result) Savings(label string) float64 {
	o, ok := r.Output(label)
	if !ok {
		return 0
	}
	return SavingsPercent(r.InputSize, o.Size)
}

// Totals accumulates per-asset sizes across a run. Aggregate savings derive
// from the sums, never from averaging per-asset percentages.
type Totals struct {
	Count       int
	TotalInput  int64
	TotalOutput int64
}

// Add records one asset.
func (t *Totals) Add(in, out int64) {
	t.Count++
	t.TotalInput += in
	t.TotalOutput += out
}

// Saved returns TotalInput - TotalOutput. Negative means outputs grew.
func (t Totals) Saved() int64 {
	return t.TotalInput - t.TotalOutput
}

// Savings returns the aggregate savings fraction.
func (t Totals) Savings() float64 {
	return SavingsPercent(t.TotalInput, t.TotalOutput)
}

// AverageInput returns TotalInput / Count, or 0 when nothing was counted.
func (t Totals) AverageInput() int64 {
	if t.Count == 0 {
		return 0
	}
	return t.TotalInput / int64(t.Count)
}

// FindingKind classifies an audit finding.
type FindingKind string

const (
	Oversized           FindingKind = "oversized"
	MissingModernFormat FindingKind = "missing-modern-format"
)

// Finding is one audit observation about one image.
type Finding struct {
	Kind FindingKind
	Path string
	Name string
	Size int64
}

// Cap returns at most limit items from the front of items and the number of
// items left out.
func Cap[T any](items []T, limit int) (shown []T, more int) {
	if limit < 0 || len(items) <= limit {
		return items, 0
	}
	return items[:limit], len(items) - limit
}

// MoreLine renders the continuation line printed after a capped listing.
func MoreLine(more int) string {
	return fmt.Sprintf("... and %d more", more)
}

// Listing renders lines as a numbered list capped at ListingCap, followed by
// the continuation line when the list was longer.
func Listing(lines []string) []string {
	shown, more := Cap(lines, ListingCap)
	out := make([]string, 0, len(shown)+1)
	for i, l := range shown {
		out = append(out, fmt.Sprintf("%d. %s", i+1, l))
	}
	if more > 0 {
		out = append(out, MoreLine(more))
	}
	return out
}

// Ranked returns a copy of items sorted by size, largest first. Ties keep
// their original order.
func Ranked[T any](items []T, size func(T) int64) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return size(out[i]) > size(out[j]) })
	return out
}

// Recommendations returns the advice lines for an audit, in fixed order.
func Recommendations(oversized, missingModern int, totalBytes int64) []string {
	var recs []string
	if oversized > 0 {
		recs = append(recs, "Compress oversized images to under 200KB")
	}
	if missingModern > 0 {
		recs = append(recs, "Create WebP versions for better compression")
	}
	if totalBytes > LazyLoadBytes {
		recs = append(recs, "Total image size is high, consider lazy loading")
	}
	return recs
}
