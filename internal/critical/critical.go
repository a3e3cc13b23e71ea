// Package critical extracts the above-the-fold subset of a stylesheet.
//
// The extractor is a line-oriented substring scan, not a CSS parser. A line
// that contains any configured selector opens a block; every line of an open
// block is kept; a kept line containing "}" closes the block. Selectors are
// matched as plain substrings, so "*" also matches comment openers and ".nav"
// also matches ".navbar".
package critical

import "strings"

// DefaultSelectors are the selectors treated as above-the-fold.
var DefaultSelectors = []string{
	"body", "html", "*", ".header", ".hero", ".logo", ".nav",
	"h1", "h2", ".container", ".cta-button",
}

type state int

const (
	scanning state = iota
	inBlock
)

// Extractor holds the selector set used by Extract.
type Extractor struct {
	Selectors []string
}

// New returns an Extractor for selectors.
func New(selectors []string) *Extractor {
	return &Extractor{Selectors: selectors}
}

// Extract returns the critical subset of css using DefaultSelectors.
func Extract(css string) string {
	return New(DefaultSelectors).Extract(css)
}

// Extract splits css on "\n", keeps the lines of every critical block and
// joins them with "\n". The result has no trailing newline.
func (e *Extractor) Extract(css string) string {
	var kept []string
	st := scanning
	for _, line := range strings.Split(css, "\n") {
		if e.matches(line) {
			st = inBlock
		}
		if st != inBlock {
			continue
		}
		kept = append(kept, line)
		if strings.Contains(line, "}") {
			st = scanning
		}
	}
	return strings.Join(kept, "\n")
}

func (e *Extractor) matches(line string) bool {
	for _, sel := range e.Selectors {
		if strings.Contains(line, sel) {
			return true
		}
	}
	return false
}
