package asset

import (
	"bytes"
	"errors"
	"fmt"
)

// Source is one named script contributing to a bundle.
type Source struct {
	Name    string
	Content []byte
}

// Part locates one source's content inside Bundle.Data.
type Part struct {
	Name   string
	Offset int
	Length int
}

// Bundle is the concatenation of sources with provenance markers. Each
// source contributes "\n/* <name> */\n" + content + "\n".
type Bundle struct {
	Data  []byte
	Parts []Part
}

// Content returns the bytes contributed by part i.
func (b Bundle) Content(i int) []byte {
	p := b.Parts[i]
	return b.Data[p.Offset : p.Offset+p.Length]
}

const (
	markerOpen  = "\n/* "
	markerClose = " */\n"
)

// Concatenate joins sources in order, each preceded by its provenance marker.
func Concatenate(sources []Source) Bundle {
	size := 0
	for _, s := range sources {
		size += len(markerOpen) + len(s.Name) + len(markerClose) + len(s.Content) + 1
	}
	var buf bytes.Buffer
	buf.Grow(size)
	parts := make([]Part, 0, len(sources))
	for _, s := range sources {
		buf.WriteString(markerOpen)
		buf.WriteString(s.Name)
		buf.WriteString(markerClose)
		parts = append(parts, Part{Name: s.Name, Offset: buf.Len(), Length: len(s.Content)})
		buf.Write(s.Content)
		buf.WriteByte('\n')
	}
	return Bundle{Data: buf.Bytes(), Parts: parts}
}

// ErrMalformedBundle is returned by SplitBundle when data does not start with
// a provenance marker or a marker is unterminated.
var ErrMalformedBundle = errors.New("malformed bundle")

// SplitBundle recovers the sources of a concatenated bundle. A source ends at
// the first following "\n" that is immediately followed by another marker
// line, or at the final "\n" of the bundle. Content that itself contains a
// blank line followed by a marker-shaped comment line cannot be recovered
// exactly; Bundle.Parts is authoritative in that case.
func SplitBundle(data []byte) ([]Source, error) {
	var sources []Source
	pos := 0
	for pos < len(data) {
		name, start, err := readMarker(data, pos)
		if err != nil {
			return nil, err
		}
		end := nextBoundary(data, start)
		if end < 0 {
			return nil, fmt.Errorf("%w: source %q has no terminating newline", ErrMalformedBundle, name)
		}
		sources = append(sources, Source{Name: name, Content: data[start:end]})
		pos = end + 1
	}
	return sources, nil
}

// readMarker parses the marker at pos and returns the name and the offset of
// the first content byte.
func readMarker(data []byte, pos int) (string, int, error) {
	if !bytes.HasPrefix(data[pos:], []byte(markerOpen)) {
		return "", 0, fmt.Errorf("%w: expected marker at offset %d", ErrMalformedBundle, pos)
	}
	rest := data[pos+len(markerOpen):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return "", 0, fmt.Errorf("%w: unterminated marker at offset %d", ErrMalformedBundle, pos)
	}
	line := rest[:nl+1]
	if !bytes.HasSuffix(line, []byte(markerClose)) {
		return "", 0, fmt.Errorf("%w: unterminated marker at offset %d", ErrMalformedBundle, pos)
	}
	name := string(line[:len(line)-len(markerClose)])
	return name, pos + len(markerOpen) + nl + 1, nil
}

// nextBoundary returns the index of the "\n" that terminates the content
// starting at start, or -1.
func nextBoundary(data []byte, start int) int {
	for i := start; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		if i == len(data)-1 {
			return i
		}
		if _, _, err := readMarker(data, i+1); err == nil {
			return i
		}
	}
	return -1
}
