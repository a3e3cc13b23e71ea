package minify

import (
	"encoding/json"
	"errors"
)

// SourceMap is the subset of the v3 source map format assetpress reads and
// rewrites. Unknown fields are dropped.
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// ParseSourceMap decodes a v3 source map.
func ParseSourceMap(b []byte) (*SourceMap, error) {
	var m SourceMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m.Version != 3 {
		return nil, errors.New("unsupported source map version")
	}
	return &m, nil
}

// patchSourceMap sets the map's "file" to outputName and names an unnamed
// source after sourceName.
func patchSourceMap(raw []byte, outputName, sourceName string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.New("engine produced no source map")
	}
	m, err := ParseSourceMap(raw)
	if err != nil {
		return nil, err
	}
	m.File = outputName
	for i, s := range m.Sources {
		if s == "" || s == "<stdin>" {
			m.Sources[i] = sourceName
		}
	}
	if m.Names == nil {
		m.Names = []string{}
	}
	return json.Marshal(m)
}
