package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/seatmap/pkg/layout"
)

// normalized returns elements in canonical form: 1x1 sizes collapse and
// are omitted on output. Empty seat numbers and false flags are dropped by
// the element's JSON tags.
func normalized(elements []layout.Element) []layout.Element {
	out := make([]layout.Element, len(elements))
	for i, e := range elements {
		out[i] = layout.Normalize(e)
	}
	return out
}

// Encode returns the compact persisted form of elements. An empty layout
// encodes as [].
func Encode(elements []layout.Element) ([]byte, error) {
	data, err := json.Marshal(normalized(elements))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteJSON writes elements to w as indented JSON. The output can be
// re-imported with [ReadJSON].
func WriteJSON(elements []layout.Element, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized(elements)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes elements to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(elements []layout.Element, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(elements, f)
}
