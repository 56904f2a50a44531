package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pcbuild/decision/parts"
	"pcbuild/decision/scoring"
)

// Decode reads a JSON catalog: an object keyed by category whose values are
// arrays of part records. Every record passes the ingestion checks.
func Decode(r io.Reader) (scoring.Catalog, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string][]parts.Record
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	out := make(scoring.Catalog, len(raw))
	for key, records := range raw {
		c, ok := parts.ParseCategory(key)
		if !ok {
			return nil, fmt.Errorf("decode catalog: unknown category %q", key)
		}
		for i, rec := range records {
			p, err := parts.FromRecord(c, rec)
			if err != nil {
				return nil, fmt.Errorf("decode catalog: %s[%d]: %w", c, i, err)
			}
			out[c] = append(out[c], p)
		}
	}
	return out, nil
}

// ReadFile decodes the JSON catalog at path.
func ReadFile(path string) (scoring.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Flatten lists every part of c in canonical category order.
func Flatten(c scoring.Catalog) []parts.Part {
	var out []parts.Part
	for _, cat := range parts.Categories() {
		out = append(out, c[cat]...)
	}
	return out
}
