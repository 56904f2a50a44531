package parts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is the raw attribute bag of one part. Attributes may sit at the top
// level, under "data", or under "data.<group>".
type Record map[string]any

// dataKey is the nesting key used by normalized records.
const dataKey = "data"

// lookup is one strategy for locating an attribute in a record.
type lookup func(r Record, key string) (any, bool)

// lookups is tried in order; the first hit wins.
var lookups = []lookup{
	groupedNested,
	flatNested,
	topLevel,
}

// Value returns the attribute stored under key. Grouped-nested values take
// precedence over data-level values, which take precedence over top-level
// values. Missing or malformed records yield (nil, false).
func Value(r Record, key string) (any, bool) {
	if r == nil || key == "" {
		return nil, false
	}
	for _, fn := range lookups {
		if v, ok := fn(r, key); ok {
			return v, true
		}
	}
	return nil, false
}

func groupedNested(r Record, key string) (any, bool) {
	data, ok := asMap(r[dataKey])
	if !ok {
		return nil, false
	}
	for _, g := range groupOrder {
		group, ok := asMap(data[string(g)])
		if !ok {
			continue
		}
		if v, ok := group[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func flatNested(r Record, key string) (any, bool) {
	data, ok := asMap(r[dataKey])
	if !ok {
		return nil, false
	}
	v, ok := data[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func topLevel(r Record, key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

// Number reads key as a float64. JSON numbers, Go numeric types and numeric
// strings are accepted; anything else reports false.
func Number(r Record, key string) (float64, bool) {
	v, ok := Value(r, key)
	if !ok {
		return 0, false
	}
	return ToNumber(v)
}

// ToNumber coerces a raw attribute value to float64.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String reads key as a trimmed, non-empty string. Numbers are rendered
// without a fractional part when whole.
func String(r Record, key string) (string, bool) {
	v, ok := Value(r, key)
	if !ok {
		return "", false
	}
	var s string
	switch val := v.(type) {
	case string:
		s = strings.TrimSpace(val)
	case json.Number:
		s = val.String()
	case bool:
		return "", false
	default:
		f, ok := ToNumber(val)
		if !ok {
			return "", false
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Bool reads key as a boolean. "yes"/"no" and "true"/"false" strings are accepted.
func Bool(r Record, key string) (bool, bool) {
	v, ok := Value(r, key)
	if !ok {
		return false, false
	}
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

// List reads a comma- or slash-separated string, or a JSON array of strings,
// as a list of trimmed entries.
func List(r Record, key string) ([]string, bool) {
	v, ok := Value(r, key)
	if !ok {
		return nil, false
	}
	var out []string
	switch val := v.(type) {
	case string:
		for _, item := range strings.FieldsFunc(val, func(c rune) bool { return c == ',' || c == '/' || c == ';' }) {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	case []string:
		for _, item := range val {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		return nil, false
	}
	return out, len(out) > 0
}
