package parts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		key    string
		want   any
		wantOK bool
	}{
		{
			name: "grouped nested wins over top level",
			record: Record{
				"data":            map[string]any{"performance": map[string]any{"boost_clock_ghz": 5.2}},
				"boost_clock_ghz": 4.0,
			},
			key:    "boost_clock_ghz",
			want:   5.2,
			wantOK: true,
		},
		{
			name: "grouped nested wins over flat nested",
			record: Record{
				"data": map[string]any{
					"socket":        "AM4",
					"compatibility": map[string]any{"socket": "AM5"},
				},
			},
			key:    "socket",
			want:   "AM5",
			wantOK: true,
		},
		{
			name: "groups scanned in declared order",
			record: Record{
				"data": map[string]any{
					"features":    map[string]any{"tdp": 99.0},
					"performance": map[string]any{"tdp": 65.0},
				},
			},
			key:    "tdp",
			want:   65.0,
			wantOK: true,
		},
		{
			name:   "flat nested wins over top level",
			record: Record{"data": map[string]any{"cores": 8.0}, "cores": 6.0},
			key:    "cores",
			want:   8.0,
			wantOK: true,
		},
		{
			name:   "top level fallback",
			record: Record{"socket": "LGA1700"},
			key:    "socket",
			want:   "LGA1700",
			wantOK: true,
		},
		{
			name:   "malformed data is skipped",
			record: Record{"data": "not a map", "socket": "AM5"},
			key:    "socket",
			want:   "AM5",
			wantOK: true,
		},
		{
			name:   "malformed group is skipped",
			record: Record{"data": map[string]any{"performance": 12, "cores": 8.0}},
			key:    "cores",
			want:   8.0,
			wantOK: true,
		},
		{
			name:   "missing key",
			record: Record{"socket": "AM5"},
			key:    "chipset",
		},
		{
			name: "nil record",
			key:  "socket",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Value(tt.record, tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"float", 65.0, 65, true},
		{"int", 8, 8, true},
		{"json number", json.Number("3.5"), 3.5, true},
		{"numeric string", " 850 ", 850, true},
		{"unit string", "850W", 0, false},
		{"bool", true, 0, false},
		{"map", map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(Record{"v": tt.value}, "v")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringBoolList(t *testing.T) {
	r := Record{
		"data": map[string]any{
			"features": map[string]any{"integrated_graphics": "yes"},
		},
		"socket":         " AM5 ",
		"empty":          "   ",
		"memory_slots":   4.0,
		"socket_support": "AM4, AM5 / LGA1700",
		"form_factors":   []any{"ATX", "Micro-ATX"},
		"bad_list":       []any{"ATX", 3},
	}

	s, ok := String(r, "socket")
	require.True(t, ok)
	assert.Equal(t, "AM5", s)

	_, ok = String(r, "empty")
	assert.False(t, ok)

	s, ok = String(r, "memory_slots")
	require.True(t, ok)
	assert.Equal(t, "4", s)

	b, ok := Bool(r, "integrated_graphics")
	require.True(t, ok)
	assert.True(t, b)

	list, ok := List(r, "socket_support")
	require.True(t, ok)
	assert.Equal(t, []string{"AM4", "AM5", "LGA1700"}, list)

	list, ok = List(r, "form_factors")
	require.True(t, ok)
	assert.Equal(t, []string{"ATX", "Micro-ATX"}, list)

	_, ok = List(r, "bad_list")
	assert.False(t, ok)
}
