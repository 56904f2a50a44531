package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCapacityGB(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"2TB", 2000, true},
		{"512 GB", 512, true},
		{"1.5 tb", 1500, true},
		{"64", 64, true},
		{"lots", 0, false},
		{"12 PB", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCapacityGB(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseMemorySpeed(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"DDR5-6000", 6000, true},
		{"DDR4 3200 MT/s", 3200, true},
		{"4800", 4800, true},
		{"DDR5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMemorySpeed(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMHzToGHz(t *testing.T) {
	assert.InDelta(t, 2.52, MHzToGHz(2520), 1e-9)
}
