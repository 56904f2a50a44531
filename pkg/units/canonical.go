// Package units provides canonical unit conversions and parsers for part
// attributes quoted as text.
package units

import (
	"strconv"
	"strings"
	"unicode"
)

// GBPerTB follows drive vendors, who quote decimal terabytes.
const GBPerTB = 1000.0

// TBToGB converts terabytes to gigabytes.
func TBToGB(tb float64) float64 {
	return tb * GBPerTB
}

// MHzToGHz converts megahertz to gigahertz.
func MHzToGHz(mhz float64) float64 {
	return mhz / 1000
}

// ParseCapacityGB reads strings such as "2TB", "512 GB" or "1.5 tb" and
// returns gigabytes. A bare number is taken as gigabytes.
func ParseCapacityGB(s string) (float64, bool) {
	num, unit := splitNumberUnit(s)
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(unit) {
	case "", "GB", "G":
		return v, true
	case "TB", "T":
		return TBToGB(v), true
	case "MB", "M":
		return v / 1000, true
	default:
		return 0, false
	}
}

// ParseMemorySpeed extracts the transfer rate from labels like "DDR5-6000",
// "DDR4 3200 MT/s" or "6000". It returns the first run of digits that is at
// least three characters long, which skips the generation digit.
func ParseMemorySpeed(s string) (float64, bool) {
	run := make([]rune, 0, 8)
	for _, r := range s + " " {
		if unicode.IsDigit(r) {
			run = append(run, r)
			continue
		}
		if len(run) >= 3 {
			v, err := strconv.ParseFloat(string(run), 64)
			return v, err == nil
		}
		run = run[:0]
	}
	return 0, false
}

func splitNumberUnit(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	return s[:i], strings.TrimSpace(s[i:])
}
