package compat

import (
	"math"
	"strconv"
	"strings"

	"pcbuild/decision/parts"
)

// reading is the state of one numeric attribute.
type reading struct {
	value   float64
	present bool
	valid   bool
}

func readNumber(p parts.Part, key string) reading {
	raw, ok := p.Spec(key)
	if !ok {
		return reading{}
	}
	v, ok := parts.ToNumber(raw)
	return reading{value: v, present: true, valid: ok}
}

// malformed is true when any reading is present but not a number.
func malformed(rs ...reading) bool {
	for _, r := range rs {
		if r.present && !r.valid {
			return true
		}
	}
	return false
}

func (r reading) ok() bool { return r.present && r.valid }

// num formats a measurement without trailing zeros.
func num(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func watts(v float64) string { return num(v) + " W" }
func mm(v float64) string    { return num(v) + " mm" }

// roundUp rounds v up to the next multiple of step.
func roundUp(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Ceil(v/step-1e-9) * step
}

// canonical upper-cases and drops spaces, hyphens and underscores so that
// "LGA 1700" and "lga-1700" compare equal.
func canonical(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func containsCanonical(list []string, v string) bool {
	want := canonical(v)
	for _, item := range list {
		if canonical(item) == want {
			return true
		}
	}
	return false
}

func cats(c ...parts.Category) []parts.Category { return c }
