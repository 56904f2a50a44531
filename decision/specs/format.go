package specs

import (
	"fmt"
	"math"
	"strconv"

	"pcbuild/decision/parts"
)

// FormatValue renders a value for display. Booleans become "Yes"/"No",
// whole numbers print without decimals and fractional numbers with two, and
// a non-empty unit is appended after a space. Nil renders as "".
func FormatValue(value any, unit string, t ValueType) string {
	if value == nil {
		return ""
	}
	if b, ok := value.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}

	var s string
	if t == TypeNumber {
		if f, ok := parts.ToNumber(value); ok {
			s = formatNumber(f)
		}
	}
	if s == "" {
		s = fmt.Sprint(value)
	}
	if unit == "" || s == "" {
		return s
	}
	return s + " " + unit
}

// Format renders value using the unit and type declared for key. Unknown
// keys render as plain strings.
func (d *Dictionary) Format(key string, value any) string {
	def, ok := d.Lookup(key)
	if !ok {
		return FormatValue(value, "", TypeString)
	}
	return FormatValue(value, def.Unit, def.Type)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
