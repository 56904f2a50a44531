// Package power estimates system power draw from a part selection and
// recommends a PSU rating.
package power

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// Status classifies the selected PSU against the estimated load.
type Status string

const (
	StatusNone         Status = "none"
	StatusInsufficient Status = "insufficient"
	StatusBorderline   Status = "borderline"
	StatusSufficient   Status = "sufficient"
)

// Component is one line of the power breakdown.
type Component struct {
	Component         parts.Category `json:"component"`
	Label             string         `json:"label"`
	TDP               float64        `json:"tdp"`
	PercentageOfTotal float64        `json:"percentage_of_total"`
	DisplayColor      string         `json:"display_color"`
	Formatted         string         `json:"formatted"`
	// Estimated is true when the wattage came from a heuristic or a policy
	// default rather than the part's own tdp.
	Estimated bool `json:"estimated"`
}

// Budget is the full power estimate for a selection.
type Budget struct {
	Components     []Component `json:"components"`
	TotalTDP       float64     `json:"total_tdp"`
	BaseOverheadW  float64     `json:"base_overhead_w"`
	EstimatedLoad  float64     `json:"estimated_load"`
	SpikeAllowance float64     `json:"spike_allowance"`
	RecommendedPSU float64     `json:"recommended_psu"`
	PSUWattage     float64     `json:"psu_wattage,omitempty"`
	Headroom       float64     `json:"headroom,omitempty"`
	Utilization    float64     `json:"utilization,omitempty"`
	Status         Status      `json:"status"`
}

var displayColors = map[parts.Category]string{
	parts.CategoryCPU:         "#3b82f6",
	parts.CategoryGPU:         "#22c55e",
	parts.CategoryMotherboard: "#a855f7",
	parts.CategoryRAM:         "#f59e0b",
	parts.CategoryStorage:     "#06b6d4",
	parts.CategoryCase:        "#64748b",
}

// estimator returns the draw of one part and whether it was estimated.
type estimator func(p parts.Part, policy Policy) (float64, bool)

// estimators covers every category that draws power. The PSU supplies it
// and the cooler's fan is counted in the base overhead.
var estimators = map[parts.Category]estimator{
	parts.CategoryCPU:         tdpOr(func(p Policy) float64 { return p.DefaultCPUTDPW }),
	parts.CategoryGPU:         tdpOr(func(p Policy) float64 { return p.DefaultGPUTDPW }),
	parts.CategoryMotherboard: func(_ parts.Part, p Policy) (float64, bool) { return p.MotherboardW, true },
	parts.CategoryRAM:         ramDraw,
	parts.CategoryStorage:     storageDraw,
	parts.CategoryCase:        caseDraw,
}

func tdpOr(fallback func(Policy) float64) estimator {
	return func(part parts.Part, p Policy) (float64, bool) {
		if w, ok := part.Number(specs.KeyTDP); ok && w >= 0 {
			return w, false
		}
		return fallback(p), true
	}
}

// ramDraw assumes a single 16 GB kit when capacity is unknown.
func ramDraw(part parts.Part, p Policy) (float64, bool) {
	gb, ok := part.CapacityGB(specs.KeyCapacityGB)
	if !ok || gb <= 0 {
		gb = 16
	}
	return gb / 16 * p.RAMWattsPer16GB, true
}

func storageDraw(part parts.Part, p Policy) (float64, bool) {
	if isSolidState(part) {
		return p.SSDW, true
	}
	return p.HDDW, true
}

func isSolidState(part parts.Part) bool {
	for _, key := range []string{specs.KeyType, specs.KeyInterface} {
		v, ok := part.Text(key)
		if !ok {
			continue
		}
		upper := strings.ToUpper(v)
		if strings.Contains(upper, "SSD") || strings.Contains(upper, "NVME") || strings.Contains(upper, "M.2") {
			return true
		}
	}
	return false
}

func caseDraw(part parts.Part, p Policy) (float64, bool) {
	fans, ok := part.Number(specs.KeyFanCount)
	if !ok || fans < 0 {
		fans = 0
	}
	return fans * p.FanW, true
}

// Calculate builds the power budget for sel. It never fails. A selection
// with no power-drawing parts yields a zero load and a zero PSU
// recommendation with StatusNone, even when a PSU is selected.
func Calculate(sel parts.Selection, policy Policy) Budget {
	b := Budget{
		Components:    make([]Component, 0, len(estimators)),
		BaseOverheadW: policy.BaseOverheadW,
		Status:        StatusNone,
	}

	unit := ""
	if def, ok := specs.Lookup(specs.KeyTDP); ok {
		unit = def.Unit
	}

	var cpuW, gpuW float64
	for _, c := range sel.Categories() {
		est, ok := estimators[c]
		if !ok {
			continue
		}
		p, _ := sel.Get(c)
		w, estimated := est(p, policy)
		switch c {
		case parts.CategoryCPU:
			cpuW = w
		case parts.CategoryGPU:
			gpuW = w
		}
		b.TotalTDP += w
		b.Components = append(b.Components, Component{
			Component:    c,
			Label:        c.Label(),
			TDP:          w,
			DisplayColor: displayColors[c],
			Formatted:    specs.FormatValue(w, unit, specs.TypeNumber),
			Estimated:    estimated,
		})
	}

	if len(b.Components) == 0 {
		return b
	}

	for i := range b.Components {
		if b.TotalTDP > 0 {
			pct := decimal.NewFromFloat(b.Components[i].TDP / b.TotalTDP * 100).Round(1)
			b.Components[i].PercentageOfTotal = pct.InexactFloat64()
		}
	}
	sort.SliceStable(b.Components, func(i, j int) bool {
		return b.Components[i].TDP > b.Components[j].TDP
	})

	b.EstimatedLoad = b.TotalTDP + policy.BaseOverheadW
	b.SpikeAllowance = policy.SpikeFactor * max(cpuW, gpuW)
	b.RecommendedPSU = RecommendPSU(b.EstimatedLoad, b.SpikeAllowance, policy)

	if psu, ok := sel.Get(parts.CategoryPSU); ok {
		if w, ok := psu.Number(specs.KeyWattage); ok && w > 0 {
			b.PSUWattage = w
			b.Headroom = w - b.EstimatedLoad
			b.Utilization = b.EstimatedLoad / w
			b.Status = Classify(b.Utilization, policy)
		}
	}
	return b
}

// RecommendPSU rounds (load + spike) × (1 + SafetyMargin) up to the next
// RoundingStepW. The arithmetic is decimal so exact multiples stay put.
func RecommendPSU(load, spike float64, policy Policy) float64 {
	need := decimal.NewFromFloat(load).
		Add(decimal.NewFromFloat(spike)).
		Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(policy.SafetyMargin)))
	if policy.RoundingStepW <= 0 {
		return need.InexactFloat64()
	}
	step := decimal.NewFromFloat(policy.RoundingStepW)
	return need.Div(step).Ceil().Mul(step).InexactFloat64()
}

// Classify maps a load/wattage ratio to a Status.
func Classify(utilization float64, policy Policy) Status {
	switch {
	case utilization > policy.InsufficientAbove:
		return StatusInsufficient
	case utilization > policy.BorderlineAbove:
		return StatusBorderline
	default:
		return StatusSufficient
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
