package compat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pcbuild/decision/parts"
)

func part(c parts.Category, name string, attrs map[string]any) parts.Part {
	r := parts.Record{"name": name}
	for k, v := range attrs {
		r[k] = v
	}
	return parts.MustFromRecord(c, r)
}

func selection(ps ...parts.Part) parts.Selection {
	m := make(map[parts.Category]parts.Part, len(ps))
	for _, p := range ps {
		m[p.Category] = p
	}
	return parts.NewSelection(m)
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewDefaultEvaluator(DefaultPolicy())
	require.NoError(t, err)
	return e
}

// issuesFrom returns the issues a single rule produced.
func issuesFrom(r Result, ruleID string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.RuleID == ruleID {
			out = append(out, issue)
		}
	}
	return out
}

var (
	ryzen7700 = part(parts.CategoryCPU, "Ryzen 7 7700", map[string]any{
		"socket": "AM5", "tdp": 65, "integrated_graphics": true,
	})
	corei5 = part(parts.CategoryCPU, "Core i5-13600K", map[string]any{
		"socket": "LGA1700", "tdp": 125, "integrated_graphics": true,
	})
	b650 = part(parts.CategoryMotherboard, "B650 Tomahawk", map[string]any{
		"data": map[string]any{
			"compatibility": map[string]any{"socket": "AM5", "chipset": "AMD B650", "pcie_generation": 4},
			"physical":      map[string]any{"form_factor": "ATX"},
			"memory":        map[string]any{"memory_slots": 4, "max_memory_gb": 192},
		},
	})
	rtx4070 = part(parts.CategoryGPU, "RTX 4070", map[string]any{
		"tdp": 220, "length_mm": 240, "height_mm": 112, "pcie_8pin_required": 1,
	})
	psu400 = part(parts.CategoryPSU, "400W Bronze", map[string]any{"wattage": 400, "pcie_8pin_connectors": 1})
	psu300 = part(parts.CategoryPSU, "300W SFX", map[string]any{"wattage": 300})
)
