// Package scoring picks parts for a build from a catalog according to a
// weighted use-case template.
package scoring

import (
	"fmt"
	"strings"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
	bperrors "pcbuild/pkg/errors"
)

// PrioritySpec is one attribute that contributes to a category score.
type PrioritySpec struct {
	Key    string  `yaml:"key" json:"key"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Entry weights one category within a template.
type Entry struct {
	Category      parts.Category `yaml:"category" json:"category"`
	PrioritySpecs []PrioritySpec `yaml:"priority_specs" json:"priority_specs"`
	Weight        float64        `yaml:"weight" json:"weight"`
}

// Template is a named use-case profile.
type Template struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Entries     []Entry `yaml:"entries" json:"entries"`
}

// Validate rejects templates the scorer cannot run: unknown or repeated
// categories, non-positive weights and spec keys that do not apply to the
// entry's category.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return bperrors.NewInvalidTemplateError("template name is empty", "")
	}
	if len(t.Entries) == 0 {
		return bperrors.NewInvalidTemplateError("template has no entries", t.Name)
	}
	seen := make(map[parts.Category]bool, len(t.Entries))
	for _, e := range t.Entries {
		if !e.Category.Valid() {
			return bperrors.NewInvalidTemplateError(fmt.Sprintf("unknown category %q", e.Category), t.Name)
		}
		if seen[e.Category] {
			return bperrors.NewInvalidTemplateError(fmt.Sprintf("category %s listed twice", e.Category), t.Name)
		}
		seen[e.Category] = true
		if e.Weight <= 0 {
			return bperrors.NewInvalidTemplateError(fmt.Sprintf("%s weight must be > 0", e.Category), t.Name)
		}
		for _, ps := range e.PrioritySpecs {
			def, ok := specs.Lookup(ps.Key)
			if !ok {
				return bperrors.NewInvalidTemplateError(fmt.Sprintf("unknown spec key %q", ps.Key), t.Name)
			}
			if !def.AppliesTo(e.Category) {
				return bperrors.NewInvalidTemplateError(fmt.Sprintf("spec key %s does not apply to %s", ps.Key, e.Category), t.Name)
			}
			if ps.Weight <= 0 {
				return bperrors.NewInvalidTemplateError(fmt.Sprintf("%s.%s weight must be > 0", e.Category, ps.Key), t.Name)
			}
		}
	}
	return nil
}

func ps(key string, weight float64) PrioritySpec { return PrioritySpec{Key: key, Weight: weight} }

var builtins = []Template{
	{
		Name:        "gaming",
		Description: "High frame rates: graphics card first, then a fast CPU.",
		Entries: []Entry{
			{Category: parts.CategoryGPU, Weight: 0.35, PrioritySpecs: []PrioritySpec{ps(specs.KeyVRAMGB, 2), ps(specs.KeyCoreClockMHz, 1)}},
			{Category: parts.CategoryCPU, Weight: 0.20, PrioritySpecs: []PrioritySpec{ps(specs.KeyBoostClockGHz, 2), ps(specs.KeyCores, 1), ps(specs.KeyL3CacheMB, 1)}},
			{Category: parts.CategoryMotherboard, Weight: 0.10, PrioritySpecs: []PrioritySpec{ps(specs.KeyPCIeGeneration, 1), ps(specs.KeyM2Slots, 1)}},
			{Category: parts.CategoryRAM, Weight: 0.10, PrioritySpecs: []PrioritySpec{ps(specs.KeySpeed, 2), ps(specs.KeyCapacityGB, 1)}},
			{Category: parts.CategoryStorage, Weight: 0.08, PrioritySpecs: []PrioritySpec{ps(specs.KeyReadSpeedMBps, 1), ps(specs.KeyCapacityGB, 1)}},
			{Category: parts.CategoryPSU, Weight: 0.07, PrioritySpecs: []PrioritySpec{ps(specs.KeyWattage, 1), ps(specs.KeyModular, 1)}},
			{Category: parts.CategoryCooler, Weight: 0.05, PrioritySpecs: []PrioritySpec{ps(specs.KeyTDPRating, 1)}},
			{Category: parts.CategoryCase, Weight: 0.05, PrioritySpecs: []PrioritySpec{ps(specs.KeyMaxGPULengthMM, 1), ps(specs.KeyFanCount, 1)}},
		},
	},
	{
		Name:        "workstation",
		Description: "Rendering and compilation: core count and memory capacity.",
		Entries: []Entry{
			{Category: parts.CategoryCPU, Weight: 0.35, PrioritySpecs: []PrioritySpec{ps(specs.KeyCores, 3), ps(specs.KeyThreads, 1), ps(specs.KeyBoostClockGHz, 1)}},
			{Category: parts.CategoryRAM, Weight: 0.20, PrioritySpecs: []PrioritySpec{ps(specs.KeyCapacityGB, 3), ps(specs.KeySpeed, 1)}},
			{Category: parts.CategoryGPU, Weight: 0.15, PrioritySpecs: []PrioritySpec{ps(specs.KeyVRAMGB, 1)}},
			{Category: parts.CategoryStorage, Weight: 0.10, PrioritySpecs: []PrioritySpec{ps(specs.KeyCapacityGB, 2), ps(specs.KeyReadSpeedMBps, 1)}},
			{Category: parts.CategoryMotherboard, Weight: 0.08, PrioritySpecs: []PrioritySpec{ps(specs.KeyMaxMemoryGB, 2), ps(specs.KeyMemorySlots, 1)}},
			{Category: parts.CategoryPSU, Weight: 0.05, PrioritySpecs: []PrioritySpec{ps(specs.KeyWattage, 1)}},
			{Category: parts.CategoryCooler, Weight: 0.04, PrioritySpecs: []PrioritySpec{ps(specs.KeyTDPRating, 1)}},
			{Category: parts.CategoryCase, Weight: 0.03, PrioritySpecs: []PrioritySpec{ps(specs.KeyFanCount, 1)}},
		},
	},
	{
		Name:        "budget",
		Description: "Lowest cost that still runs: efficient parts, price weighs heavily.",
		Entries: []Entry{
			{Category: parts.CategoryCPU, Weight: 0.25, PrioritySpecs: []PrioritySpec{ps(specs.KeyIntegratedGPU, 2), ps(specs.KeyCores, 1), ps(specs.KeyTDP, 1)}},
			{Category: parts.CategoryMotherboard, Weight: 0.15, PrioritySpecs: []PrioritySpec{ps(specs.KeyMemorySlots, 1)}},
			{Category: parts.CategoryRAM, Weight: 0.15, PrioritySpecs: []PrioritySpec{ps(specs.KeyCapacityGB, 1)}},
			{Category: parts.CategoryStorage, Weight: 0.15, PrioritySpecs: []PrioritySpec{ps(specs.KeyCapacityGB, 1)}},
			{Category: parts.CategoryPSU, Weight: 0.10, PrioritySpecs: []PrioritySpec{ps(specs.KeyWattage, 1)}},
			{Category: parts.CategoryCase, Weight: 0.10, PrioritySpecs: []PrioritySpec{ps(specs.KeyFanCount, 1)}},
			{Category: parts.CategoryCooler, Weight: 0.05, PrioritySpecs: []PrioritySpec{ps(specs.KeyTDPRating, 1)}},
		},
	},
	{
		Name:        "streaming",
		Description: "Game and encode at once: balanced CPU threads and GPU.",
		Entries: []Entry{
			{Category: parts.CategoryCPU, Weight: 0.28, PrioritySpecs: []PrioritySpec{ps(specs.KeyThreads, 2), ps(specs.KeyBoostClockGHz, 1)}},
			{Category: parts.CategoryGPU, Weight: 0.27, PrioritySpecs: []PrioritySpec{ps(specs.KeyVRAMGB, 1), ps(specs.KeyCoreClockMHz, 1)}},
			{Category: parts.CategoryRAM, Weight: 0.13, PrioritySpecs: []PrioritySpec{ps(specs.KeyCapacityGB, 2), ps(specs.KeySpeed, 1)}},
			{Category: parts.CategoryStorage, Weight: 0.10, PrioritySpecs: []PrioritySpec{ps(specs.KeyCapacityGB, 1), ps(specs.KeyReadSpeedMBps, 1)}},
			{Category: parts.CategoryMotherboard, Weight: 0.09, PrioritySpecs: []PrioritySpec{ps(specs.KeyM2Slots, 1)}},
			{Category: parts.CategoryPSU, Weight: 0.06, PrioritySpecs: []PrioritySpec{ps(specs.KeyWattage, 1)}},
			{Category: parts.CategoryCooler, Weight: 0.04, PrioritySpecs: []PrioritySpec{ps(specs.KeyTDPRating, 1)}},
			{Category: parts.CategoryCase, Weight: 0.03, PrioritySpecs: []PrioritySpec{ps(specs.KeyFanCount, 1)}},
		},
	},
}

// Templates returns copies of the built-in templates.
func Templates() []Template {
	out := make([]Template, len(builtins))
	for i, t := range builtins {
		out[i] = t.clone()
	}
	return out
}

// TemplateByName looks up a built-in template, ignoring case.
func TemplateByName(name string) (Template, bool) {
	for _, t := range builtins {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t.clone(), true
		}
	}
	return Template{}, false
}

func (t Template) clone() Template {
	out := t
	out.Entries = make([]Entry, len(t.Entries))
	for i, e := range t.Entries {
		e.PrioritySpecs = append([]PrioritySpec(nil), e.PrioritySpecs...)
		out.Entries[i] = e
	}
	return out
}
