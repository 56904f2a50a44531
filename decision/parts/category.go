// Package parts models concrete hardware components and the user's selection.
// Part records arrive as untyped attribute bags; they are checked once at the
// ingestion boundary and read afterwards through typed, ordered accessors.
package parts

import "strings"

// Category identifies the slot a part fills in a build.
type Category string

const (
	CategoryCPU         Category = "cpu"
	CategoryGPU         Category = "gpu"
	CategoryMotherboard Category = "motherboard"
	CategoryRAM         Category = "ram"
	CategoryStorage     Category = "storage"
	CategoryPSU         Category = "psu"
	CategoryCase        Category = "case"
	CategoryCooler      Category = "cooler"
)

var categoryOrder = []Category{
	CategoryCPU,
	CategoryGPU,
	CategoryMotherboard,
	CategoryRAM,
	CategoryStorage,
	CategoryPSU,
	CategoryCase,
	CategoryCooler,
}

var categoryLabels = map[Category]string{
	CategoryCPU:         "CPU",
	CategoryGPU:         "Graphics Card",
	CategoryMotherboard: "Motherboard",
	CategoryRAM:         "Memory",
	CategoryStorage:     "Storage",
	CategoryPSU:         "Power Supply",
	CategoryCase:        "Case",
	CategoryCooler:      "CPU Cooler",
}

// Categories returns every category in canonical order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human-readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Group is a display/storage group of attributes. Records may nest
// attributes under data.<group>.
type Group string

const (
	GroupPerformance   Group = "performance"
	GroupCompatibility Group = "compatibility"
	GroupPower         Group = "power"
	GroupPhysical      Group = "physical"
	GroupMemory        Group = "memory"
	GroupConnectivity  Group = "connectivity"
	GroupFeatures      Group = "features"
)

var groupOrder = []Group{
	GroupPerformance,
	GroupCompatibility,
	GroupPower,
	GroupPhysical,
	GroupMemory,
	GroupConnectivity,
	GroupFeatures,
}

// Groups returns the attribute groups in declared order.
func Groups() []Group {
	out := make([]Group, len(groupOrder))
	copy(out, groupOrder)
	return out
}
