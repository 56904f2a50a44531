package compat

import (
	"fmt"
	"strings"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// axis pairs a part dimension with the case limit it must fit under.
type axis struct {
	name     string
	partKey  string
	limitKey string
}

var gpuAxes = []axis{
	{name: "length", partKey: specs.KeyLengthMM, limitKey: specs.KeyMaxGPULengthMM},
	{name: "height", partKey: specs.KeyHeightMM, limitKey: specs.KeyMaxGPUHeightMM},
}

type violation struct {
	axis        axis
	size, limit float64
}

// GPUClearanceRule checks graphics card length and height against the case,
// one axis at a time.
type GPUClearanceRule struct{}

func (GPUClearanceRule) ID() string { return "gpu-clearance" }

func (GPUClearanceRule) Requires() []parts.Category {
	return cats(parts.CategoryGPU, parts.CategoryCase)
}

func (GPUClearanceRule) SpecKeys() []string {
	return []string{specs.KeyLengthMM, specs.KeyHeightMM, specs.KeyMaxGPULengthMM, specs.KeyMaxGPUHeightMM}
}

func (r GPUClearanceRule) Check(sel parts.Selection) Outcome {
	gpu, _ := sel.Get(parts.CategoryGPU)
	pcCase, _ := sel.Get(parts.CategoryCase)

	var (
		checked    []string
		violations []violation
	)
	for _, a := range gpuAxes {
		size := readNumber(gpu, a.partKey)
		limit := readNumber(pcCase, a.limitKey)
		if malformed(size, limit) {
			return skipped()
		}
		if !size.ok() || !limit.ok() {
			continue
		}
		checked = append(checked, fmt.Sprintf("%s %s within %s", a.name, mm(size.value), mm(limit.value)))
		if size.value > limit.value {
			violations = append(violations, violation{axis: a, size: size.value, limit: limit.value})
		}
	}
	if len(checked) == 0 {
		return skipped()
	}

	if len(violations) == 0 {
		return confirmed(Confirmation{
			Type:        "gpu_clearance",
			Message:     fmt.Sprintf("%s fits in %s", gpu.DisplayName(), pcCase.DisplayName()),
			Explanation: fmt.Sprintf("Checked against the case limits: %s.", strings.Join(checked, "; ")),
		})
	}

	var (
		overs   []string
		details []string
		keys    []string
		fixes   []string
	)
	for _, v := range violations {
		over := v.size - v.limit
		overs = append(overs, fmt.Sprintf("%s by %s", v.axis.name, mm(over)))
		details = append(details, fmt.Sprintf("GPU %s is %s but the case allows at most %s (%s over)",
			v.axis.name, mm(v.size), mm(v.limit), mm(over)))
		keys = append(keys, v.axis.partKey, v.axis.limitKey)
		fixes = append(fixes, fmt.Sprintf("%s of %s or more", v.axis.name, mm(v.size)))
	}

	return issued(Issue{
		Type:     "gpu_clearance",
		Severity: SeverityError,
		Message: fmt.Sprintf("%s is too large for %s: exceeds %s",
			gpu.DisplayName(), pcCase.DisplayName(), strings.Join(overs, " and ")),
		Explanation: fmt.Sprintf("Graphics card: %s. Case: %s. %s. "+
			"The card would collide with the front panel, drive cages or side panel and cannot be seated in the PCIe slot.",
			gpu.DisplayName(), pcCase.DisplayName(), strings.Join(details, "; ")),
		Fix: fmt.Sprintf("Option 1: change the case to one with GPU clearance for %s. "+
			"Option 2: change the graphics card to a model no larger than the case limits (%s).",
			strings.Join(fixes, " and "), limitsList(violations)),
		AffectedCategories:  cats(parts.CategoryGPU, parts.CategoryCase),
		SpecKeys:            keys,
		SeverityExplanation: "Blocking: the card physically does not fit inside the case.",
		Recommendation:      "Compare the card's length against the case's maximum GPU length with the front fans installed.",
	})
}

func limitsList(vs []violation) string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = fmt.Sprintf("%s up to %s", v.axis.name, mm(v.limit))
	}
	return strings.Join(out, ", ")
}

// CoolerClearanceRule checks CPU cooler height against the case limit.
type CoolerClearanceRule struct{}

func (CoolerClearanceRule) ID() string { return "cooler-clearance" }

func (CoolerClearanceRule) Requires() []parts.Category {
	return cats(parts.CategoryCooler, parts.CategoryCase)
}

func (CoolerClearanceRule) SpecKeys() []string {
	return []string{specs.KeyHeightMM, specs.KeyMaxCoolerMM}
}

func (r CoolerClearanceRule) Check(sel parts.Selection) Outcome {
	cooler, _ := sel.Get(parts.CategoryCooler)
	pcCase, _ := sel.Get(parts.CategoryCase)

	height := readNumber(cooler, specs.KeyHeightMM)
	limit := readNumber(pcCase, specs.KeyMaxCoolerMM)
	if !height.ok() || !limit.ok() {
		return skipped()
	}

	if height.value <= limit.value {
		return confirmed(Confirmation{
			Type:    "cooler_clearance",
			Message: fmt.Sprintf("%s (%s) fits under the %s cooler limit of %s", cooler.DisplayName(), mm(height.value), pcCase.DisplayName(), mm(limit.value)),
			Explanation: fmt.Sprintf("The cooler leaves %s of clearance to the side panel.",
				mm(limit.value-height.value)),
		})
	}

	over := height.value - limit.value
	return issued(Issue{
		Type:     "cooler_clearance",
		Severity: SeverityError,
		Message: fmt.Sprintf("%s is %s tall, %s over the %s limit of %s",
			cooler.DisplayName(), mm(height.value), mm(over), pcCase.DisplayName(), mm(limit.value)),
		Explanation: fmt.Sprintf("CPU cooler: %s stands %s above the motherboard. Case: %s allows coolers up to %s. "+
			"The heatsink is %s too tall, so the side panel cannot close.",
			cooler.DisplayName(), mm(height.value), pcCase.DisplayName(), mm(limit.value), mm(over)),
		Fix: fmt.Sprintf("Option 1: change the cooler to one at most %s tall, or to an all-in-one liquid cooler. "+
			"Option 2: change the case to one with at least %s of CPU cooler clearance.",
			mm(limit.value), mm(height.value)),
		AffectedCategories:  cats(parts.CategoryCooler, parts.CategoryCase),
		SpecKeys:            []string{specs.KeyHeightMM, specs.KeyMaxCoolerMM},
		SeverityExplanation: "Blocking: the case cannot be closed with this cooler installed.",
		Recommendation:      "Tower coolers above 160 mm only fit mid-towers and larger; check the case limit first.",
	})
}
