package compat

import (
	"fmt"
	"strings"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// connectorType pairs the GPU requirement key with the PSU supply key.
type connectorType struct {
	label     string
	neededKey string
	supplyKey string
}

// connectorTypes is checked in this order so output is stable.
var connectorTypes = []connectorType{
	{label: "12VHPWR", neededKey: specs.KeyHPWRNeeded, supplyKey: specs.KeyHPWRSupply},
	{label: "8-pin PCIe", neededKey: specs.KeyPCIe8PinNeeded, supplyKey: specs.KeyPCIe8PinSupply},
	{label: "6-pin PCIe", neededKey: specs.KeyPCIe6PinNeeded, supplyKey: specs.KeyPCIe6PinSupply},
}

type shortfall struct {
	conn             connectorType
	needed, supplied float64
}

// PowerConnectorRule checks that the PSU has native cables for every GPU
// power connector. Adapters are not counted.
type PowerConnectorRule struct{}

func (PowerConnectorRule) ID() string { return "gpu-power-connectors" }

func (PowerConnectorRule) Requires() []parts.Category {
	return cats(parts.CategoryGPU, parts.CategoryPSU)
}

func (PowerConnectorRule) SpecKeys() []string {
	keys := make([]string, 0, 2*len(connectorTypes))
	for _, c := range connectorTypes {
		keys = append(keys, c.neededKey, c.supplyKey)
	}
	return keys
}

func (r PowerConnectorRule) Check(sel parts.Selection) Outcome {
	gpu, _ := sel.Get(parts.CategoryGPU)
	psu, _ := sel.Get(parts.CategoryPSU)

	var (
		gpuDeclares, psuDeclares bool
		required                 []string
		shortfalls               []shortfall
	)
	needed := make([]reading, len(connectorTypes))
	supplied := make([]reading, len(connectorTypes))
	for i, c := range connectorTypes {
		needed[i] = readNumber(gpu, c.neededKey)
		supplied[i] = readNumber(psu, c.supplyKey)
		if malformed(needed[i], supplied[i]) {
			return skipped()
		}
		gpuDeclares = gpuDeclares || needed[i].ok()
		psuDeclares = psuDeclares || supplied[i].ok()
	}
	if !gpuDeclares || !psuDeclares {
		return skipped()
	}

	for i, c := range connectorTypes {
		if !needed[i].ok() || needed[i].value <= 0 {
			continue
		}
		have := 0.0
		if supplied[i].ok() {
			have = supplied[i].value
		}
		required = append(required, fmt.Sprintf("%s× %s", num(needed[i].value), c.label))
		if have < needed[i].value {
			shortfalls = append(shortfalls, shortfall{conn: c, needed: needed[i].value, supplied: have})
		}
	}

	if len(required) == 0 {
		return confirmed(Confirmation{
			Type:        "gpu_power_connectors",
			Message:     fmt.Sprintf("%s needs no auxiliary power connectors", gpu.DisplayName()),
			Explanation: "The card draws all of its power through the PCIe slot.",
		})
	}

	if len(shortfalls) == 0 {
		return confirmed(Confirmation{
			Type:        "gpu_power_connectors",
			Message:     fmt.Sprintf("%s provides every connector %s needs (%s)", psu.DisplayName(), gpu.DisplayName(), strings.Join(required, ", ")),
			Explanation: "Each GPU power input has a native PSU cable, so no adapters are needed.",
		})
	}

	var (
		missing []string
		details []string
		keys    []string
	)
	for _, s := range shortfalls {
		missing = append(missing, fmt.Sprintf("%s× %s", num(s.needed-s.supplied), s.conn.label))
		details = append(details, fmt.Sprintf("%s: GPU needs %s, PSU provides %s",
			s.conn.label, num(s.needed), num(s.supplied)))
		keys = append(keys, s.conn.neededKey, s.conn.supplyKey)
	}

	return issued(Issue{
		Type:     "missing_power_connectors",
		Severity: SeverityError,
		Message: fmt.Sprintf("%s is missing %s for %s",
			psu.DisplayName(), strings.Join(missing, " and "), gpu.DisplayName()),
		Explanation: fmt.Sprintf("Graphics card: %s requires %s. Power supply: %s. %s. "+
			"Without a native cable for every input the card will not power on, and adapters that split or merge cables are not counted because they can overload a single PSU rail.",
			gpu.DisplayName(), strings.Join(required, ", "), psu.DisplayName(), strings.Join(details, "; ")),
		Fix: fmt.Sprintf("Option 1: change the power supply to one with native cables for %s. "+
			"Option 2: change the graphics card to a model whose power inputs this PSU can supply natively.",
			strings.Join(required, ", ")),
		AffectedCategories:  cats(parts.CategoryGPU, parts.CategoryPSU),
		SpecKeys:            keys,
		SeverityExplanation: "Blocking: the graphics card cannot be powered and the system will not display.",
		Recommendation:      "For 12VHPWR cards prefer an ATX 3.0 PSU with a native 16-pin cable.",
	})
}
