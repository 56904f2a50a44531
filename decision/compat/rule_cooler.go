package compat

import (
	"fmt"
	"strings"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// CoolerSocketRule checks that the cooler ships mounting hardware for the
// CPU socket.
type CoolerSocketRule struct{}

func (CoolerSocketRule) ID() string { return "cooler-socket" }

func (CoolerSocketRule) Requires() []parts.Category {
	return cats(parts.CategoryCPU, parts.CategoryCooler)
}

func (CoolerSocketRule) SpecKeys() []string {
	return []string{specs.KeySocket, specs.KeySocketSupport}
}

func (r CoolerSocketRule) Check(sel parts.Selection) Outcome {
	cpu, _ := sel.Get(parts.CategoryCPU)
	cooler, _ := sel.Get(parts.CategoryCooler)

	socket, ok := cpu.Text(specs.KeySocket)
	if !ok {
		return skipped()
	}
	supported, ok := cooler.List(specs.KeySocketSupport)
	if !ok {
		return skipped()
	}

	if containsCanonical(supported, socket) {
		return confirmed(Confirmation{
			Type:        "cooler_socket",
			Message:     fmt.Sprintf("%s mounts on socket %s", cooler.DisplayName(), socket),
			Explanation: fmt.Sprintf("The cooler includes brackets for %s, covering the %s socket of %s.", strings.Join(supported, ", "), socket, cpu.DisplayName()),
		})
	}

	return issued(Issue{
		Type:     "cooler_socket_mismatch",
		Severity: SeverityError,
		Message: fmt.Sprintf("%s does not support socket %s used by %s",
			cooler.DisplayName(), socket, cpu.DisplayName()),
		Explanation: fmt.Sprintf("CPU: %s uses socket %s. CPU cooler: %s lists mounting support for %s. "+
			"Hole spacing and backplate design differ between sockets, so the cooler cannot be fastened over this CPU.",
			cpu.DisplayName(), socket, cooler.DisplayName(), strings.Join(supported, ", ")),
		Fix: fmt.Sprintf("Option 1: change the cooler to one that lists %s support. "+
			"Option 2: check whether the manufacturer offers a %s mounting kit for %s.",
			socket, socket, cooler.DisplayName()),
		AffectedCategories:  cats(parts.CategoryCPU, parts.CategoryCooler),
		SpecKeys:            []string{specs.KeySocket, specs.KeySocketSupport},
		SeverityExplanation: "Blocking: without a compatible mount the CPU cannot be cooled and will not run safely.",
		Recommendation:      "Many coolers support new sockets through a free bracket; confirm before buying.",
	})
}

// CoolerThermalRule warns when the cooler's rated capacity is below the
// CPU's TDP.
type CoolerThermalRule struct{}

func (CoolerThermalRule) ID() string { return "cooler-thermal" }

func (CoolerThermalRule) Requires() []parts.Category {
	return cats(parts.CategoryCPU, parts.CategoryCooler)
}

func (CoolerThermalRule) SpecKeys() []string {
	return []string{specs.KeyTDP, specs.KeyTDPRating}
}

func (r CoolerThermalRule) Check(sel parts.Selection) Outcome {
	cpu, _ := sel.Get(parts.CategoryCPU)
	cooler, _ := sel.Get(parts.CategoryCooler)

	tdp := readNumber(cpu, specs.KeyTDP)
	rating := readNumber(cooler, specs.KeyTDPRating)
	if !tdp.ok() || !rating.ok() {
		return skipped()
	}

	if rating.value >= tdp.value {
		return confirmed(Confirmation{
			Type:        "cooler_thermal",
			Message:     fmt.Sprintf("%s is rated for %s, above the %s TDP of %s", cooler.DisplayName(), watts(rating.value), watts(tdp.value), cpu.DisplayName()),
			Explanation: fmt.Sprintf("The cooler has %s of rated capacity to spare.", watts(rating.value-tdp.value)),
		})
	}

	return issued(Issue{
		Type:     "cooler_underpowered",
		Severity: SeverityWarning,
		Message: fmt.Sprintf("%s is rated for %s but %s has a TDP of %s",
			cooler.DisplayName(), watts(rating.value), cpu.DisplayName(), watts(tdp.value)),
		Explanation: fmt.Sprintf("CPU: %s dissipates %s at its rated TDP. CPU cooler: %s is rated for %s, %s short. "+
			"The processor will still run but reaches its thermal limit sooner and lowers its boost clocks under sustained load.",
			cpu.DisplayName(), watts(tdp.value), cooler.DisplayName(), watts(rating.value), watts(tdp.value-rating.value)),
		Fix: fmt.Sprintf("Option 1: change the cooler to one rated for at least %s. Option 2: change the CPU to one with a TDP of %s or less.",
			watts(tdp.value), watts(rating.value)),
		AffectedCategories:  cats(parts.CategoryCPU, parts.CategoryCooler),
		SpecKeys:            []string{specs.KeyTDP, specs.KeyTDPRating},
		SeverityExplanation: "Advisory: the system works, with reduced sustained performance and more fan noise.",
		Recommendation:      "Pick a cooler rated 20-30% above the CPU TDP for quiet operation.",
	})
}

// DisplayOutputRule warns when nothing in the build can drive a monitor.
type DisplayOutputRule struct{}

func (DisplayOutputRule) ID() string { return "integrated-graphics" }

func (DisplayOutputRule) Requires() []parts.Category { return cats(parts.CategoryCPU) }

func (DisplayOutputRule) SpecKeys() []string { return []string{specs.KeyIntegratedGPU} }

func (r DisplayOutputRule) Check(sel parts.Selection) Outcome {
	if sel.Has(parts.CategoryGPU) {
		return skipped()
	}
	cpu, _ := sel.Get(parts.CategoryCPU)
	igpu, ok := cpu.Bool(specs.KeyIntegratedGPU)
	if !ok {
		return skipped()
	}

	if igpu {
		return confirmed(Confirmation{
			Type:        "display_output",
			Message:     fmt.Sprintf("%s has integrated graphics for display output", cpu.DisplayName()),
			Explanation: "With no graphics card selected, monitors connect to the motherboard's video outputs.",
		})
	}

	return issued(Issue{
		Type:     "no_display_output",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("%s has no integrated graphics and no graphics card is selected", cpu.DisplayName()),
		Explanation: fmt.Sprintf("CPU: %s has no integrated GPU, so the motherboard's video outputs are inactive. "+
			"Without a graphics card the system has no way to show an image.",
			cpu.DisplayName()),
		Fix: fmt.Sprintf("Option 1: add a graphics card to the build. Option 2: change the CPU to a model with integrated graphics (for example a non-F Intel part instead of %s).",
			cpu.DisplayName()),
		AffectedCategories:  cats(parts.CategoryCPU, parts.CategoryGPU),
		SpecKeys:            []string{specs.KeyIntegratedGPU},
		SeverityExplanation: "Advisory: the build powers on but shows nothing until a graphics card is installed.",
		Recommendation:      "Keep a cheap graphics card or an iGPU-equipped CPU around for troubleshooting.",
	})
}
