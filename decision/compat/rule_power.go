package compat

import (
	"fmt"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// PowerHeadroomRule compares estimated CPU+GPU draw plus a fixed baseline
// against the PSU rating.
type PowerHeadroomRule struct {
	Policy Policy
}

func (PowerHeadroomRule) ID() string { return "power-headroom" }

func (PowerHeadroomRule) Requires() []parts.Category { return cats(parts.CategoryPSU) }

func (PowerHeadroomRule) SpecKeys() []string {
	return []string{specs.KeyTDP, specs.KeyWattage}
}

// draw returns the TDP of the part in category c, the policy default when
// it has none, and false when the value is present but unusable.
func (r PowerHeadroomRule) draw(sel parts.Selection, c parts.Category, fallback float64) (float64, bool, bool) {
	p, ok := sel.Get(c)
	if !ok {
		return 0, false, true
	}
	tdp := readNumber(p, specs.KeyTDP)
	if malformed(tdp) {
		return 0, true, false
	}
	if !tdp.ok() {
		return fallback, true, true
	}
	return tdp.value, true, true
}

func (r PowerHeadroomRule) Check(sel parts.Selection) Outcome {
	if !sel.HasAny(parts.CategoryCPU, parts.CategoryGPU) {
		return skipped()
	}
	psu, _ := sel.Get(parts.CategoryPSU)
	rating := readNumber(psu, specs.KeyWattage)
	if !rating.ok() || rating.value <= 0 {
		return skipped()
	}

	cpuW, hasCPU, ok := r.draw(sel, parts.CategoryCPU, r.Policy.DefaultCPUTDPW)
	if !ok {
		return skipped()
	}
	gpuW, hasGPU, ok := r.draw(sel, parts.CategoryGPU, r.Policy.DefaultGPUTDPW)
	if !ok {
		return skipped()
	}

	load := cpuW + gpuW + r.Policy.BaselineOverheadW
	utilization := load / rating.value
	comfortable := roundUp(load/r.Policy.WarnUtilization, r.Policy.PSUStepW)

	affected := []parts.Category{}
	if hasCPU {
		affected = append(affected, parts.CategoryCPU)
	}
	if hasGPU {
		affected = append(affected, parts.CategoryGPU)
	}
	affected = append(affected, parts.CategoryPSU)

	breakdown := fmt.Sprintf("CPU %s + GPU %s + %s baseline for the rest of the system = %s estimated load",
		watts(cpuW), watts(gpuW), watts(r.Policy.BaselineOverheadW), watts(load))

	switch {
	case load > rating.value:
		return issued(Issue{
			Type:     "insufficient_power",
			Severity: SeverityError,
			Message: fmt.Sprintf("Estimated load of %s exceeds the %s rating of %s",
				watts(load), watts(rating.value), psu.DisplayName()),
			Explanation: fmt.Sprintf("%s. Power supply: %s is rated for %s, leaving a deficit of %s. "+
				"A PSU asked to deliver more than its rating trips over-current protection or browns out, shutting the system down under load.",
				breakdown, psu.DisplayName(), watts(rating.value), watts(load-rating.value)),
			Fix: fmt.Sprintf("Option 1: change the power supply to one rated for at least %s (%s or more keeps utilization under %.0f%%). "+
				"Option 2: change the GPU or CPU to lower-TDP parts so the load drops below %s.",
				watts(roundUp(load, r.Policy.PSUStepW)), watts(comfortable), r.Policy.WarnUtilization*100, watts(rating.value)),
			AffectedCategories:  affected,
			SpecKeys:            []string{specs.KeyTDP, specs.KeyWattage},
			SeverityExplanation: "Blocking: the system is expected to shut down or fail to start under gaming or rendering load.",
			Recommendation:      "Size the PSU for peak draw plus headroom; graphics cards spike well above their rated TDP.",
		})

	case utilization > r.Policy.WarnUtilization:
		return issued(Issue{
			Type:     "low_power_headroom",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%s would run at %.0f%% of its %s rating (%s estimated load)",
				psu.DisplayName(), utilization*100, watts(rating.value), watts(load)),
			Explanation: fmt.Sprintf("%s. Power supply: %s is rated for %s, so only %s of headroom remains, above the %.0f%% utilization guideline. "+
				"Transient spikes can exceed the steady estimate and a PSU near its limit runs hotter, louder and less efficiently.",
				breakdown, psu.DisplayName(), watts(rating.value), watts(rating.value-load), r.Policy.WarnUtilization*100),
			Fix: fmt.Sprintf("Option 1: change the power supply to one rated for %s or more. "+
				"Option 2: change the GPU or CPU to lower-TDP parts to regain headroom.",
				watts(comfortable)),
			AffectedCategories:  affected,
			SpecKeys:            []string{specs.KeyTDP, specs.KeyWattage},
			SeverityExplanation: "Advisory: the build should run, but stability under transient spikes and future upgrades are at risk.",
			Recommendation:      "Aim for a PSU that runs at 50-80% of its rating under typical load.",
		})
	}

	return confirmed(Confirmation{
		Type:    "power_headroom",
		Message: fmt.Sprintf("%s covers the estimated %s load (%.0f%% utilization)", psu.DisplayName(), watts(load), utilization*100),
		Explanation: fmt.Sprintf("%s, against a %s rating, leaving %s of headroom.",
			breakdown, watts(rating.value), watts(rating.value-load)),
	})
}
