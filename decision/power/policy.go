package power

import (
	"fmt"

	bperrors "pcbuild/pkg/errors"
)

// Policy holds the heuristics and thresholds used by Calculate. The defaults
// are product policy; override them through the policy file.
type Policy struct {
	BaseOverheadW float64 `yaml:"base_overhead_w" json:"base_overhead_w"`
	SafetyMargin  float64 `yaml:"safety_margin" json:"safety_margin"`
	RoundingStepW float64 `yaml:"rounding_step_w" json:"rounding_step_w"`
	// SpikeFactor scales the larger of CPU and GPU draw into a transient allowance.
	SpikeFactor float64 `yaml:"spike_factor" json:"spike_factor"`

	// Utilization above InsufficientAbove is insufficient, above
	// BorderlineAbove is borderline.
	InsufficientAbove float64 `yaml:"insufficient_above" json:"insufficient_above"`
	BorderlineAbove   float64 `yaml:"borderline_above" json:"borderline_above"`

	DefaultCPUTDPW  float64 `yaml:"default_cpu_tdp_w" json:"default_cpu_tdp_w"`
	DefaultGPUTDPW  float64 `yaml:"default_gpu_tdp_w" json:"default_gpu_tdp_w"`
	MotherboardW    float64 `yaml:"motherboard_w" json:"motherboard_w"`
	RAMWattsPer16GB float64 `yaml:"ram_watts_per_16gb" json:"ram_watts_per_16gb"`
	SSDW            float64 `yaml:"ssd_w" json:"ssd_w"`
	HDDW            float64 `yaml:"hdd_w" json:"hdd_w"`
	FanW            float64 `yaml:"fan_w" json:"fan_w"`
}

// DefaultPolicy returns the shipped heuristics.
func DefaultPolicy() Policy {
	return Policy{
		BaseOverheadW:     30,
		SafetyMargin:      0.25,
		RoundingStepW:     50,
		SpikeFactor:       0.5,
		InsufficientAbove: 0.90,
		BorderlineAbove:   0.75,
		DefaultCPUTDPW:    65,
		DefaultGPUTDPW:    150,
		MotherboardW:      50,
		RAMWattsPer16GB:   5,
		SSDW:              8,
		HDDW:              12,
		FanW:              3,
	}
}

// Validate checks that every field is in range.
func (p Policy) Validate() error {
	nonNegative := map[string]float64{
		"power.base_overhead_w":    p.BaseOverheadW,
		"power.safety_margin":      p.SafetyMargin,
		"power.spike_factor":       p.SpikeFactor,
		"power.default_cpu_tdp_w":  p.DefaultCPUTDPW,
		"power.default_gpu_tdp_w":  p.DefaultGPUTDPW,
		"power.motherboard_w":      p.MotherboardW,
		"power.ram_watts_per_16gb": p.RAMWattsPer16GB,
		"power.ssd_w":              p.SSDW,
		"power.hdd_w":              p.HDDW,
		"power.fan_w":              p.FanW,
	}
	for _, field := range sortedKeys(nonNegative) {
		if v := nonNegative[field]; v < 0 {
			return bperrors.NewInvalidPolicyError(fmt.Sprintf("must be >= 0, got %.2f", v), field)
		}
	}
	if p.RoundingStepW <= 0 {
		return bperrors.NewInvalidPolicyError(fmt.Sprintf("must be > 0, got %.1f", p.RoundingStepW), "power.rounding_step_w")
	}
	if p.BorderlineAbove <= 0 || p.BorderlineAbove >= p.InsufficientAbove {
		return bperrors.NewInvalidPolicyError(
			fmt.Sprintf("need 0 < borderline_above < insufficient_above, got %.2f and %.2f", p.BorderlineAbove, p.InsufficientAbove),
			"power.borderline_above")
	}
	return nil
}
