package compat

import (
	"fmt"

	bperrors "pcbuild/pkg/errors"
)

// Policy holds the numeric thresholds used by the built-in rules. These are
// product policy, not physics; override them through the policy file.
type Policy struct {
	// BaselineOverheadW is added to CPU and GPU draw to cover board, memory,
	// drives and fans when checking PSU headroom.
	BaselineOverheadW float64 `yaml:"baseline_overhead_w" json:"baseline_overhead_w"`
	// WarnUtilization is the load/wattage ratio above which headroom is
	// reported as a warning.
	WarnUtilization float64 `yaml:"warn_utilization" json:"warn_utilization"`
	// DefaultCPUTDPW and DefaultGPUTDPW stand in for parts with no tdp.
	DefaultCPUTDPW float64 `yaml:"default_cpu_tdp_w" json:"default_cpu_tdp_w"`
	DefaultGPUTDPW float64 `yaml:"default_gpu_tdp_w" json:"default_gpu_tdp_w"`
	// PSUStepW is the granularity of suggested PSU ratings in fixes.
	PSUStepW float64 `yaml:"psu_step_w" json:"psu_step_w"`
}

// DefaultPolicy returns the shipped thresholds.
func DefaultPolicy() Policy {
	return Policy{
		BaselineOverheadW: 100,
		WarnUtilization:   0.90,
		DefaultCPUTDPW:    65,
		DefaultGPUTDPW:    150,
		PSUStepW:          50,
	}
}

// Validate checks that every threshold is in range.
func (p Policy) Validate() error {
	if p.BaselineOverheadW < 0 {
		return bperrors.NewInvalidPolicyError(fmt.Sprintf("must be >= 0, got %.1f", p.BaselineOverheadW), "compatibility.baseline_overhead_w")
	}
	if p.WarnUtilization <= 0 || p.WarnUtilization > 1 {
		return bperrors.NewInvalidPolicyError(fmt.Sprintf("must be in (0, 1], got %.2f", p.WarnUtilization), "compatibility.warn_utilization")
	}
	if p.DefaultCPUTDPW < 0 || p.DefaultGPUTDPW < 0 {
		return bperrors.NewInvalidPolicyError("default TDPs must be >= 0", "compatibility.default_tdp")
	}
	if p.PSUStepW <= 0 {
		return bperrors.NewInvalidPolicyError(fmt.Sprintf("must be > 0, got %.1f", p.PSUStepW), "compatibility.psu_step_w")
	}
	return nil
}
