// Package policy turns compatibility and power results into a build verdict
// and loads the tunable thresholds used across the decision packages.
package policy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pcbuild/decision/compat"
	"pcbuild/decision/power"
)

// GateType defines what a gate inspects
type GateType string

const (
	GateTypeBlockingIssues GateType = "blocking_issues"
	GateTypeAdvisories     GateType = "advisories"
	GateTypePowerStatus    GateType = "power_status"
	GateTypePriceLimit     GateType = "price_limit"
)

// Severity defines gate violation severity
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Decision is the gate evaluation outcome
type Decision string

const (
	DecisionPass Decision = "pass"
	DecisionWarn Decision = "warn"
	DecisionDeny Decision = "deny"
)

// Gate is one check applied to an evaluated build.
type Gate struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Type        GateType `yaml:"type" json:"type"`
	Severity    Severity `yaml:"severity" json:"severity"`
	// Threshold is the largest allowed count for issue gates and the price
	// ceiling for price_limit. power_status ignores it.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Enabled   bool    `yaml:"enabled" json:"enabled"`
}

// Violation represents a failed gate
type Violation struct {
	GateID   string `json:"gate_id"`
	GateName string `json:"gate_name"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Warning represents an advisory gate result
type Warning struct {
	GateID  string `json:"gate_id"`
	Message string `json:"message"`
}

// Counts tallies issues by severity.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Request is the input to a verdict. Budget and TotalPrice are optional;
// gates that need them pass when they are absent.
type Request struct {
	Result     compat.Result
	Budget     *power.Budget
	TotalPrice decimal.Decimal
}

// Verdict is the gate evaluation outcome.
type Verdict struct {
	Decision   Decision    `json:"decision"`
	Counts     Counts      `json:"counts"`
	Violations []Violation `json:"violations"`
	Warnings   []Warning   `json:"warnings"`
	GatesRan   int         `json:"gates_ran"`
}

// Engine applies gates to evaluated builds.
type Engine struct {
	gates []Gate
}

// NewEngine creates an engine with the given gates, in order.
func NewEngine(gates []Gate) *Engine {
	return &Engine{gates: append([]Gate(nil), gates...)}
}

// AddGate appends a custom gate
func (e *Engine) AddGate(g Gate) {
	e.gates = append(e.gates, g)
}

// Evaluate runs every enabled gate against req.
func (e *Engine) Evaluate(req Request) Verdict {
	v := Verdict{
		Decision:   DecisionPass,
		Violations: make([]Violation, 0),
		Warnings:   make([]Warning, 0),
		Counts: Counts{
			Errors:   req.Result.Count(compat.SeverityError),
			Warnings: req.Result.Count(compat.SeverityWarning),
			Infos:    req.Result.Count(compat.SeverityInfo),
		},
	}

	for _, gate := range e.gates {
		if !gate.Enabled {
			continue
		}

		v.GatesRan++
		violation, warning := e.evaluateGate(gate, req, v.Counts)

		if violation != nil {
			v.Violations = append(v.Violations, *violation)
			if gate.Severity == SeverityError {
				v.Decision = DecisionDeny
			} else if v.Decision != DecisionDeny {
				v.Decision = DecisionWarn
			}
		}

		if warning != nil {
			v.Warnings = append(v.Warnings, *warning)
			if v.Decision == DecisionPass {
				v.Decision = DecisionWarn
			}
		}
	}

	return v
}

func (e *Engine) evaluateGate(g Gate, req Request, counts Counts) (*Violation, *Warning) {
	switch g.Type {
	case GateTypeBlockingIssues:
		if float64(counts.Errors) > g.Threshold {
			return g.violation(fmt.Sprintf("%d blocking compatibility issue(s), %s allowed", counts.Errors, limit(g.Threshold))), nil
		}

	case GateTypeAdvisories:
		if float64(counts.Warnings) > g.Threshold {
			if g.Severity == SeverityError {
				return g.violation(fmt.Sprintf("%d compatibility warning(s), %s allowed", counts.Warnings, limit(g.Threshold))), nil
			}
			return nil, &Warning{
				GateID:  g.ID,
				Message: fmt.Sprintf("%d compatibility warning(s) to review", counts.Warnings),
			}
		}

	case GateTypePowerStatus:
		if req.Budget == nil {
			return nil, nil
		}
		switch req.Budget.Status {
		case power.StatusInsufficient:
			return g.violation(fmt.Sprintf("PSU runs at %.0f%% of its rating; recommended at least %.0f W",
				req.Budget.Utilization*100, req.Budget.RecommendedPSU)), nil
		case power.StatusBorderline:
			return nil, &Warning{
				GateID:  g.ID,
				Message: fmt.Sprintf("PSU headroom is borderline (%.0f%% utilization)", req.Budget.Utilization*100),
			}
		}

	case GateTypePriceLimit:
		if g.Threshold > 0 && req.TotalPrice.GreaterThan(decimal.NewFromFloat(g.Threshold)) {
			return g.violation(fmt.Sprintf("build total ($%s) exceeds limit ($%.2f)", req.TotalPrice.StringFixed(2), g.Threshold)), nil
		}
	}

	return nil, nil
}

func (g Gate) violation(msg string) *Violation {
	return &Violation{
		GateID:   g.ID,
		GateName: g.Name,
		Message:  msg,
		Severity: string(g.Severity),
	}
}

func limit(threshold float64) string {
	if threshold <= 0 {
		return "none"
	}
	return fmt.Sprintf("%.0f", threshold)
}

// DefaultGates blocks builds with error-severity issues or an insufficient
// PSU and flags warnings. The price limit ships disabled.
func DefaultGates() []Gate {
	return []Gate{
		{
			ID:          "no-blocking-issues",
			Name:        "No Blocking Issues",
			Description: "Deny builds with any error-severity compatibility issue",
			Type:        GateTypeBlockingIssues,
			Severity:    SeverityError,
			Threshold:   0,
			Enabled:     true,
		},
		{
			ID:          "review-advisories",
			Name:        "Review Advisories",
			Description: "Warn when compatibility warnings are present",
			Type:        GateTypeAdvisories,
			Severity:    SeverityWarning,
			Threshold:   0,
			Enabled:     true,
		},
		{
			ID:          "psu-adequacy",
			Name:        "PSU Adequacy",
			Description: "Deny an insufficient PSU, warn on a borderline one",
			Type:        GateTypePowerStatus,
			Severity:    SeverityError,
			Enabled:     true,
		},
		{
			ID:          "price-limit",
			Name:        "Price Limit",
			Description: "Deny builds whose total price exceeds the threshold",
			Type:        GateTypePriceLimit,
			Severity:    SeverityError,
			Threshold:   0,
			Enabled:     false,
		},
	}
}

// Decide applies the default gates to a compatibility result alone.
func Decide(r compat.Result) Verdict {
	return NewEngine(DefaultGates()).Evaluate(Request{Result: r})
}
