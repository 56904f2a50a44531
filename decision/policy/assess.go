package policy

import (
	"pcbuild/decision/compat"
	"pcbuild/decision/parts"
	"pcbuild/decision/power"
)

// Assessment bundles the compatibility result, power budget and verdict
// for one build.
type Assessment struct {
	Compatibility compat.Result `json:"compatibility"`
	Power         power.Budget  `json:"power"`
	TotalPrice    string        `json:"total_price"`
	Verdict       Verdict       `json:"verdict"`
}

// Assess evaluates sel with ev, computes its power budget under the
// configured power policy and applies the configured gates.
func (c Config) Assess(ev *compat.Evaluator, sel parts.Selection) Assessment {
	result := ev.Evaluate(sel)
	budget := power.Calculate(sel, c.Power)
	total := sel.TotalPrice()
	return Assessment{
		Compatibility: result,
		Power:         budget,
		TotalPrice:    total.StringFixed(2),
		Verdict: c.Engine().Evaluate(Request{
			Result:     result,
			Budget:     &budget,
			TotalPrice: total,
		}),
	}
}

// Evaluator builds the default rule set with the configured thresholds.
func (c Config) Evaluator(opts ...compat.Option) (*compat.Evaluator, error) {
	return compat.NewDefaultEvaluator(c.Compatibility, opts...)
}
