package compat

import "pcbuild/decision/parts"

// Rule is one stateless compatibility check. Implementations are plain
// values; any thresholds they need are fields set at construction.
type Rule interface {
	// ID is unique within an evaluator.
	ID() string

	// Requires lists the categories that must all be selected for the rule
	// to run. The evaluator skips the rule otherwise.
	Requires() []parts.Category

	// SpecKeys lists every attribute key the rule reads. Each key must exist
	// in the dictionary the evaluator is built with.
	SpecKeys() []string

	// Check inspects the selection. Missing or malformed attribute values
	// make a rule return an empty Outcome rather than a partial issue.
	Check(sel parts.Selection) Outcome
}

// Outcome is what a single rule emits.
type Outcome struct {
	Issues        []Issue
	Confirmations []Confirmation
}

// skipped is the empty outcome of a rule that lacked usable data.
func skipped() Outcome { return Outcome{} }

func confirmed(c Confirmation) Outcome {
	return Outcome{Confirmations: []Confirmation{c}}
}

func issued(issues ...Issue) Outcome {
	return Outcome{Issues: issues}
}
