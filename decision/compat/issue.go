// Package compat is the compatibility rule engine. An Evaluator runs a fixed,
// ordered list of stateless rules over a part selection and collects the
// issues and confirmations they emit. Evaluation is pure: the same selection
// always yields the same result in the same order.
package compat

import "pcbuild/decision/parts"

// Severity of a compatibility issue.
type Severity string

const (
	// SeverityError is a physical or electrical impossibility.
	SeverityError Severity = "error"
	// SeverityWarning is advisory and never blocks a build.
	SeverityWarning Severity = "warning"
	// SeverityInfo is a tip.
	SeverityInfo Severity = "info"
)

// Issue is one detected compatibility problem.
type Issue struct {
	Type                string           `json:"type"`
	Severity            Severity         `json:"severity"`
	Message             string           `json:"message"`
	Explanation         string           `json:"explanation"`
	Fix                 string           `json:"fix"`
	AffectedCategories  []parts.Category `json:"affected_categories"`
	RuleID              string           `json:"rule_id"`
	SpecKeys            []string         `json:"spec_keys"`
	SeverityExplanation string           `json:"severity_explanation"`
	Recommendation      string           `json:"recommendation"`
}

// Confirmation acknowledges a checked relationship with no problem.
type Confirmation struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Explanation string `json:"explanation"`
}

// Result is the output of one evaluation.
type Result struct {
	Issues        []Issue        `json:"issues"`
	Confirmations []Confirmation `json:"confirmations"`
}

func newResult() Result {
	return Result{
		Issues:        make([]Issue, 0),
		Confirmations: make([]Confirmation, 0),
	}
}

// Count returns the number of issues with severity s.
func (r Result) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any issue is blocking.
func (r Result) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Filter returns the issues with severity s, in evaluation order.
func (r Result) Filter(s Severity) []Issue {
	out := make([]Issue, 0)
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}
