package compat

import (
	"log/slog"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
	bperrors "pcbuild/pkg/errors"
	"pcbuild/pkg/platform"
)

// SpecLookup resolves attribute keys; *specs.Dictionary satisfies it.
type SpecLookup interface {
	Lookup(key string) (specs.Definition, bool)
}

// Evaluator runs registered rules in order. It holds no per-call state and
// is safe for concurrent use.
type Evaluator struct {
	rules  []Rule
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for debug output about skipped rules.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator validates the rule set against dict. A duplicate rule id or a
// spec key missing from dict is a programming error and is returned as a
// *errors.BuildError; callers should abort start-up on it.
func NewEvaluator(dict SpecLookup, rules []Rule, opts ...Option) (*Evaluator, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		id := r.ID()
		if seen[id] {
			return nil, bperrors.NewDuplicateRuleError(id)
		}
		seen[id] = true
		for _, key := range r.SpecKeys() {
			if _, ok := dict.Lookup(key); !ok {
				return nil, bperrors.NewUnknownSpecKeyError(key, id)
			}
		}
	}

	e := &Evaluator{
		rules:  append([]Rule(nil), rules...),
		logger: platform.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustNewEvaluator is NewEvaluator for process start-up; it panics on a
// registration defect.
func MustNewEvaluator(dict SpecLookup, rules []Rule, opts ...Option) *Evaluator {
	e, err := NewEvaluator(dict, rules, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// NewDefaultEvaluator builds the built-in rule set over the built-in dictionary.
func NewDefaultEvaluator(policy Policy, opts ...Option) (*Evaluator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return NewEvaluator(specs.Default(), DefaultRules(policy), opts...)
}

// RuleIDs lists the registered rules in evaluation order.
func (e *Evaluator) RuleIDs() []string {
	ids := make([]string, len(e.rules))
	for i, r := range e.rules {
		ids[i] = r.ID()
	}
	return ids
}

// Evaluate runs every rule against sel. It never fails: rules that lack
// their categories or usable data contribute nothing.
func (e *Evaluator) Evaluate(sel parts.Selection) Result {
	result := newResult()
	for _, r := range e.rules {
		if !sel.Has(r.Requires()...) {
			continue
		}
		out, ok := e.run(r, sel)
		if !ok {
			continue
		}
		for _, issue := range out.Issues {
			issue.RuleID = r.ID()
			if issue.AffectedCategories == nil {
				issue.AffectedCategories = r.Requires()
			}
			if issue.SpecKeys == nil {
				issue.SpecKeys = []string{}
			}
			result.Issues = append(result.Issues, issue)
		}
		result.Confirmations = append(result.Confirmations, out.Confirmations...)
	}
	return result
}

func (e *Evaluator) run(r Rule, sel parts.Selection) (out Outcome, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Debug("rule panicked, skipping", "rule", r.ID(), "panic", rec)
			out, ok = Outcome{}, false
		}
	}()
	out = r.Check(sel)
	if len(out.Issues) == 0 && len(out.Confirmations) == 0 {
		e.logger.Debug("rule skipped or silent", "rule", r.ID())
	}
	return out, true
}
