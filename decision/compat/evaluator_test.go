package compat

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
	bperrors "pcbuild/pkg/errors"
)

func TestEvaluateEmptySelection(t *testing.T) {
	e := newTestEvaluator(t)
	result := e.Evaluate(parts.NewSelection(nil))
	require.NotNil(t, result.Issues)
	require.NotNil(t, result.Confirmations)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Confirmations)
}

func TestEvaluateSocketMismatch(t *testing.T) {
	e := newTestEvaluator(t)
	result := e.Evaluate(selection(corei5, b650))

	socket := issuesFrom(result, "cpu-socket")
	require.Len(t, socket, 1)
	assert.Equal(t, SeverityError, socket[0].Severity)
	assert.Equal(t, []parts.Category{parts.CategoryCPU, parts.CategoryMotherboard}, socket[0].AffectedCategories)
	assert.Contains(t, socket[0].Message, "LGA1700")
	assert.Contains(t, socket[0].Message, "AM5")
	assert.Contains(t, socket[0].Fix, "Option 1")
	assert.Contains(t, socket[0].Fix, "Option 2")
	assert.NotEmpty(t, socket[0].SeverityExplanation)
	assert.NotEmpty(t, socket[0].Recommendation)
	assert.True(t, result.HasErrors())
}

func TestEvaluateSocketMatch(t *testing.T) {
	e := newTestEvaluator(t)
	result := e.Evaluate(selection(ryzen7700, b650))

	assert.Empty(t, issuesFrom(result, "cpu-socket"))
	var types []string
	for _, c := range result.Confirmations {
		types = append(types, c.Type)
	}
	assert.Contains(t, types, "socket")
}

func TestEvaluatePowerHeadroom(t *testing.T) {
	e := newTestEvaluator(t)

	// 65 + 220 + 100 = 385 W
	ok := e.Evaluate(selection(ryzen7700, rtx4070, psu400))
	for _, issue := range issuesFrom(ok, "power-headroom") {
		assert.NotEqual(t, SeverityError, issue.Severity)
	}

	short := e.Evaluate(selection(ryzen7700, rtx4070, psu300))
	power := issuesFrom(short, "power-headroom")
	require.Len(t, power, 1)
	assert.Equal(t, SeverityError, power[0].Severity)
	assert.Equal(t, []parts.Category{parts.CategoryCPU, parts.CategoryGPU, parts.CategoryPSU}, power[0].AffectedCategories)
	assert.Contains(t, power[0].Message, "385 W")
}

func TestEvaluateIsDeterministic(t *testing.T) {
	e := newTestEvaluator(t)
	sel := selection(corei5, b650, rtx4070, psu300)

	first := e.Evaluate(sel)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, e.Evaluate(sel)); diff != "" {
			t.Fatalf("evaluation %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestEvaluateConcurrentUse(t *testing.T) {
	e := newTestEvaluator(t)
	sel := selection(corei5, b650, rtx4070, psu300)
	want := e.Evaluate(sel)

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Evaluate(sel)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Empty(t, cmp.Diff(want, got))
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	e := newTestEvaluator(t)
	cpu := part(parts.CategoryCPU, "Core i5-13600K", map[string]any{"socket": "LGA1700", "tdp": 125})
	before := cpu.Record.Clone()
	e.Evaluate(selection(cpu, b650))
	assert.Equal(t, before, cpu.Record)
}

func TestEvaluateSkipsRulesWithoutData(t *testing.T) {
	e := newTestEvaluator(t)
	cpu := part(parts.CategoryCPU, "Mystery CPU", nil)
	board := part(parts.CategoryMotherboard, "Mystery Board", nil)
	result := e.Evaluate(selection(cpu, board))
	assert.Empty(t, result.Issues)
}

func TestEvaluateSkipsMalformedValues(t *testing.T) {
	e := newTestEvaluator(t)
	cpu := part(parts.CategoryCPU, "CPU", map[string]any{"tdp": "lots"})
	result := e.Evaluate(selection(cpu, rtx4070, psu300))
	assert.Empty(t, issuesFrom(result, "power-headroom"))
}

type stubRule struct {
	id       string
	keys     []string
	requires []parts.Category
	check    func(parts.Selection) Outcome
}

func (s stubRule) ID() string                        { return s.id }
func (s stubRule) Requires() []parts.Category        { return s.requires }
func (s stubRule) SpecKeys() []string                { return s.keys }
func (s stubRule) Check(sel parts.Selection) Outcome { return s.check(sel) }

func TestNewEvaluatorRejectsDuplicateRule(t *testing.T) {
	rules := []Rule{SocketRule{}, SocketRule{}}
	_, err := NewEvaluator(specs.Default(), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &bperrors.BuildError{Code: bperrors.ErrCodeDuplicateRule}))
}

func TestNewEvaluatorRejectsUnknownSpecKey(t *testing.T) {
	rules := []Rule{stubRule{id: "bogus", keys: []string{"flux_capacitance"}}}
	_, err := NewEvaluator(specs.Default(), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &bperrors.BuildError{Code: bperrors.ErrCodeUnknownSpecKey}))
	assert.Panics(t, func() { MustNewEvaluator(specs.Default(), rules) })
}

func TestEvaluateRecoversFromPanickingRule(t *testing.T) {
	rules := []Rule{
		stubRule{
			id:       "explodes",
			requires: []parts.Category{parts.CategoryCPU},
			check:    func(parts.Selection) Outcome { panic("boom") },
		},
		SocketRule{},
	}
	e, err := NewEvaluator(specs.Default(), rules)
	require.NoError(t, err)

	result := e.Evaluate(selection(corei5, b650))
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "cpu-socket", result.Issues[0].RuleID)
}

func TestEvaluateFillsIssueDefaults(t *testing.T) {
	rules := []Rule{stubRule{
		id:       "bare",
		requires: []parts.Category{parts.CategoryCPU},
		check: func(parts.Selection) Outcome {
			return issued(Issue{Type: "bare", Severity: SeverityInfo})
		},
	}}
	e, err := NewEvaluator(specs.Default(), rules)
	require.NoError(t, err)

	result := e.Evaluate(selection(ryzen7700))
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "bare", result.Issues[0].RuleID)
	assert.Equal(t, []parts.Category{parts.CategoryCPU}, result.Issues[0].AffectedCategories)
	assert.NotNil(t, result.Issues[0].SpecKeys)
}

func TestDefaultRuleIDs(t *testing.T) {
	e := newTestEvaluator(t)
	assert.Equal(t, []string{
		"cpu-socket",
		"memory-generation",
		"power-headroom",
		"gpu-clearance",
		"cooler-clearance",
		"gpu-power-connectors",
		"storage-pcie-generation",
		"form-factor",
		"memory-slots",
		"cooler-socket",
		"cooler-thermal",
		"integrated-graphics",
	}, e.RuleIDs())
}

func TestResultFilterAndCount(t *testing.T) {
	r := Result{Issues: []Issue{
		{Type: "a", Severity: SeverityError},
		{Type: "b", Severity: SeverityWarning},
		{Type: "c", Severity: SeverityError},
	}}
	assert.Equal(t, 2, r.Count(SeverityError))
	assert.Equal(t, 0, r.Count(SeverityInfo))
	assert.Len(t, r.Filter(SeverityWarning), 1)
	assert.NotNil(t, r.Filter(SeverityInfo))
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.WarnUtilization = 1.5
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, &bperrors.BuildError{Code: bperrors.ErrCodeInvalidPolicy}))

	p = DefaultPolicy()
	p.PSUStepW = 0
	assert.Error(t, p.Validate())
}
