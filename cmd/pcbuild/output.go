package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pcbuild/decision/compat"
	"pcbuild/decision/parts"
	"pcbuild/decision/policy"
	"pcbuild/decision/power"
	"pcbuild/decision/scoring"
	"pcbuild/decision/specs"
)

// =============================================================================
// OUTPUT FORMATTERS
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	switch format {
	case "table", "json", "markdown":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or markdown)", format)
	}
}

func severityIcon(s compat.Severity) string {
	switch s {
	case compat.SeverityError:
		return "❌"
	case compat.SeverityWarning:
		return "⚠️ "
	default:
		return "ℹ️ "
	}
}

func decisionLabel(d policy.Decision) string {
	switch d {
	case policy.DecisionPass:
		return "✅ PASS"
	case policy.DecisionWarn:
		return "⚠️  WARN"
	default:
		return "❌ DENY"
	}
}

func renderAssessment(w io.Writer, format string, a policy.Assessment) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch format {
	case "json":
		return writeJSON(w, a)
	case "markdown":
		assessmentMarkdown(w, a)
	default:
		assessmentTable(w, a)
	}
	return nil
}

func assessmentTable(w io.Writer, a policy.Assessment) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BUILD CHECK")
	fmt.Fprintln(w, strings.Repeat("=", 64))
	fmt.Fprintf(w, "  Verdict:        %s\n", decisionLabel(a.Verdict.Decision))
	fmt.Fprintf(w, "  Total price:    $%s\n", a.TotalPrice)
	fmt.Fprintf(w, "  Issues:         %d error(s), %d warning(s), %d info\n",
		a.Verdict.Counts.Errors, a.Verdict.Counts.Warnings, a.Verdict.Counts.Infos)
	if a.Power.Status != power.StatusNone {
		fmt.Fprintf(w, "  Power:          %.0f W load, %.0f W recommended, PSU %s\n",
			a.Power.EstimatedLoad, a.Power.RecommendedPSU, a.Power.Status)
	} else {
		fmt.Fprintf(w, "  Power:          %.0f W load, %.0f W recommended\n",
			a.Power.EstimatedLoad, a.Power.RecommendedPSU)
	}
	fmt.Fprintln(w, strings.Repeat("-", 64))

	for _, issue := range a.Compatibility.Issues {
		fmt.Fprintf(w, "  %s %s\n", severityIcon(issue.Severity), issue.Message)
		if issue.Fix != "" {
			fmt.Fprintf(w, "     fix: %s\n", issue.Fix)
		}
	}
	for _, c := range a.Compatibility.Confirmations {
		fmt.Fprintf(w, "  ✅ %s\n", c.Message)
	}
	for _, v := range a.Verdict.Violations {
		fmt.Fprintf(w, "  gate %s: %s\n", v.GateID, v.Message)
	}
	for _, warn := range a.Verdict.Warnings {
		fmt.Fprintf(w, "  gate %s: %s\n", warn.GateID, warn.Message)
	}
	fmt.Fprintln(w, strings.Repeat("=", 64))
}

func assessmentMarkdown(w io.Writer, a policy.Assessment) {
	fmt.Fprintln(w, "## PC Build Check")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| **Verdict** | %s |\n", a.Verdict.Decision)
	fmt.Fprintf(w, "| **Total Price** | $%s |\n", a.TotalPrice)
	fmt.Fprintf(w, "| **Errors** | %d |\n", a.Verdict.Counts.Errors)
	fmt.Fprintf(w, "| **Warnings** | %d |\n", a.Verdict.Counts.Warnings)
	fmt.Fprintf(w, "| **Recommended PSU** | %.0f W |\n", a.Power.RecommendedPSU)

	if len(a.Compatibility.Issues) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "### Issues")
		fmt.Fprintln(w)
		for _, issue := range a.Compatibility.Issues {
			fmt.Fprintf(w, "- **%s** (%s): %s\n", issue.Type, issue.Severity, issue.Message)
			if issue.Fix != "" {
				fmt.Fprintf(w, "  - Fix: %s\n", issue.Fix)
			}
		}
	}

	if len(a.Verdict.Violations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "### Gate Violations")
		fmt.Fprintln(w)
		for _, v := range a.Verdict.Violations {
			fmt.Fprintf(w, "- **%s**: %s\n", v.GateName, v.Message)
		}
	}
}

func renderBudget(w io.Writer, format string, b power.Budget) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch format {
	case "json":
		return writeJSON(w, b)
	case "markdown":
		fmt.Fprintln(w, "## Power Budget")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Component | Draw | Share |")
		fmt.Fprintln(w, "|-----------|------|-------|")
		for _, c := range b.Components {
			fmt.Fprintf(w, "| %s | %s | %.1f%% |\n", c.Label, c.Formatted, c.PercentageOfTotal)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Recommended PSU: **%.0f W**\n", b.RecommendedPSU)
	default:
		fmt.Fprintln(w)
		fmt.Fprintln(w, "POWER BUDGET")
		fmt.Fprintln(w, strings.Repeat("=", 48))
		for _, c := range b.Components {
			marker := ""
			if c.Estimated {
				marker = " (est.)"
			}
			fmt.Fprintf(w, "  %-18s %10s %6.1f%%%s\n", c.Label, c.Formatted, c.PercentageOfTotal, marker)
		}
		fmt.Fprintln(w, strings.Repeat("-", 48))
		fmt.Fprintf(w, "  %-18s %8.0f W\n", "Components", b.TotalTDP)
		fmt.Fprintf(w, "  %-18s %8.0f W\n", "Overhead", b.BaseOverheadW)
		fmt.Fprintf(w, "  %-18s %8.0f W\n", "Estimated load", b.EstimatedLoad)
		fmt.Fprintf(w, "  %-18s %8.0f W\n", "Spike allowance", b.SpikeAllowance)
		fmt.Fprintf(w, "  %-18s %8.0f W\n", "Recommended PSU", b.RecommendedPSU)
		if b.Status != power.StatusNone {
			fmt.Fprintf(w, "  %-18s %8.0f W (%s, %.0f%% load)\n", "Selected PSU", b.PSUWattage, b.Status, b.Utilization*100)
		}
		fmt.Fprintln(w, strings.Repeat("=", 48))
	}
	return nil
}

// recommendation is the JSON shape of the recommend command.
type recommendation struct {
	Build  parts.Selection `json:"build"`
	Report scoring.Report  `json:"report"`
	policy.Assessment
}

func renderRecommendation(w io.Writer, format string, sel parts.Selection, r scoring.Report, a policy.Assessment) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, recommendation{Build: sel, Report: r, Assessment: a})
	}

	if format == "markdown" {
		fmt.Fprintf(w, "## Recommended Build (%s)\n\n", r.Template)
		fmt.Fprintln(w, "| Category | Part | Score | Reason |")
		fmt.Fprintln(w, "|----------|------|-------|--------|")
		for _, p := range r.Picks {
			name, score := "-", "-"
			if p.Chosen != nil {
				name, score = p.Chosen.Name, fmt.Sprintf("%.1f", p.Chosen.Score)
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", p.Category.Label(), name, score, p.Reason)
		}
		fmt.Fprintln(w)
		assessmentMarkdown(w, a)
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "RECOMMENDED BUILD (%s)\n", r.Template)
	fmt.Fprintln(w, strings.Repeat("=", 64))
	for _, p := range r.Picks {
		if p.Chosen == nil {
			fmt.Fprintf(w, "  %-14s %-30s %s\n", p.Category.Label(), "-", p.Reason)
			continue
		}
		fmt.Fprintf(w, "  %-14s %-30s %5.1f  %s\n", p.Category.Label(), truncate(p.Chosen.Name, 30), p.Chosen.Score, p.Reason)
	}
	assessmentTable(w, a)
	return nil
}

func renderSpecs(w io.Writer, format string, c parts.Category, entries []specs.Entry) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch format {
	case "json":
		return writeJSON(w, entries)
	case "markdown":
		fmt.Fprintf(w, "## %s specs\n\n", c.Label())
		fmt.Fprintln(w, "| Key | Label | Unit | Type | Importance |")
		fmt.Fprintln(w, "|-----|-------|------|------|------------|")
		for _, e := range entries {
			d := e.Definition
			fmt.Fprintf(w, "| `%s` | %s | %s | %s | %s |\n", e.Key, d.Label, d.Unit, d.Type, d.Importance)
		}
	default:
		fmt.Fprintf(w, "%s\n", strings.ToUpper(c.Label()))
		for _, e := range entries {
			d := e.Definition
			fmt.Fprintf(w, "  %-24s %-32s %-6s %s\n", e.Key, d.Label, d.Unit, d.Importance)
		}
	}
	return nil
}

func renderTemplates(w io.Writer, format string, templates []scoring.Template) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch format {
	case "json":
		return writeJSON(w, templates)
	case "markdown":
		fmt.Fprintln(w, "| Template | Description | Top category |")
		fmt.Fprintln(w, "|----------|-------------|--------------|")
		for _, t := range templates {
			fmt.Fprintf(w, "| %s | %s | %s |\n", t.Name, t.Description, t.Entries[0].Category.Label())
		}
	default:
		for _, t := range templates {
			fmt.Fprintf(w, "  %-12s %s\n", t.Name, t.Description)
		}
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
