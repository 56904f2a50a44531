package compat

import (
	"fmt"
	"strings"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// formFactorAliases folds common spellings onto one canonical name.
var formFactorAliases = map[string]string{
	"ATX":         "ATX",
	"MICROATX":    "MATX",
	"MATX":        "MATX",
	"UATX":        "MATX",
	"MINIITX":     "ITX",
	"ITX":         "ITX",
	"MINIDTX":     "MINIDTX",
	"EATX":        "EATX",
	"EXTENDEDATX": "EATX",
	"SSIEEB":      "SSIEEB",
	"XLATX":       "XLATX",
}

func normalizeFormFactor(s string) string {
	c := canonical(strings.ReplaceAll(s, "µ", "u"))
	if alias, ok := formFactorAliases[c]; ok {
		return alias
	}
	return c
}

// FormFactorRule checks that the case accepts the motherboard form factor.
type FormFactorRule struct{}

func (FormFactorRule) ID() string { return "form-factor" }

func (FormFactorRule) Requires() []parts.Category {
	return cats(parts.CategoryMotherboard, parts.CategoryCase)
}

func (FormFactorRule) SpecKeys() []string {
	return []string{specs.KeyFormFactor, specs.KeySupportedForms}
}

func (r FormFactorRule) Check(sel parts.Selection) Outcome {
	board, _ := sel.Get(parts.CategoryMotherboard)
	pcCase, _ := sel.Get(parts.CategoryCase)

	form, ok := board.Text(specs.KeyFormFactor)
	if !ok {
		return skipped()
	}
	supported, ok := pcCase.List(specs.KeySupportedForms)
	if !ok {
		return skipped()
	}

	want := normalizeFormFactor(form)
	for _, s := range supported {
		if normalizeFormFactor(s) == want {
			return confirmed(Confirmation{
				Type:        "form_factor",
				Message:     fmt.Sprintf("%s supports %s motherboards", pcCase.DisplayName(), form),
				Explanation: fmt.Sprintf("The case lists %s, which includes the %s form factor of %s.", strings.Join(supported, ", "), form, board.DisplayName()),
			})
		}
	}

	return issued(Issue{
		Type:     "form_factor_mismatch",
		Severity: SeverityError,
		Message: fmt.Sprintf("%s (%s) does not fit %s (supports %s)",
			board.DisplayName(), form, pcCase.DisplayName(), strings.Join(supported, ", ")),
		Explanation: fmt.Sprintf("Motherboard: %s is %s. Case: %s has standoffs and an I/O opening for %s only. "+
			"The board's mounting holes and dimensions do not line up with the case tray.",
			board.DisplayName(), form, pcCase.DisplayName(), strings.Join(supported, ", ")),
		Fix: fmt.Sprintf("Option 1: change the case to one that lists %s support. Option 2: change the motherboard to one of %s.",
			form, strings.Join(supported, ", ")),
		AffectedCategories:  cats(parts.CategoryMotherboard, parts.CategoryCase),
		SpecKeys:            []string{specs.KeyFormFactor, specs.KeySupportedForms},
		SeverityExplanation: "Blocking: the motherboard cannot be mounted in the case.",
		Recommendation:      "Larger cases usually accept smaller boards; ATX cases take Micro-ATX and Mini-ITX as well.",
	})
}

// MemoryCapacityRule checks module count against slots and total capacity
// against the board maximum.
type MemoryCapacityRule struct{}

func (MemoryCapacityRule) ID() string { return "memory-slots" }

func (MemoryCapacityRule) Requires() []parts.Category {
	return cats(parts.CategoryRAM, parts.CategoryMotherboard)
}

func (MemoryCapacityRule) SpecKeys() []string {
	return []string{specs.KeyModules, specs.KeyMemorySlots, specs.KeyCapacityGB, specs.KeyMaxMemoryGB}
}

func (r MemoryCapacityRule) Check(sel parts.Selection) Outcome {
	ram, _ := sel.Get(parts.CategoryRAM)
	board, _ := sel.Get(parts.CategoryMotherboard)

	modules := readNumber(ram, specs.KeyModules)
	slots := readNumber(board, specs.KeyMemorySlots)
	capacity := readNumber(ram, specs.KeyCapacityGB)
	maxCap := readNumber(board, specs.KeyMaxMemoryGB)
	if malformed(modules, slots, capacity, maxCap) {
		return skipped()
	}

	var out Outcome
	checked := false

	if modules.ok() && slots.ok() {
		checked = true
		if modules.value > slots.value {
			out.Issues = append(out.Issues, Issue{
				Type:     "memory_slots_exceeded",
				Severity: SeverityError,
				Message: fmt.Sprintf("%s has %s modules but %s has only %s memory slots",
					ram.DisplayName(), num(modules.value), board.DisplayName(), num(slots.value)),
				Explanation: fmt.Sprintf("Memory: %s is a %s-module kit. Motherboard: %s has %s DIMM slots. "+
					"Each module needs its own slot, so %s modules would be left over.",
					ram.DisplayName(), num(modules.value), board.DisplayName(), num(slots.value), num(modules.value-slots.value)),
				Fix: fmt.Sprintf("Option 1: change the memory to a kit of %s or fewer modules with the same total capacity. "+
					"Option 2: change the motherboard to one with at least %s memory slots.",
					num(slots.value), num(modules.value)),
				AffectedCategories:  cats(parts.CategoryRAM, parts.CategoryMotherboard),
				SpecKeys:            []string{specs.KeyModules, specs.KeyMemorySlots},
				SeverityExplanation: "Blocking: not all purchased memory can be installed.",
				Recommendation:      "Two-module kits leave room to upgrade on four-slot boards.",
			})
		}
	}

	if capacity.ok() && maxCap.ok() {
		checked = true
		if capacity.value > maxCap.value {
			out.Issues = append(out.Issues, Issue{
				Type:     "memory_capacity_exceeded",
				Severity: SeverityError,
				Message: fmt.Sprintf("%s totals %s GB but %s supports at most %s GB",
					ram.DisplayName(), num(capacity.value), board.DisplayName(), num(maxCap.value)),
				Explanation: fmt.Sprintf("Memory: %s provides %s GB. Motherboard: %s addresses up to %s GB. "+
					"The memory controller cannot map capacity beyond its limit, so the excess %s GB is unusable or the system fails memory training.",
					ram.DisplayName(), num(capacity.value), board.DisplayName(), num(maxCap.value), num(capacity.value-maxCap.value)),
				Fix: fmt.Sprintf("Option 1: change the memory to a kit of at most %s GB. Option 2: change the motherboard to one supporting %s GB or more.",
					num(maxCap.value), num(capacity.value)),
				AffectedCategories:  cats(parts.CategoryRAM, parts.CategoryMotherboard),
				SpecKeys:            []string{specs.KeyCapacityGB, specs.KeyMaxMemoryGB},
				SeverityExplanation: "Blocking: the system may not boot with more memory than the board supports.",
				Recommendation:      "Check the board's QVL for high-capacity kits.",
			})
		}
	}

	if !checked {
		return skipped()
	}
	if len(out.Issues) == 0 {
		out.Confirmations = append(out.Confirmations, Confirmation{
			Type:        "memory_slots",
			Message:     fmt.Sprintf("%s fits the slots and capacity of %s", ram.DisplayName(), board.DisplayName()),
			Explanation: "Module count and total capacity are within the motherboard limits.",
		})
	}
	return out
}
