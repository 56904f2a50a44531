package compat

import (
	"fmt"
	"strings"
	"unicode"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// MemoryGeneration is a DDR generation label such as "DDR5".
type MemoryGeneration string

const (
	DDR3 MemoryGeneration = "DDR3"
	DDR4 MemoryGeneration = "DDR4"
	DDR5 MemoryGeneration = "DDR5"
)

// memoryGenerations is scanned newest first so "DDR5" wins over a stray "DDR4".
var memoryGenerations = []MemoryGeneration{DDR5, DDR4, DDR3}

// chipsetMemory is the allowlist of chipsets and the DDR generations their
// boards ship with. Intel 600/700 series boards exist in both DDR4 and DDR5
// variants.
var chipsetMemory = map[string][]MemoryGeneration{
	// AMD AM5
	"X870E": {DDR5}, "X870": {DDR5}, "B850": {DDR5}, "B840": {DDR5},
	"X670E": {DDR5}, "X670": {DDR5}, "B650E": {DDR5}, "B650": {DDR5}, "A620": {DDR5},
	"TRX50": {DDR5},
	// AMD AM4
	"X570": {DDR4}, "B550": {DDR4}, "A520": {DDR4}, "X470": {DDR4}, "B450": {DDR4},
	"X370": {DDR4}, "B350": {DDR4}, "A320": {DDR4}, "TRX40": {DDR4},
	// Intel LGA1851 / W790
	"Z890": {DDR5}, "B860": {DDR5}, "H810": {DDR5}, "W790": {DDR5},
	// Intel LGA1700
	"Z790": {DDR4, DDR5}, "H770": {DDR4, DDR5}, "B760": {DDR4, DDR5},
	"Z690": {DDR4, DDR5}, "H670": {DDR4, DDR5}, "B660": {DDR4, DDR5}, "H610": {DDR4, DDR5},
	// Intel LGA1200 / LGA1151
	"Z590": {DDR4}, "H570": {DDR4}, "B560": {DDR4}, "H510": {DDR4},
	"Z490": {DDR4}, "H470": {DDR4}, "B460": {DDR4}, "H410": {DDR4},
	"Z390": {DDR4}, "Z370": {DDR4}, "H370": {DDR4}, "B365": {DDR4}, "B360": {DDR4},
	// Legacy
	"Z97": {DDR3}, "H97": {DDR3}, "Z87": {DDR3}, "H81": {DDR3}, "B85": {DDR3},
	"990FX": {DDR3}, "970": {DDR3}, "A88X": {DDR3},
}

// RAMGeneration derives the DDR generation from a speed label like "DDR5-6000".
func RAMGeneration(speed string) (MemoryGeneration, bool) {
	upper := strings.ToUpper(speed)
	for _, g := range memoryGenerations {
		if strings.Contains(upper, string(g)) {
			return g, true
		}
	}
	return "", false
}

// ChipsetGenerations returns the allowlisted chipset found in a chipset
// label such as "AMD B650E" and the generations it supports.
func ChipsetGenerations(chipset string) (string, []MemoryGeneration, bool) {
	tokens := strings.FieldsFunc(strings.ToUpper(chipset), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if gens, ok := chipsetMemory[tok]; ok {
			return tok, gens, true
		}
	}
	return "", nil, false
}

func generationList(gens []MemoryGeneration) string {
	s := make([]string, len(gens))
	for i, g := range gens {
		s[i] = string(g)
	}
	return strings.Join(s, " or ")
}

// MemoryGenerationRule checks that the RAM generation is one the
// motherboard chipset supports.
type MemoryGenerationRule struct{}

func (MemoryGenerationRule) ID() string { return "memory-generation" }

func (MemoryGenerationRule) Requires() []parts.Category {
	return cats(parts.CategoryRAM, parts.CategoryMotherboard)
}

func (MemoryGenerationRule) SpecKeys() []string {
	return []string{specs.KeySpeed, specs.KeyChipset}
}

func (r MemoryGenerationRule) Check(sel parts.Selection) Outcome {
	ram, _ := sel.Get(parts.CategoryRAM)
	board, _ := sel.Get(parts.CategoryMotherboard)

	speed, ok := ram.Text(specs.KeySpeed)
	if !ok {
		return skipped()
	}
	ramGen, ok := RAMGeneration(speed)
	if !ok {
		return skipped()
	}
	chipsetLabel, ok := board.Text(specs.KeyChipset)
	if !ok {
		return skipped()
	}
	chipset, boardGens, ok := ChipsetGenerations(chipsetLabel)
	if !ok {
		return skipped()
	}

	supported := false
	for _, g := range boardGens {
		if g == ramGen {
			supported = true
			break
		}
	}

	if !supported {
		return issued(Issue{
			Type:     "memory_generation_mismatch",
			Severity: SeverityError,
			Message: fmt.Sprintf("%s (%s) is not supported by %s (%s chipset, %s only)",
				ram.DisplayName(), ramGen, board.DisplayName(), chipset, generationList(boardGens)),
			Explanation: fmt.Sprintf("Memory: %s is rated %s, which makes it %s. Motherboard: %s uses the %s chipset, whose boards take %s. "+
				"DDR generations use different voltages and a differently placed notch in the module edge, so the module will not insert into the slot.",
				ram.DisplayName(), speed, ramGen, board.DisplayName(), chipset, generationList(boardGens)),
			Fix: fmt.Sprintf("Option 1: change the memory to a %s kit. Option 2: change the motherboard to one whose chipset supports %s.",
				generationList(boardGens), ramGen),
			AffectedCategories:  cats(parts.CategoryRAM, parts.CategoryMotherboard),
			SpecKeys:            []string{specs.KeySpeed, specs.KeyChipset},
			SeverityExplanation: "Blocking: the modules cannot be installed and the system will not boot.",
			Recommendation:      "Match memory to the platform: AM5 and Intel 800-series boards are DDR5 only, AM4 is DDR4 only.",
		})
	}

	if len(boardGens) > 1 {
		return issued(Issue{
			Type:     "memory_generation_variant",
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%s boards exist in both %s variants; confirm %s is the %s version", chipset, generationList(boardGens), board.DisplayName(), ramGen),
			Explanation: fmt.Sprintf("Memory: %s is %s. Motherboard: %s uses the %s chipset, which vendors ship as separate DDR4 and DDR5 boards. "+
				"The chipset alone does not say which slots this board has.",
				ram.DisplayName(), ramGen, board.DisplayName(), chipset),
			Fix: fmt.Sprintf("Option 1: check the board's product page for %s slots. Option 2: pick a board whose model name carries the memory type (for example a \"D4\" or \"DDR5\" suffix).",
				ramGen),
			AffectedCategories:  cats(parts.CategoryRAM, parts.CategoryMotherboard),
			SpecKeys:            []string{specs.KeySpeed, specs.KeyChipset},
			SeverityExplanation: "Informational: the build is fine if the board variant matches.",
			Recommendation:      "Prefer listings that state the memory type explicitly.",
		})
	}

	return confirmed(Confirmation{
		Type:        "memory_generation",
		Message:     fmt.Sprintf("%s (%s) is supported by the %s chipset", ram.DisplayName(), ramGen, chipset),
		Explanation: fmt.Sprintf("The %s chipset on %s takes %s memory, matching the %s kit.", chipset, board.DisplayName(), ramGen, speed),
	})
}
