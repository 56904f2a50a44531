package compat

import (
	"fmt"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// StoragePCIeRule flags drives faster than the board's PCIe generation. It
// only ever degrades performance, so the issue is informational.
type StoragePCIeRule struct{}

func (StoragePCIeRule) ID() string { return "storage-pcie-generation" }

func (StoragePCIeRule) Requires() []parts.Category {
	return cats(parts.CategoryStorage, parts.CategoryMotherboard)
}

func (StoragePCIeRule) SpecKeys() []string { return []string{specs.KeyPCIeGeneration} }

func (r StoragePCIeRule) Check(sel parts.Selection) Outcome {
	drive, _ := sel.Get(parts.CategoryStorage)
	board, _ := sel.Get(parts.CategoryMotherboard)

	driveGen := readNumber(drive, specs.KeyPCIeGeneration)
	boardGen := readNumber(board, specs.KeyPCIeGeneration)
	if !driveGen.ok() || !boardGen.ok() {
		return skipped()
	}

	if driveGen.value <= boardGen.value {
		return confirmed(Confirmation{
			Type:        "storage_pcie_generation",
			Message:     fmt.Sprintf("%s runs at full PCIe %s speed on %s", drive.DisplayName(), num(driveGen.value), board.DisplayName()),
			Explanation: fmt.Sprintf("The board provides PCIe %s, which covers the drive's PCIe %s interface.", num(boardGen.value), num(driveGen.value)),
		})
	}

	return issued(Issue{
		Type:     "storage_pcie_bottleneck",
		Severity: SeverityInfo,
		Message: fmt.Sprintf("%s (PCIe %s) will run at PCIe %s speed on %s",
			drive.DisplayName(), num(driveGen.value), num(boardGen.value), board.DisplayName()),
		Explanation: fmt.Sprintf("Storage: %s is a PCIe %s drive. Motherboard: %s provides PCIe %s. "+
			"PCIe is backward compatible, so the drive works, but its link trains down to the board's generation and peak sequential throughput is capped at roughly half per generation step.",
			drive.DisplayName(), num(driveGen.value), board.DisplayName(), num(boardGen.value)),
		Fix: fmt.Sprintf("Option 1: keep the drive and accept PCIe %s speeds. Option 2: change the motherboard to one with PCIe %s M.2 slots. "+
			"Option 3: change the storage to a cheaper PCIe %s drive with the same capacity.",
			num(boardGen.value), num(driveGen.value), num(boardGen.value)),
		AffectedCategories:  cats(parts.CategoryStorage, parts.CategoryMotherboard),
		SpecKeys:            []string{specs.KeyPCIeGeneration},
		SeverityExplanation: "Informational: everything works; only peak drive bandwidth is lower than advertised.",
		Recommendation:      "Pay for drive bandwidth only when the board can use it.",
	})
}
