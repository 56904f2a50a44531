package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbuild/decision/parts"
)

func TestSocketRuleNormalizesLabels(t *testing.T) {
	cpu := part(parts.CategoryCPU, "CPU", map[string]any{"socket": "lga 1700"})
	board := part(parts.CategoryMotherboard, "Board", map[string]any{"socket": "LGA-1700"})
	out := SocketRule{}.Check(selection(cpu, board))
	assert.Empty(t, out.Issues)
	assert.Len(t, out.Confirmations, 1)
}

func TestMemoryGenerationRule(t *testing.T) {
	ddr4 := part(parts.CategoryRAM, "Vengeance LPX", map[string]any{"speed": "DDR4-3200"})
	ddr5 := part(parts.CategoryRAM, "Trident Z5", map[string]any{"speed": "DDR5-6000"})
	z790 := part(parts.CategoryMotherboard, "Z790 Aorus", map[string]any{"chipset": "Intel Z790"})
	odd := part(parts.CategoryMotherboard, "Odd Board", map[string]any{"chipset": "Unknown 9000"})

	t.Run("mismatch", func(t *testing.T) {
		out := MemoryGenerationRule{}.Check(selection(ddr4, b650))
		require.Len(t, out.Issues, 1)
		assert.Equal(t, SeverityError, out.Issues[0].Severity)
		assert.Contains(t, out.Issues[0].Message, "DDR4")
		assert.Contains(t, out.Issues[0].Message, "B650")
	})
	t.Run("match", func(t *testing.T) {
		out := MemoryGenerationRule{}.Check(selection(ddr5, b650))
		assert.Empty(t, out.Issues)
		assert.Len(t, out.Confirmations, 1)
	})
	t.Run("dual generation chipset", func(t *testing.T) {
		out := MemoryGenerationRule{}.Check(selection(ddr4, z790))
		require.Len(t, out.Issues, 1)
		assert.Equal(t, SeverityInfo, out.Issues[0].Severity)
	})
	t.Run("unknown chipset", func(t *testing.T) {
		out := MemoryGenerationRule{}.Check(selection(ddr5, odd))
		assert.Empty(t, out.Issues)
		assert.Empty(t, out.Confirmations)
	})
}

func TestRAMGeneration(t *testing.T) {
	g, ok := RAMGeneration("ddr5 6000")
	require.True(t, ok)
	assert.Equal(t, DDR5, g)
	_, ok = RAMGeneration("3200")
	assert.False(t, ok)
}

func TestChipsetGenerations(t *testing.T) {
	chipset, gens, ok := ChipsetGenerations("AMD X670E")
	require.True(t, ok)
	assert.Equal(t, "X670E", chipset)
	assert.Equal(t, []MemoryGeneration{DDR5}, gens)
}

func TestPowerHeadroomRule(t *testing.T) {
	rule := PowerHeadroomRule{Policy: DefaultPolicy()}
	big := part(parts.CategoryPSU, "850W Gold", map[string]any{"wattage": 850})

	t.Run("comfortable", func(t *testing.T) {
		out := rule.Check(selection(ryzen7700, rtx4070, big))
		assert.Empty(t, out.Issues)
		require.Len(t, out.Confirmations, 1)
	})
	t.Run("tight", func(t *testing.T) {
		out := rule.Check(selection(ryzen7700, rtx4070, psu400))
		require.Len(t, out.Issues, 1)
		assert.Equal(t, SeverityWarning, out.Issues[0].Severity)
	})
	t.Run("insufficient", func(t *testing.T) {
		out := rule.Check(selection(ryzen7700, rtx4070, psu300))
		require.Len(t, out.Issues, 1)
		assert.Equal(t, SeverityError, out.Issues[0].Severity)
		assert.Contains(t, out.Issues[0].Fix, "400 W")
	})
	t.Run("missing tdp uses default", func(t *testing.T) {
		gpu := part(parts.CategoryGPU, "Unknown GPU", nil)
		// 65 + 150 default + 100 = 315 W
		out := rule.Check(selection(ryzen7700, gpu, psu300))
		require.Len(t, out.Issues, 1)
		assert.Contains(t, out.Issues[0].Message, "315 W")
	})
	t.Run("psu alone", func(t *testing.T) {
		out := rule.Check(selection(psu300))
		assert.Empty(t, out.Issues)
		assert.Empty(t, out.Confirmations)
	})
}

func TestGPUClearanceRule(t *testing.T) {
	roomy := part(parts.CategoryCase, "Big Tower", map[string]any{"max_gpu_length_mm": 400, "max_gpu_height_mm": 180})
	tight := part(parts.CategoryCase, "Tiny Box", map[string]any{"max_gpu_length_mm": 200, "max_gpu_height_mm": 100})
	lengthOnly := part(parts.CategoryCase, "Mid Tower", map[string]any{"max_gpu_length_mm": 230})

	out := GPUClearanceRule{}.Check(selection(rtx4070, roomy))
	assert.Empty(t, out.Issues)

	out = GPUClearanceRule{}.Check(selection(rtx4070, tight))
	require.Len(t, out.Issues, 1)
	assert.Contains(t, out.Issues[0].Message, "length by 40 mm")
	assert.Contains(t, out.Issues[0].Message, "height by 12 mm")

	out = GPUClearanceRule{}.Check(selection(rtx4070, lengthOnly))
	require.Len(t, out.Issues, 1)
	assert.Contains(t, out.Issues[0].Message, "length by 10 mm")
	assert.NotContains(t, out.Issues[0].Message, "height")
}

func TestCoolerClearanceRule(t *testing.T) {
	tower := part(parts.CategoryCooler, "NH-D15", map[string]any{"height_mm": 165})
	pcCase := part(parts.CategoryCase, "Compact", map[string]any{"max_cooler_height_mm": 155})

	out := CoolerClearanceRule{}.Check(selection(tower, pcCase))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, SeverityError, out.Issues[0].Severity)
	assert.Contains(t, out.Issues[0].Message, "10 mm")
}

func TestPowerConnectorRule(t *testing.T) {
	rtx4090 := part(parts.CategoryGPU, "RTX 4090", map[string]any{"pcie_12vhpwr_required": 1})
	atx2 := part(parts.CategoryPSU, "Old 850W", map[string]any{"wattage": 850, "pcie_8pin_connectors": 4})
	atx3 := part(parts.CategoryPSU, "ATX 3.0 1000W", map[string]any{"wattage": 1000, "pcie_12vhpwr_connectors": 1})
	undeclared := part(parts.CategoryPSU, "Generic", map[string]any{"wattage": 650})

	out := PowerConnectorRule{}.Check(selection(rtx4090, atx2))
	require.Len(t, out.Issues, 1)
	assert.Contains(t, out.Issues[0].Message, "12VHPWR")

	out = PowerConnectorRule{}.Check(selection(rtx4090, atx3))
	assert.Empty(t, out.Issues)
	assert.Len(t, out.Confirmations, 1)

	out = PowerConnectorRule{}.Check(selection(rtx4090, undeclared))
	assert.Empty(t, out.Issues)
	assert.Empty(t, out.Confirmations)

	out = PowerConnectorRule{}.Check(selection(rtx4070, psu400))
	assert.Empty(t, out.Issues)
}

func TestStoragePCIeRule(t *testing.T) {
	gen5 := part(parts.CategoryStorage, "T700", map[string]any{"pcie_generation": 5})
	gen4 := part(parts.CategoryStorage, "990 Pro", map[string]any{"pcie_generation": 4})

	out := StoragePCIeRule{}.Check(selection(gen5, b650))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, SeverityInfo, out.Issues[0].Severity)

	out = StoragePCIeRule{}.Check(selection(gen4, b650))
	assert.Empty(t, out.Issues)
}

func TestFormFactorRule(t *testing.T) {
	itx := part(parts.CategoryCase, "NR200", map[string]any{"supported_form_factors": "Mini-ITX"})
	mid := part(parts.CategoryCase, "4000D", map[string]any{"supported_form_factors": []any{"ATX", "Micro-ATX", "Mini ITX"}})
	matxBoard := part(parts.CategoryMotherboard, "B650M", map[string]any{"form_factor": "mATX"})

	out := FormFactorRule{}.Check(selection(b650, itx))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, SeverityError, out.Issues[0].Severity)

	out = FormFactorRule{}.Check(selection(b650, mid))
	assert.Empty(t, out.Issues)

	out = FormFactorRule{}.Check(selection(matxBoard, mid))
	assert.Empty(t, out.Issues)
	assert.Len(t, out.Confirmations, 1)
}

func TestMemoryCapacityRule(t *testing.T) {
	quad := part(parts.CategoryRAM, "4x16GB", map[string]any{"modules": 4, "capacity_gb": 64})
	itxBoard := part(parts.CategoryMotherboard, "B650I", map[string]any{"memory_slots": 2, "max_memory_gb": 96})
	huge := part(parts.CategoryRAM, "2x64GB", map[string]any{"modules": 2, "capacity_gb": 128})

	out := MemoryCapacityRule{}.Check(selection(quad, itxBoard))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "memory_slots_exceeded", out.Issues[0].Type)

	out = MemoryCapacityRule{}.Check(selection(huge, itxBoard))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "memory_capacity_exceeded", out.Issues[0].Type)

	out = MemoryCapacityRule{}.Check(selection(quad, b650))
	assert.Empty(t, out.Issues)
	assert.Len(t, out.Confirmations, 1)
}

func TestCoolerRules(t *testing.T) {
	am5Cooler := part(parts.CategoryCooler, "Peerless Assassin", map[string]any{
		"socket_support": "AM4, AM5, LGA1700", "tdp_rating": 245,
	})
	amOnly := part(parts.CategoryCooler, "Wraith Prism", map[string]any{
		"socket_support": []string{"AM4", "AM5"}, "tdp_rating": 105,
	})

	out := CoolerSocketRule{}.Check(selection(corei5, am5Cooler))
	assert.Empty(t, out.Issues)

	out = CoolerSocketRule{}.Check(selection(corei5, amOnly))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, SeverityError, out.Issues[0].Severity)

	out = CoolerThermalRule{}.Check(selection(corei5, amOnly))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, SeverityWarning, out.Issues[0].Severity)

	out = CoolerThermalRule{}.Check(selection(ryzen7700, amOnly))
	assert.Empty(t, out.Issues)
}

func TestDisplayOutputRule(t *testing.T) {
	fSKU := part(parts.CategoryCPU, "Core i5-13400F", map[string]any{"integrated_graphics": "No"})

	out := DisplayOutputRule{}.Check(selection(fSKU))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, SeverityWarning, out.Issues[0].Severity)

	out = DisplayOutputRule{}.Check(selection(fSKU, rtx4070))
	assert.Empty(t, out.Issues)
	assert.Empty(t, out.Confirmations)

	out = DisplayOutputRule{}.Check(selection(ryzen7700))
	assert.Empty(t, out.Issues)
	assert.Len(t, out.Confirmations, 1)
}

func TestRoundUp(t *testing.T) {
	assert.Equal(t, 400.0, roundUp(385, 50))
	assert.Equal(t, 400.0, roundUp(400, 50))
	assert.Equal(t, 450.0, roundUp(400.5, 50))
	assert.Equal(t, 12.5, roundUp(12.5, 0))
}
