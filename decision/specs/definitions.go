package specs

import "pcbuild/decision/parts"

// Attribute keys referenced from code. Rules declare the keys they read, and
// the evaluator rejects any key that is not defined here.
const (
	KeyCores          = "cores"
	KeyThreads        = "threads"
	KeyBaseClockGHz   = "base_clock_ghz"
	KeyBoostClockGHz  = "boost_clock_ghz"
	KeyL3CacheMB      = "l3_cache_mb"
	KeySocket         = "socket"
	KeyTDP            = "tdp"
	KeyIntegratedGPU  = "integrated_graphics"
	KeyVRAMGB         = "vram_gb"
	KeyCoreClockMHz   = "core_clock_mhz"
	KeyLengthMM       = "length_mm"
	KeyHeightMM       = "height_mm"
	KeyPCIe8PinNeeded = "pcie_8pin_required"
	KeyPCIe6PinNeeded = "pcie_6pin_required"
	KeyHPWRNeeded     = "pcie_12vhpwr_required"
	KeyPCIeGeneration = "pcie_generation"
	KeyChipset        = "chipset"
	KeyFormFactor     = "form_factor"
	KeyMemorySlots    = "memory_slots"
	KeyMaxMemoryGB    = "max_memory_gb"
	KeyM2Slots        = "m2_slots"
	KeyCapacityGB     = "capacity_gb"
	KeySpeed          = "speed"
	KeyModules        = "modules"
	KeyCASLatency     = "cas_latency"
	KeyType           = "type"
	KeyReadSpeedMBps  = "read_speed_mbps"
	KeyInterface      = "interface"
	KeyWattage        = "wattage"
	KeyEfficiency     = "efficiency_rating"
	KeyModular        = "modular"
	KeyPCIe8PinSupply = "pcie_8pin_connectors"
	KeyPCIe6PinSupply = "pcie_6pin_connectors"
	KeyHPWRSupply     = "pcie_12vhpwr_connectors"
	KeySupportedForms = "supported_form_factors"
	KeyMaxGPULengthMM = "max_gpu_length_mm"
	KeyMaxGPUHeightMM = "max_gpu_height_mm"
	KeyMaxCoolerMM    = "max_cooler_height_mm"
	KeyFanCount       = "fan_count"
	KeySocketSupport  = "socket_support"
	KeyTDPRating      = "tdp_rating"
)

var (
	cpu         = parts.CategoryCPU
	gpu         = parts.CategoryGPU
	motherboard = parts.CategoryMotherboard
	ram         = parts.CategoryRAM
	storage     = parts.CategoryStorage
	psu         = parts.CategoryPSU
	pcCase      = parts.CategoryCase
	cooler      = parts.CategoryCooler
)

func cats(c ...parts.Category) []parts.Category { return c }

var definitions = withOrdinals([]Definition{
	// performance
	{Key: KeyCores, Label: "Cores", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPerformance, Categories: cats(cpu)},
	{Key: KeyThreads, Label: "Threads", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupPerformance, Categories: cats(cpu)},
	{Key: KeyBoostClockGHz, Label: "Boost Clock", Unit: "GHz", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPerformance, Categories: cats(cpu)},
	{Key: KeyBaseClockGHz, Label: "Base Clock", Unit: "GHz", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupPerformance, Categories: cats(cpu)},
	{Key: KeyL3CacheMB, Label: "L3 Cache", Unit: "MB", Type: TypeNumber, Importance: ImportanceLow, Group: parts.GroupPerformance, Categories: cats(cpu)},
	{Key: KeyCoreClockMHz, Label: "Boost Clock", Unit: "MHz", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupPerformance, Categories: cats(gpu)},
	{Key: KeyReadSpeedMBps, Label: "Sequential Read", Unit: "MB/s", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPerformance, Categories: cats(storage)},
	{Key: KeyCASLatency, Label: "CAS Latency", Type: TypeNumber, Importance: ImportanceLow, Group: parts.GroupPerformance, Categories: cats(ram)},

	// compatibility
	{Key: KeySocket, Label: "Socket", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupCompatibility, Categories: cats(cpu, motherboard)},
	{Key: KeyChipset, Label: "Chipset", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupCompatibility, Categories: cats(motherboard)},
	{Key: KeySocketSupport, Label: "Socket Support", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupCompatibility, Categories: cats(cooler)},
	{Key: KeyPCIeGeneration, Label: "PCIe Generation", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupCompatibility, Categories: cats(gpu, motherboard, storage)},

	// power
	{Key: KeyTDP, Label: "TDP", Unit: "W", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(cpu, gpu)},
	{Key: KeyWattage, Label: "Wattage", Unit: "W", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(psu)},
	{Key: KeyHPWRNeeded, Label: "12VHPWR Connectors Required", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(gpu)},
	{Key: KeyPCIe8PinNeeded, Label: "8-pin PCIe Connectors Required", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(gpu)},
	{Key: KeyPCIe6PinNeeded, Label: "6-pin PCIe Connectors Required", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(gpu)},
	{Key: KeyHPWRSupply, Label: "12VHPWR Connectors", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(psu)},
	{Key: KeyPCIe8PinSupply, Label: "8-pin PCIe Connectors", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(psu)},
	{Key: KeyPCIe6PinSupply, Label: "6-pin PCIe Connectors", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPower, Categories: cats(psu)},
	{Key: KeyEfficiency, Label: "Efficiency Rating", Type: TypeString, Importance: ImportanceMedium, Group: parts.GroupPower, Categories: cats(psu)},
	{Key: KeyTDPRating, Label: "Rated TDP", Unit: "W", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupPower, Categories: cats(cooler)},

	// physical
	{Key: KeyFormFactor, Label: "Form Factor", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupPhysical, Categories: cats(motherboard)},
	{Key: KeySupportedForms, Label: "Motherboard Support", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupPhysical, Categories: cats(pcCase)},
	{Key: KeyLengthMM, Label: "Length", Unit: "mm", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPhysical, Categories: cats(gpu)},
	{Key: KeyHeightMM, Label: "Height", Unit: "mm", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupPhysical, Categories: cats(gpu, cooler)},
	{Key: KeyMaxGPULengthMM, Label: "Max GPU Length", Unit: "mm", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPhysical, Categories: cats(pcCase)},
	{Key: KeyMaxGPUHeightMM, Label: "Max GPU Height", Unit: "mm", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupPhysical, Categories: cats(pcCase)},
	{Key: KeyMaxCoolerMM, Label: "Max CPU Cooler Height", Unit: "mm", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupPhysical, Categories: cats(pcCase)},

	// memory
	{Key: KeyCapacityGB, Label: "Capacity", Unit: "GB", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupMemory, Categories: cats(ram, storage)},
	{Key: KeySpeed, Label: "Speed", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupMemory, Categories: cats(ram)},
	{Key: KeyVRAMGB, Label: "Video Memory", Unit: "GB", Type: TypeNumber, Importance: ImportanceHigh, Group: parts.GroupMemory, Categories: cats(gpu)},
	{Key: KeyModules, Label: "Modules", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupMemory, Categories: cats(ram)},
	{Key: KeyMemorySlots, Label: "Memory Slots", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupMemory, Categories: cats(motherboard)},
	{Key: KeyMaxMemoryGB, Label: "Max Memory", Unit: "GB", Type: TypeNumber, Importance: ImportanceMedium, Group: parts.GroupMemory, Categories: cats(motherboard)},

	// connectivity
	{Key: KeyInterface, Label: "Interface", Type: TypeString, Importance: ImportanceMedium, Group: parts.GroupConnectivity, Categories: cats(storage)},
	{Key: KeyM2Slots, Label: "M.2 Slots", Type: TypeNumber, Importance: ImportanceLow, Group: parts.GroupConnectivity, Categories: cats(motherboard)},

	// features
	{Key: KeyType, Label: "Type", Type: TypeString, Importance: ImportanceHigh, Group: parts.GroupFeatures, Categories: cats(storage, cooler)},
	{Key: KeyIntegratedGPU, Label: "Integrated Graphics", Type: TypeBoolean, Importance: ImportanceLow, Group: parts.GroupFeatures, Categories: cats(cpu)},
	{Key: KeyModular, Label: "Modular", Type: TypeBoolean, Importance: ImportanceLow, Group: parts.GroupFeatures, Categories: cats(psu)},
	{Key: KeyFanCount, Label: "Included Fans", Type: TypeNumber, Importance: ImportanceLow, Group: parts.GroupFeatures, Categories: cats(pcCase)},
})

func withOrdinals(defs []Definition) []Definition {
	for i := range defs {
		if defs[i].Order == 0 {
			defs[i].Order = i + 1
		}
	}
	return defs
}
