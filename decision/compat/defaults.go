package compat

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules(policy Policy) []Rule {
	return []Rule{
		SocketRule{},
		MemoryGenerationRule{},
		PowerHeadroomRule{Policy: policy},
		GPUClearanceRule{},
		CoolerClearanceRule{},
		PowerConnectorRule{},
		StoragePCIeRule{},
		FormFactorRule{},
		MemoryCapacityRule{},
		CoolerSocketRule{},
		CoolerThermalRule{},
		DisplayOutputRule{},
	}
}
