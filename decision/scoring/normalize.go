package scoring

import (
	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
	"pcbuild/pkg/scoremath"
	"pcbuild/pkg/units"
)

// normalizer scales one attribute onto 0..100.
type normalizer struct {
	max           float64
	lowerIsBetter bool
	// read overrides the numeric getter, for values stored as labels.
	read func(p parts.Part, key string) (float64, bool)
}

type categoryKey struct {
	category parts.Category
	key      string
}

// maxima are domain-reasonable saturation points. A part at or above the
// maximum scores 100.
var maxima = map[string]normalizer{
	specs.KeyCores:          {max: 16},
	specs.KeyThreads:        {max: 32},
	specs.KeyBoostClockGHz:  {max: 5},
	specs.KeyBaseClockGHz:   {max: 5},
	specs.KeyL3CacheMB:      {max: 128},
	specs.KeyVRAMGB:         {max: 24},
	specs.KeyCoreClockMHz:   {max: 3, read: clockGHz},
	specs.KeyCapacityGB:     {max: 32, read: capacityGB},
	specs.KeySpeed:          {max: 6400, read: memorySpeed},
	specs.KeyReadSpeedMBps:  {max: 12000},
	specs.KeyPCIeGeneration: {max: 5},
	specs.KeyM2Slots:        {max: 4},
	specs.KeyMemorySlots:    {max: 4},
	specs.KeyMaxMemoryGB:    {max: 192},
	specs.KeyTDPRating:      {max: 250},
	specs.KeyMaxGPULengthMM: {max: 400},
	specs.KeyFanCount:       {max: 6},
	specs.KeyTDP:            {max: 250, lowerIsBetter: true},
	specs.KeyWattage:        {max: 1000, lowerIsBetter: true},
}

// categoryMaxima take precedence over maxima for one category.
var categoryMaxima = map[categoryKey]normalizer{
	{parts.CategoryStorage, specs.KeyCapacityGB}: {max: 2000, read: capacityGB},
}

func capacityGB(p parts.Part, key string) (float64, bool) {
	return p.CapacityGB(key)
}

func memorySpeed(p parts.Part, key string) (float64, bool) {
	s, ok := p.Text(key)
	if !ok {
		return 0, false
	}
	return units.ParseMemorySpeed(s)
}

func clockGHz(p parts.Part, key string) (float64, bool) {
	v, ok := p.Number(key)
	if !ok {
		return 0, false
	}
	return units.MHzToGHz(v), true
}

// Normalize scores one attribute of p on 0..100. Booleans score 100 when
// true. Unknown keys and missing or unparseable values report false.
func Normalize(p parts.Part, key string) (float64, bool) {
	def, ok := specs.Lookup(key)
	if !ok {
		return 0, false
	}
	if def.Type == specs.TypeBoolean {
		b, ok := p.Bool(key)
		if !ok {
			return 0, false
		}
		if b {
			return scoremath.Scale, true
		}
		return 0, true
	}

	n, ok := categoryMaxima[categoryKey{p.Category, key}]
	if !ok {
		n, ok = maxima[key]
	}
	if !ok {
		return 0, false
	}
	read := n.read
	if read == nil {
		read = func(p parts.Part, key string) (float64, bool) { return p.Number(key) }
	}
	v, ok := read(p, key)
	if !ok {
		return 0, false
	}
	return scoremath.Saturate(v, n.max, n.lowerIsBetter), true
}

// Score is the weighted mean of the normalized priority specs of p. A spec
// the part does not declare scores 0, so unknown parts do not outrank
// documented ones.
func Score(p parts.Part, priorities []PrioritySpec) float64 {
	if len(priorities) == 0 {
		return 0
	}
	scores := make([]float64, len(priorities))
	weights := make([]float64, len(priorities))
	for i, spec := range priorities {
		scores[i], _ = Normalize(p, spec.Key)
		weights[i] = spec.Weight
	}
	return scoremath.WeightedMean(scores, weights)
}
