package vmath

import (
	"math"

	"github.com/lixenwraith/warp-fade/parameter"
)

// SineTable holds one period of integer sine samples scaled to ±SineAmplitude
// Built once and shared read-only
type SineTable [parameter.SineTableSize]int

// BuildSineTable computes round(255 * sin(2πi/256)) for every index
func BuildSineTable() *SineTable {
	t := new(SineTable)
	for i := range t {
		rad := 2.0 * math.Pi * float64(i) / parameter.SineTableSize
		t[i] = int(math.Round(parameter.SineAmplitude * math.Sin(rad)))
	}
	return t
}

// At returns the sample for i, wrapping into the table period
// Negative indices wrap through two's complement masking
func (t *SineTable) At(i int) int {
	return t[i&parameter.SineTableMask]
}
