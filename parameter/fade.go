package parameter

// Warp & Fade
const (
	// FadeSpeed is the phase advance per logical tick
	FadeSpeed = 20

	// PhaseMax is the phase at which the frame is fully blanked and black
	PhaseMax = 256

	// FadeSteps is the number of tick-driven warp steps per fade (integer division, 12 at speed 20)
	FadeSteps = PhaseMax / FadeSpeed

	// WarpIntensity scales phase into displacement magnitude: l = (phase*WarpIntensity)>>8
	WarpIntensity = 30
)

// Sine Table
const (
	// SineTableSize is the number of samples over one full period
	SineTableSize = 256

	// SineTableMask wraps any index into the table
	SineTableMask = SineTableSize - 1

	// SineAmplitude is the peak sample magnitude
	SineAmplitude = 255
)

// Indexed Color
const (
	// Background is the transparent/background palette index written for out-of-bounds samples
	Background byte = 0

	// PaletteEntries is the number of slots in an 8-bit indexed palette
	PaletteEntries = 256

	// PaletteBytes is the size of a base palette: 3 channels per entry
	PaletteBytes = PaletteEntries * 3

	// ChannelMax6 is the ceiling of a VGA DAC channel (6-bit)
	ChannelMax6 = 63

	// ChannelMax8 is the ceiling of a display-range channel
	ChannelMax8 = 255

	// BrightnessFull leaves a palette unscaled
	BrightnessFull = 256
)
