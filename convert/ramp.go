package convert

// Ramp is an ordered glyph table from sparse to dense. Index i+1 always
// reads as at least as bright as index i.
type Ramp []rune

// Stock ramps, ordered sparse to dense.
var (
	// RampASCII uses plain printable ASCII.
	RampASCII = Ramp(" .:-=+*#%@")

	// RampBlock uses shade blocks for a solid appearance.
	RampBlock = Ramp(" ░▒▓█")

	// RampExtended trades contrast steps for granularity.
	RampExtended = Ramp(` ` + "`" + `.'^",:;Il!i><~+_-?][}{1)(|\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@`)
)

// Glyph maps a normalized luminance in [0,1] to a glyph. Inputs outside the
// range are clamped, never rejected. The mapping is monotonic in lum.
func (r Ramp) Glyph(lum float64) rune {
	if len(r) == 0 {
		return ' '
	}

	return r[r.Index(lum)]
}

// Index returns the ramp index Glyph would select for lum.
func (r Ramp) Index(lum float64) int {
	if len(r) == 0 {
		return 0
	}

	if lum < 0 {
		lum = 0
	} else if lum > 1 {
		lum = 1
	}

	idx := int(lum * float64(len(r)-1))
	if idx > len(r)-1 {
		idx = len(r) - 1
	}

	return idx
}
