package convert

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"
)

// Palette selects how cell colors are produced.
type Palette string

const (
	// PaletteColor paints each glyph with the averaged source color at full
	// 24-bit precision.
	PaletteColor Palette = "color"
	// PaletteGrayscale paints each glyph with its luminance as a gray level.
	PaletteGrayscale Palette = "grayscale"
	// PaletteASCII paints white ASCII glyphs with no color information.
	PaletteASCII Palette = "ascii"
)

// ErrUnknownPalette indicates an unrecognized palette name.
var ErrUnknownPalette = errors.New("unknown palette")

// ParsePalette parses a palette name, case-insensitively.
func ParsePalette(s string) (Palette, error) {
	p := Palette(strings.ToLower(s))
	if slices.Contains(AllPalettes(), p) {
		return p, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPalette, s)
}

// AllPalettes returns every valid [Palette].
func AllPalettes() []Palette {
	return []Palette{PaletteColor, PaletteGrayscale, PaletteASCII}
}

// AllPaletteStrings returns every valid palette name.
func AllPaletteStrings() []string {
	palettes := AllPalettes()

	strs := make([]string, len(palettes))
	for i, p := range palettes {
		strs[i] = string(p)
	}

	return strs
}

// DefaultRamp returns the stock glyph ramp for a palette.
func (p Palette) DefaultRamp() Ramp {
	if p == PaletteASCII {
		return RampASCII
	}

	return RampBlock
}

// Cell is one terminal cell of a converted frame. An invisible cell is
// painted as nothing at all, letting the terminal background show through.
type Cell struct {
	Glyph   rune
	R, G, B uint8
	Visible bool
}

// Frame is one video frame converted to glyph cells, row-major.
// len(Cells) == Width*Height always holds.
type Frame struct {
	Width  int
	Height int
	Cells  []Cell
}

// Config parametrizes a [Converter]. The zero value is usable: color
// palette, block ramp, default cell aspect, no alpha cutoff, neutral
// brightness and contrast.
type Config struct {
	Palette Palette
	Ramp    Ramp

	// CellAspect is the terminal cell width:height ratio used for grid
	// fitting. Zero means [DefaultCellAspect].
	CellAspect float64

	// AlphaThreshold marks cells invisible when the averaged source alpha
	// falls below it. Negative disables the cutoff.
	AlphaThreshold int

	// Brightness shifts channel values, in [-1, 1]. Zero is neutral.
	Brightness float64

	// Contrast scales channel distance from mid-gray, in [0, 2]. Zero is
	// treated as the neutral 1.
	Contrast float64
}

// Converter converts pixel frames to glyph [Frame] values.
type Converter struct {
	cfg Config
}

// New creates a [Converter], filling unset Config fields with defaults.
func New(cfg Config) *Converter {
	if cfg.Palette == "" {
		cfg.Palette = PaletteColor
	}

	if len(cfg.Ramp) == 0 {
		cfg.Ramp = cfg.Palette.DefaultRamp()
	}

	if cfg.CellAspect <= 0 {
		cfg.CellAspect = DefaultCellAspect
	}

	if cfg.Contrast == 0 {
		cfg.Contrast = 1
	}

	return &Converter{cfg: cfg}
}

// Convert downsamples src to the largest grid fitting cols x rows and maps
// every averaged cell to a glyph and color.
//
// When the target has no usable area the returned frame is empty
// (Width == Height == 0); the caller should skip painting it.
func (c *Converter) Convert(src image.Image, cols, rows int) *Frame {
	b := src.Bounds()

	gridW, gridH := Grid(b.Dx(), b.Dy(), cols, rows, c.cfg.CellAspect)
	if gridW == 0 || gridH == 0 {
		return &Frame{}
	}

	sampled := Sample(src, gridW, gridH)

	frame := &Frame{
		Width:  gridW,
		Height: gridH,
		Cells:  make([]Cell, 0, gridW*gridH),
	}

	for y := range gridH {
		for x := range gridW {
			frame.Cells = append(frame.Cells, c.mapCell(sampled.RGBAAt(x, y)))
		}
	}

	return frame
}

// Luminance returns the perceptual (ITU-R BT.709) luminance of an RGB
// triple, normalized to [0, 1].
func Luminance(r, g, b uint8) float64 {
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255.0
}

func (c *Converter) mapCell(px color.RGBA) Cell {
	if c.cfg.AlphaThreshold >= 0 && int(px.A) < c.cfg.AlphaThreshold {
		return Cell{Glyph: ' '}
	}

	r := c.adjust(px.R)
	g := c.adjust(px.G)
	b := c.adjust(px.B)

	lum := Luminance(r, g, b)

	cell := Cell{
		Glyph:   c.cfg.Ramp.Glyph(lum),
		Visible: true,
	}

	switch c.cfg.Palette {
	case PaletteGrayscale:
		gray := uint8(lum*255 + 0.5)
		cell.R, cell.G, cell.B = gray, gray, gray

	case PaletteASCII:
		cell.R, cell.G, cell.B = 255, 255, 255

	case PaletteColor:
		cell.R, cell.G, cell.B = r, g, b
	}

	return cell
}

// adjust applies the brightness and contrast settings to one channel value.
func (c *Converter) adjust(v uint8) uint8 {
	if c.cfg.Brightness == 0 && c.cfg.Contrast == 1 {
		return v
	}

	adj := float64(v) + c.cfg.Brightness*255
	adj = (adj-128)*c.cfg.Contrast + 128

	if adj < 0 {
		adj = 0
	} else if adj > 255 {
		adj = 255
	}

	return uint8(adj + 0.5)
}
