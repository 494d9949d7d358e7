// Package convert turns decoded pixel frames into grids of colored glyphs
// sized for a terminal.
//
// A [Converter] runs the full pipeline for one frame: fit a cell grid to the
// terminal via [Grid], area-average the source pixels into it via [Sample],
// and map each averaged cell to a glyph and 24-bit color with a [Ramp].
// Conversion is a pure function of its inputs; a Converter is safe to reuse
// across frames.
package convert
