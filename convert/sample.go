package convert

import (
	"image"

	"golang.org/x/image/draw"
)

// DefaultCellAspect is the width:height ratio of one terminal character
// cell. Terminal glyphs are roughly twice as tall as they are wide, so one
// row of cells covers as much vertical space as two columns cover
// horizontally. Omitting this correction stretches output vertically.
const DefaultCellAspect = 0.5

// Grid computes the largest cell grid that fits within cols x rows while
// preserving the source image's visual aspect ratio under cellAspect.
//
// A zero target dimension yields (0, 0): the terminal is too small (or not
// yet measured) and the caller should skip painting rather than error.
func Grid(srcW, srcH, cols, rows int, cellAspect float64) (int, int) {
	if srcW <= 0 || srcH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}

	if cellAspect <= 0 {
		cellAspect = DefaultCellAspect
	}

	srcAspect := float64(srcW) / float64(srcH)
	termAspect := float64(cols) / float64(rows) * cellAspect

	var gridW, gridH int

	if srcAspect > termAspect {
		// Source is wider than the terminal: fit to width.
		gridW = cols
		gridH = int(float64(cols) / srcAspect * cellAspect)

		if gridH > rows {
			gridH = rows
		}
	} else {
		// Source is taller: fit to height.
		gridH = rows
		gridW = int(float64(rows) * srcAspect / cellAspect)

		if gridW > cols {
			gridW = cols
		}
	}

	if gridW < 1 {
		gridW = 1
	}

	if gridH < 1 {
		gridH = 1
	}

	return gridW, gridH
}

// Sample downsamples src to a gridW x gridH image where each destination
// pixel is the area-weighted average of the source pixels covering it.
// The averaging kernel avoids the aliasing and flicker that nearest-neighbor
// sampling produces on high-motion frames.
//
// Returns nil for an empty grid.
func Sample(src image.Image, gridW, gridH int) *image.RGBA {
	if gridW <= 0 || gridH <= 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, gridW, gridH))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}
