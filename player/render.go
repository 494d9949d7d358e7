package player

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/asciiplay/convert"
)

const (
	ansiReset   = "\033[0m"
	ansiReverse = "\033[7m"
)

// renderFrame writes one converted frame as ANSI truecolor text, centered
// within cols x rows, followed by a status line on the bottom row.
//
// Invisible cells emit no color at all so the terminal's own background
// shows through. In transparent mode background escapes are suppressed for
// every cell.
func renderFrame(w *strings.Builder, frame *convert.Frame, cols, rows int, transparent bool, status string) {
	w.Reset()

	contentRows := rows - 1 // Bottom row is reserved for the status line.
	if contentRows < 0 {
		contentRows = 0
	}

	offsetX := 0
	offsetY := 0

	if frame != nil {
		offsetX = max((cols-frame.Width)/2, 0)
		offsetY = max((contentRows-frame.Height)/2, 0)
	}

	for range offsetY {
		w.WriteByte('\n')
	}

	if frame != nil {
		for y := range frame.Height {
			if offsetY+y >= contentRows {
				break
			}

			if offsetX > 0 {
				w.WriteString(strings.Repeat(" ", offsetX))
			}

			for x := range frame.Width {
				if offsetX+x >= cols {
					break
				}

				writeCell(w, frame.Cells[y*frame.Width+x], transparent)
			}

			w.WriteString(ansiReset)
			w.WriteByte('\n')
		}
	}

	// Pad down so the status line lands on the bottom row.
	drawn := offsetY
	if frame != nil {
		drawn += min(frame.Height, contentRows-offsetY)
	}

	for range contentRows - drawn {
		w.WriteByte('\n')
	}

	if status != "" {
		writeStatus(w, status, cols)
	}
}

func writeCell(w *strings.Builder, cell convert.Cell, transparent bool) {
	if !cell.Visible {
		w.WriteString(ansiReset)
		w.WriteByte(' ')

		return
	}

	fmt.Fprintf(w, "\033[38;2;%d;%d;%dm", cell.R, cell.G, cell.B)

	if !transparent {
		// A dimmed background of the same hue fills the cell, matching the
		// glyph density scale.
		fmt.Fprintf(w, "\033[48;2;%d;%d;%dm", cell.R/4, cell.G/4, cell.B/4)
	}

	w.WriteRune(cell.Glyph)
}

// writeStatus writes the status line in reverse video, truncated to the
// terminal width.
func writeStatus(w *strings.Builder, status string, cols int) {
	runes := []rune(status)
	if cols > 0 && len(runes) > cols {
		runes = runes[:cols]
	}

	w.WriteString(ansiReverse)
	w.WriteString(string(runes))
	w.WriteString(ansiReset)
}

// renderMessage centers a multi-line message within cols x rows, used for
// the help overlay.
func renderMessage(w *strings.Builder, message string, cols, rows int) {
	w.Reset()

	lines := strings.Split(message, "\n")

	offsetY := max((rows-len(lines))/2, 0)
	for range offsetY {
		w.WriteByte('\n')
	}

	for i, line := range lines {
		if offsetY+i >= rows {
			break
		}

		runes := []rune(line)
		if cols > 0 && len(runes) > cols {
			runes = runes[:cols]
		}

		if pad := (cols - len(runes)) / 2; pad > 0 {
			w.WriteString(strings.Repeat(" ", pad))
		}

		w.WriteString(string(runes))
		w.WriteByte('\n')
	}
}
