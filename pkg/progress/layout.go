package progress

import (
	"math"

	"github.com/mattn/go-runewidth"
)

// layout.go sizes the bar body and splits it into filled and empty cells.

const (
	// percentWidth reserves room for " 100.0%".
	percentWidth = 7
	// trailingPad keeps the cursor off the last column so the line never wraps.
	trailingPad = 3
)

// BarWidth returns how many cells are left for the bar body once the
// description, delimiters, percentage field and padding are accounted for.
// It never goes below zero.
//
// Text is measured in terminal display cells (go-runewidth), not bytes:
// ASCII counts one cell per byte, while a wide rune such as 日 counts two
// cells regardless of its UTF-8 length.
func BarWidth(columns int, description string, style Style) int {
	n := columns
	n -= runewidth.StringWidth(description) + 1
	n -= runewidth.StringWidth(style.Begin)
	n -= runewidth.StringWidth(style.End)
	n -= percentWidth
	n -= trailingPad
	if n < 0 {
		return 0
	}
	return n
}

// Ratio returns progress/total clamped to [0, 1]. A zero total means the
// total is unknown and always yields 0.
func Ratio(progress, total uint64) float64 {
	switch {
	case total == 0 || progress == 0:
		return 0
	case progress >= total:
		return 1
	default:
		return float64(progress) / float64(total)
	}
}

// Segments splits cells into filled and empty counts for ratio.
func Segments(cells int, ratio float64) (full, empty int) {
	if cells <= 0 {
		return 0, 0
	}
	full = int(math.Floor(float64(cells) * ratio))
	if full < 0 {
		full = 0
	}
	if full > cells {
		full = cells
	}
	return full, cells - full
}
