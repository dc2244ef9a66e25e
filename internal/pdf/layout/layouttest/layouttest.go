// Package layouttest builds synthetic pages for tests.
//
// Every glyph is drawn with a fixed advance of half the font size, so a run
// of n characters at size s is exactly n*s/2 points wide.
package layouttest

import (
	"unicode/utf8"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
)

// Letter page size in points.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

// Run returns the glyphs of text drawn with its top-left corner at (x, top).
func Run(text string, x, top, size float64) []layout.Glyph {
	n := utf8.RuneCountInString(text)
	box := layout.Rect{X0: x, Y0: top, X1: x + float64(n)*size/2, Y1: top + size}
	return layout.SplitRun(text, box)
}

// Width returns the drawn width of text at size.
func Width(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size / 2
}

// Page assembles a letter-sized page from runs of glyphs.
func Page(number int, runs ...[]layout.Glyph) *layout.Page {
	var glyphs []layout.Glyph
	for _, r := range runs {
		glyphs = append(glyphs, r...)
	}
	return layout.NewPage(number, PageWidth, PageHeight, glyphs)
}

// Document wraps pages into a document.
func Document(path string, pages ...*layout.Page) *layout.Document {
	return &layout.Document{Path: path, Pages: pages}
}

// TextPage builds a page whose lines are drawn at size 10, one every 14
// points, starting at the top margin.
func TextPage(number int, lines ...string) *layout.Page {
	runs := make([][]layout.Glyph, 0, len(lines))
	for i, ln := range lines {
		runs = append(runs, Run(ln, 36, 36+float64(i)*14, 10))
	}
	return Page(number, runs...)
}
