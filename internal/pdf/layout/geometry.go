// Package layout models the drawn text of a PDF page as positioned glyphs.
//
// Coordinates are in points with the origin at the top-left corner of the
// page and y growing downward, so a rectangle's Y0 is its top edge.
//
// A [Page] answers two questions:
//
//   - where does a string appear ([Page.Search], [Page.SearchIn])
//   - what text lies inside a rectangle ([Page.TextIn])
//
// Glyphs are assembled into lines by baseline before either question is
// answered, so a search never spans two lines.
package layout

import (
	"fmt"
	"unicode/utf8"
)

// Rect is an axis-aligned rectangle in top-left page coordinates.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() (float64, float64) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

// Contains reports whether the point lies inside the rectangle, edges included
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// ContainsCenter reports whether the center of o lies inside r
func (r Rect) ContainsCenter(o Rect) bool {
	return r.Contains(o.Center())
}

// Union returns the smallest rectangle covering both r and o
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// IsEmpty reports whether the rectangle has no area
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f, %.1f)", r.X0, r.Y0, r.X1, r.Y1)
}

// Glyph is one drawn character (occasionally a ligature) and its box.
type Glyph struct {
	Text string `json:"text"`
	Box  Rect   `json:"box"`
}

// SplitRun splits a run of text drawn inside box into one glyph per rune,
// dividing the width evenly. PDF libraries frequently report whole words or
// lines as a single run, which is too coarse for substring hit boxes.
func SplitRun(text string, box Rect) []Glyph {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Glyph{{Text: text, Box: box}}
	}

	step := box.Width() / float64(n)
	glyphs := make([]Glyph, 0, n)
	i := 0
	for _, r := range text {
		x0 := box.X0 + float64(i)*step
		glyphs = append(glyphs, Glyph{
			Text: string(r),
			Box:  Rect{X0: x0, Y0: box.Y0, X1: x0 + step, Y1: box.Y1},
		})
		i++
	}
	return glyphs
}
