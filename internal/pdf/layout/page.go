package layout

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// LineTolerance is how far apart two baselines may be, in points, and
	// still belong to the same line.
	LineTolerance = 2.0

	// wordGapRatio is the horizontal gap, as a fraction of glyph height,
	// above which a space is inserted between two glyphs that carry none.
	wordGapRatio = 0.15
)

// line is a run of glyphs sharing a baseline, ordered left to right.
// runes and folded are parallel to index; index is -1 for inserted spaces.
type line struct {
	baseline float64
	runes    []rune
	folded   []rune
	index    []int
}

// Page is the positioned text of one PDF page.
type Page struct {
	Number int
	Width  float64
	Height float64

	glyphs []Glyph
	lines  []line
}

// NewPage builds a page from its glyphs. Number is 1-based.
func NewPage(number int, width, height float64, glyphs []Glyph) *Page {
	p := &Page{
		Number: number,
		Width:  width,
		Height: height,
		glyphs: glyphs,
	}
	p.lines = buildLines(glyphs, allIndexes(len(glyphs)))
	return p
}

// Glyphs returns the glyphs of the page in drawing order
func (p *Page) Glyphs() []Glyph {
	return p.glyphs
}

// Search returns the boxes of every occurrence of needle on the page, in
// reading order (top to bottom, then left to right).
//
// Matching is case-insensitive. Surrounding whitespace in needle is not
// matched literally; a trailing space instead requires the match to end at
// a word boundary, so "UNIT " matches "UNIT PRICE" but not "UNITS".
func (p *Page) Search(needle string) []Rect {
	return p.search(p.lines, needle)
}

// SearchIn is Search restricted to glyphs whose centers lie inside clip.
func (p *Page) SearchIn(needle string, clip Rect) []Rect {
	return p.search(buildLines(p.glyphs, p.indexesIn(clip)), needle)
}

// TextIn returns the text of the glyphs whose centers lie inside r, one line
// per output line.
func (p *Page) TextIn(r Rect) string {
	return joinLines(buildLines(p.glyphs, p.indexesIn(r)))
}

// Text returns the full text of the page, one line per output line.
func (p *Page) Text() string {
	return joinLines(p.lines)
}

func (p *Page) indexesIn(r Rect) []int {
	var idx []int
	for i, g := range p.glyphs {
		if r.ContainsCenter(g.Box) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (p *Page) search(lines []line, needle string) []Rect {
	pattern, boundary := foldNeedle(needle)
	if len(pattern) == 0 {
		return nil
	}

	var hits []Rect
	for _, ln := range lines {
		for i := 0; i+len(pattern) <= len(ln.folded); {
			if !hasPrefix(ln.folded[i:], pattern) {
				i++
				continue
			}
			end := i + len(pattern)
			if boundary && end < len(ln.folded) && !unicode.IsSpace(ln.folded[end]) {
				i++
				continue
			}
			if box, ok := p.boxOf(ln.index[i:end]); ok {
				hits = append(hits, box)
			}
			i = end
		}
	}
	return hits
}

func (p *Page) boxOf(index []int) (Rect, bool) {
	var box Rect
	found := false
	for _, gi := range index {
		if gi < 0 {
			continue
		}
		if !found {
			box = p.glyphs[gi].Box
			found = true
			continue
		}
		box = box.Union(p.glyphs[gi].Box)
	}
	return box, found
}

func foldNeedle(needle string) ([]rune, bool) {
	boundary := strings.TrimRightFunc(needle, unicode.IsSpace) != needle
	trimmed := strings.TrimSpace(needle)
	folded := make([]rune, 0, len(trimmed))
	for _, r := range trimmed {
		folded = append(folded, unicode.ToLower(r))
	}
	return folded, boundary
}

func hasPrefix(s, prefix []rune) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

func allIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// buildLines groups the selected glyphs by baseline and orders each group
// left to right, inserting a space wherever two glyphs are visibly apart.
func buildLines(glyphs []Glyph, idx []int) []line {
	if len(idx) == 0 {
		return nil
	}

	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.SliceStable(sorted, func(a, b int) bool {
		ga, gb := glyphs[sorted[a]].Box, glyphs[sorted[b]].Box
		if ga.Y1 != gb.Y1 {
			return ga.Y1 < gb.Y1
		}
		return ga.X0 < gb.X0
	})

	var groups [][]int
	var baseline float64
	for _, gi := range sorted {
		y := glyphs[gi].Box.Y1
		if len(groups) == 0 || y-baseline > LineTolerance {
			groups = append(groups, []int{gi})
			baseline = y
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], gi)
	}

	lines := make([]line, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(a, b int) bool {
			return glyphs[group[a]].Box.X0 < glyphs[group[b]].Box.X0
		})
		lines = append(lines, assemble(glyphs, group))
	}
	return lines
}

func assemble(glyphs []Glyph, group []int) line {
	ln := line{baseline: glyphs[group[0]].Box.Y1}
	prev := -1
	for _, gi := range group {
		g := glyphs[gi]
		if g.Text == "" {
			continue
		}
		if prev >= 0 && needsSpace(glyphs[prev], g) {
			ln.push(' ', -1)
		}
		for _, r := range g.Text {
			ln.push(r, gi)
		}
		prev = gi
	}
	return ln
}

func (ln *line) push(r rune, gi int) {
	ln.runes = append(ln.runes, r)
	ln.folded = append(ln.folded, unicode.ToLower(r))
	ln.index = append(ln.index, gi)
}

func needsSpace(prev, next Glyph) bool {
	if endsWithSpace(prev.Text) || startsWithSpace(next.Text) {
		return false
	}
	height := max(prev.Box.Height(), next.Box.Height())
	return next.Box.X0-prev.Box.X1 > wordGapRatio*height
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRightFunc(s, unicode.IsSpace) != s
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeftFunc(s, unicode.IsSpace) != s
}

func joinLines(lines []line) string {
	parts := make([]string, 0, len(lines))
	for _, ln := range lines {
		parts = append(parts, string(ln.runes))
	}
	return strings.Join(parts, "\n")
}
