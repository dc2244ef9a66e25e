package layout

import "strings"

// Document is an opened PDF reduced to its positioned text.
type Document struct {
	Path  string
	Pages []*Page
}

// PageCount returns the number of pages in the document
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page returns the page at the zero-based index i, or nil when out of range.
func (d *Document) Page(i int) *Page {
	if i < 0 || i >= len(d.Pages) {
		return nil
	}
	return d.Pages[i]
}

// Text concatenates the text of every page, separated by newlines.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}
