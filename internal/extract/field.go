package extract

import (
	"strings"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
	"github.com/a3tai/contract-data-extractor/internal/profile"
)

// ReadField finds the first hit of spec's anchor on page and returns the
// trimmed text of the derived value box. An absent anchor yields a missing
// cell, never an error.
func ReadField(page *layout.Page, spec profile.FieldSpec) Value {
	if page == nil {
		return Missing()
	}
	return readFirst(page, page.Search(spec.Anchor), spec)
}

// ReadFieldIn is ReadField with the anchor search limited to clip. The value
// box itself is read from the whole page.
func ReadFieldIn(page *layout.Page, spec profile.FieldSpec, clip layout.Rect) Value {
	if page == nil {
		return Missing()
	}
	return readFirst(page, page.SearchIn(spec.Anchor, clip), spec)
}

func readFirst(page *layout.Page, hits []layout.Rect, spec profile.FieldSpec) Value {
	if len(hits) == 0 {
		return Missing()
	}
	return Read(strings.TrimSpace(page.TextIn(spec.ValueRect(hits[0]))))
}
