package extract

import (
	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
)

// Classify decides whether doc is a modification by looking for marker on
// its first page. Anything else, including a document without pages, is an
// award.
func Classify(doc *layout.Document, marker string) Kind {
	first := doc.Page(0)
	if first == nil || marker == "" {
		return KindAward
	}
	if len(first.Search(marker)) > 0 {
		return KindModification
	}
	return KindAward
}
