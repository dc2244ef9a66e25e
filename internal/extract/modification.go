package extract

import (
	"regexp"
	"strings"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
)

var (
	subclinStart = regexp.MustCompile(`(?i)SUBCLIN\s+[A-Z0-9]`)

	// SUBCLIN <id> : <acrn> : ... (CIN <cin>) ... was increased|decreased by $<d> from $<o> to $<n>
	deltaNarrative = regexp.MustCompile(`(?is)SUBCLIN\s+([A-Z0-9]+)\s*:\s*([A-Z0-9]{2})\s*:.*?\(\s*CIN\s*:?\s*([A-Z0-9]+)\s*\)` +
		`.*?was\s+(increased|decreased)\s+by\s+(\$?[\d,]+(?:\.\d+)?)\s+from\s+(\$?[\d,]+(?:\.\d+)?)\s+to\s+(\$?[\d,]+(?:\.\d+)?)`)
)

// ModificationTable is the amount-delta table of a modification document.
type ModificationTable struct {
	ContractNumber Value
	Rows           []ModificationRow
}

// Modification reads the contract number from the first page and the
// amount deltas from the narrative text of the whole document.
func (e *Extractor) Modification(doc *layout.Document) *ModificationTable {
	return &ModificationTable{
		ContractNumber: ReadField(doc.Page(0), e.profile.ModContractNumber),
		Rows:           ParseModifications(doc.Text()),
	}
}

// ParseModifications returns one row per amount delta stated in text. The
// text is cut at every SUBCLIN heading first so that a delta is never
// attributed to the preceding item.
func ParseModifications(text string) []ModificationRow {
	var rows []ModificationRow
	for _, segment := range subclinSegments(text) {
		for _, m := range deltaNarrative.FindAllStringSubmatch(segment, -1) {
			rows = append(rows, ModificationRow{
				SUBCLIN:    m[1],
				ACRN:       m[2],
				CIN:        m[3],
				Difference: signedCurrency(m[5], strings.EqualFold(m[4], "decreased")),
				Original:   FormatCurrency(m[6]),
				New:        FormatCurrency(m[7]),
			})
		}
	}
	return rows
}

func subclinSegments(text string) []string {
	starts := subclinStart.FindAllStringIndex(text, -1)
	segments := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		segments = append(segments, text[loc[0]:end])
	}
	return segments
}

func signedCurrency(s string, negative bool) string {
	d, err := parseAmount(s)
	if err != nil {
		return s
	}
	if negative {
		d = d.Neg()
	}
	return formatDecimal(d)
}
