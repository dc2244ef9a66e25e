package extract

import (
	"strings"

	"github.com/a3tai/contract-data-extractor/internal/profile"
)

// Kind is the document class decided by the classifier.
type Kind string

const (
	KindAward        Kind = "award"
	KindModification Kind = "modification"
)

// Status records how a cell got its text.
type Status string

const (
	// StatusMissing means the anchor was not found.
	StatusMissing Status = "missing"
	// StatusBlank means the anchor was found but its value box was empty.
	StatusBlank Status = "blank"
	// StatusRead means the text was read from the value box.
	StatusRead Status = "read"
	// StatusInferred means the text came from the content-id price lookup.
	StatusInferred Status = "inferred"
)

// Value is one extracted cell.
type Value struct {
	Text   string `json:"text"`
	Status Status `json:"status"`
}

// Missing returns an empty cell whose anchor was not found.
func Missing() Value {
	return Value{Status: StatusMissing}
}

// Read returns a cell read from the page. Empty text is recorded as blank.
func Read(text string) Value {
	if text == "" {
		return Value{Status: StatusBlank}
	}
	return Value{Text: text, Status: StatusRead}
}

// Inferred returns a cell filled by a heuristic.
func Inferred(text string) Value {
	return Value{Text: text, Status: StatusInferred}
}

// Empty reports whether the cell carries no text.
func (v Value) Empty() bool {
	return v.Text == ""
}

// ActionAward is the fixed Action Type of every award row.
const ActionAward = "Award"

// AwardColumns is the column order of an award table.
var AwardColumns = []string{
	profile.ColumnSLIN,
	profile.ColumnACRN,
	profile.ColumnUnit,
	profile.ColumnCost,
	profile.ColumnQty,
	profile.ColumnObligation,
	profile.ColumnActionType,
	profile.ColumnCIN,
	profile.ColumnFundingDoc,
	profile.ColumnPurchaseReqNo,
}

// AwardHeader returns the award columns followed by any extra columns the
// profile defines.
func AwardHeader(p *profile.Profile) []string {
	header := append([]string(nil), AwardColumns...)
	known := make(map[string]bool, len(header))
	for _, c := range header {
		known[c] = true
	}
	for _, f := range p.Fields {
		if !known[f.Column] {
			header = append(header, f.Column)
			known[f.Column] = true
		}
	}
	return header
}

// LineItemRow is one award table row, started by one line-item anchor hit.
type LineItemRow struct {
	Page  int              `json:"page"`
	Cells map[string]Value `json:"cells"`
}

// NewLineItemRow returns a row for page with every cell missing except the
// Action Type.
func NewLineItemRow(page int) LineItemRow {
	return LineItemRow{
		Page: page,
		Cells: map[string]Value{
			profile.ColumnActionType: Read(ActionAward),
		},
	}
}

// Get returns the cell for column; an unset cell is missing.
func (r LineItemRow) Get(column string) Value {
	if v, ok := r.Cells[column]; ok {
		return v
	}
	return Missing()
}

// Set stores the cell for column.
func (r *LineItemRow) Set(column string, v Value) {
	if r.Cells == nil {
		r.Cells = make(map[string]Value)
	}
	r.Cells[column] = v
}

// Values returns the cells in header order.
func (r LineItemRow) Values(header []string) []Value {
	out := make([]Value, len(header))
	for i, c := range header {
		out[i] = r.Get(c)
	}
	return out
}

// Modification table columns, in output order.
const (
	ColumnSUBCLIN    = "SUBCLIN"
	ColumnOriginal   = "Original Amount"
	ColumnNew        = "New Amount"
	ColumnDifference = "Difference"
)

// ModificationColumns is the column order of a modification table.
var ModificationColumns = []string{
	ColumnSUBCLIN,
	profile.ColumnACRN,
	profile.ColumnCIN,
	ColumnOriginal,
	ColumnNew,
	ColumnDifference,
}

// ModificationRow is one amount delta stated in a modification narrative.
type ModificationRow struct {
	SUBCLIN    string `json:"subclin"`
	ACRN       string `json:"acrn"`
	CIN        string `json:"cin"`
	Original   string `json:"original"`
	New        string `json:"new"`
	Difference string `json:"difference"`
}

// Values returns the row in ModificationColumns order.
func (r ModificationRow) Values() []Value {
	return []Value{Read(r.SUBCLIN), Read(r.ACRN), Read(r.CIN), Read(r.Original), Read(r.New), Read(r.Difference)}
}

// Result is the table produced for one document.
type Result struct {
	Path   string    `json:"path"`
	Kind   Kind      `json:"kind"`
	Name   string    `json:"name"`
	Header []string  `json:"header"`
	Rows   [][]Value `json:"rows"`
}

// Records returns the cell texts row by row.
func (r *Result) Records() [][]string {
	records := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.Text
		}
		records[i] = rec
	}
	return records
}

// Provenance describes every cell of row that was not read directly, e.g.
// "Cost=inferred; Qty=missing". It is empty when every cell was read.
func (r *Result) Provenance(row int) string {
	var parts []string
	for j, v := range r.Rows[row] {
		if v.Status == StatusRead || j >= len(r.Header) {
			continue
		}
		parts = append(parts, r.Header[j]+"="+string(v.Status))
	}
	return strings.Join(parts, "; ")
}
