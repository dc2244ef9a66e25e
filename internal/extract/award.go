package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
	"github.com/a3tai/contract-data-extractor/internal/profile"
)

// AwardTable is the line-item table of an award document.
type AwardTable struct {
	ContractNumber Value
	OrderNumber    Value
	Header         []string
	Rows           []LineItemRow
}

// Award builds the line-item table of doc.
//
// Every hit of the line-item anchor on every page starts one row; the other
// fields are read from anchors inside the row window. Rows that end up with a
// content id but no cost then get their price from the content-id lookup.
func (e *Extractor) Award(doc *layout.Document) *AwardTable {
	p := e.profile
	first := doc.Page(0)

	table := &AwardTable{
		ContractNumber: ReadField(first, p.ContractNumber),
		OrderNumber:    ReadField(first, p.OrderNumber),
		Header:         AwardHeader(p),
	}

	for _, page := range doc.Pages {
		for _, hit := range page.Search(p.LineItem.Anchor) {
			row := NewLineItemRow(page.Number)
			row.Set(slinColumn(p), Read(strings.TrimSpace(page.TextIn(p.LineItem.ValueRect(hit)))))

			window := p.RowWindow.Rect(hit)
			for _, f := range p.Fields {
				row.Set(f.Column, ReadFieldIn(page, f, window))
			}
			table.Rows = append(table.Rows, row)
		}
	}

	if p.CINPriceLookup.Enabled {
		e.inferCosts(doc, table.Rows)
	}
	return table
}

// inferCosts fills empty costs from the amounts printed to the right of the
// row's content id. Pages are tried in order; the first page where the id
// is found and the lookup box holds text wins.
func (e *Extractor) inferCosts(doc *layout.Document, rows []LineItemRow) {
	lookup := e.profile.CINPriceLookup

	for i := range rows {
		cin := rows[i].Get(profile.ColumnCIN)
		if cin.Empty() || !rows[i].Get(profile.ColumnCost).Empty() {
			continue
		}

		for _, page := range doc.Pages {
			hits := page.Search(cin.Text)
			if len(hits) == 0 {
				continue
			}
			price := strings.TrimSpace(page.TextIn(lookup.Rect(hits[0])))
			if price == "" {
				continue
			}

			cost := CleanCost(SanitizeCINValue(price))
			rows[i].Set(profile.ColumnCost, Inferred(cost))
			e.logger.Debug("cost inferred from content id",
				zap.String("cin", cin.Text),
				zap.Int("page", page.Number),
				zap.String("cost", cost))
			break
		}
	}
}

func slinColumn(p *profile.Profile) string {
	if p.LineItem.Column != "" {
		return p.LineItem.Column
	}
	return profile.ColumnSLIN
}
