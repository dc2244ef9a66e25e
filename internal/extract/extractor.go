// Package extract turns the positioned text of contract documents into
// tables.
//
// Awards are read positionally: each value is found by searching for its
// label and reading a box at a fixed offset from it, as laid down in a
// [profile.Profile]. Modifications are read from their narrative text with a
// regular expression.
package extract

import (
	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
	"github.com/a3tai/contract-data-extractor/internal/profile"
)

// Extractor applies one profile to documents. It holds no per-document
// state.
type Extractor struct {
	profile *profile.Profile
	logger  *zap.Logger
}

// New creates an extractor for p. A nil profile selects the default one.
func New(p *profile.Profile, logger *zap.Logger) *Extractor {
	if p == nil {
		p = profile.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{profile: p, logger: logger}
}

// Profile returns the profile in use
func (e *Extractor) Profile() *profile.Profile {
	return e.profile
}

// Classify decides the kind of doc using the profile's modification marker.
func (e *Extractor) Classify(doc *layout.Document) Kind {
	return Classify(doc, e.profile.ModificationMarker)
}

// Extract classifies doc and builds its table.
func (e *Extractor) Extract(doc *layout.Document) *Result {
	kind := e.Classify(doc)

	if kind == KindModification {
		mod := e.Modification(doc)
		result := &Result{
			Path:   doc.Path,
			Kind:   kind,
			Name:   ModificationTableName(mod.ContractNumber.Text, doc.Path),
			Header: append([]string(nil), ModificationColumns...),
			Rows:   make([][]Value, 0, len(mod.Rows)),
		}
		for _, row := range mod.Rows {
			result.Rows = append(result.Rows, row.Values())
		}
		return result
	}

	award := e.Award(doc)
	result := &Result{
		Path:   doc.Path,
		Kind:   kind,
		Name:   AwardTableName(award.ContractNumber.Text, award.OrderNumber.Text, doc.Path),
		Header: award.Header,
		Rows:   make([][]Value, 0, len(award.Rows)),
	}
	for _, row := range award.Rows {
		result.Rows = append(result.Rows, row.Values(award.Header))
	}
	return result
}
