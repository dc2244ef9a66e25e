// Package profile describes where each value sits relative to its label on a
// given document template.
//
// A profile is a table of field specs. Each spec names an anchor string, a
// direction and four offset magnitudes; the value box is derived from the
// anchor's hit box by that rule. Offsets are tuned for a single template and
// have no meaning outside it.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
)

// DefaultName is the name of the built-in DD Form 1155 profile.
const DefaultName = "dd1155-v1"

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Direction says where a value sits relative to its anchor.
type Direction string

const (
	Below   Direction = "below"
	RightOf Direction = "right-of"
)

// Offsets are non-negative magnitudes applied to the anchor box.
type Offsets struct {
	Left  float64 `yaml:"left,omitempty" json:"left,omitempty"`
	Right float64 `yaml:"right,omitempty" json:"right,omitempty"`
	Up    float64 `yaml:"up,omitempty" json:"up,omitempty"`
	Down  float64 `yaml:"down,omitempty" json:"down,omitempty"`
}

// FieldSpec locates one value by its label.
type FieldSpec struct {
	Column    string    `yaml:"column,omitempty" json:"column,omitempty"`
	Anchor    string    `yaml:"anchor" json:"anchor"`
	Direction Direction `yaml:"direction" json:"direction"`
	Offsets   `yaml:",inline"`
}

// ValueRect derives the value box from the anchor's hit box.
//
//	below:    (a.X0-left, a.Y1-up, a.X1+right, a.Y1+down)
//	right-of: (a.X1-left, a.Y0-up, a.X1+right, a.Y1+down)
func (f FieldSpec) ValueRect(a layout.Rect) layout.Rect {
	switch f.Direction {
	case RightOf:
		return layout.Rect{X0: a.X1 - f.Left, Y0: a.Y0 - f.Up, X1: a.X1 + f.Right, Y1: a.Y1 + f.Down}
	default:
		return layout.Rect{X0: a.X0 - f.Left, Y0: a.Y1 - f.Up, X1: a.X1 + f.Right, Y1: a.Y1 + f.Down}
	}
}

// Window is the region, relative to a line-item anchor, that holds the rest
// of that item's fields. It extends from the anchor's right edge and top.
type Window struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Rect returns the window for an anchor hit box.
func (w Window) Rect(a layout.Rect) layout.Rect {
	return layout.Rect{X0: a.X1, Y0: a.Y0, X1: a.X1 + w.Width, Y1: a.Y0 + w.Height}
}

// PriceLookup configures the fallback that recovers a missing unit price by
// finding the item's content id elsewhere in the document and reading the
// amounts printed to its right.
type PriceLookup struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Width   float64 `yaml:"width" json:"width"`
}

// Rect returns the lookup box to the right of a content-id hit.
func (p PriceLookup) Rect(h layout.Rect) layout.Rect {
	return layout.Rect{X0: h.X1, Y0: h.Y0, X1: h.X1 + p.Width, Y1: h.Y1}
}

// Profile is a named, versioned set of field specs for one template.
type Profile struct {
	Name string `yaml:"name" json:"name"`

	// ModificationMarker on page one marks a document as a modification.
	ModificationMarker string `yaml:"modification_marker" json:"modification_marker"`

	ContractNumber    FieldSpec `yaml:"contract_number" json:"contract_number"`
	OrderNumber       FieldSpec `yaml:"order_number" json:"order_number"`
	ModContractNumber FieldSpec `yaml:"mod_contract_number" json:"mod_contract_number"`

	// LineItem anchors one row per hit; its spec locates the SLIN value.
	LineItem  FieldSpec   `yaml:"line_item" json:"line_item"`
	RowWindow Window      `yaml:"row_window" json:"row_window"`
	Fields    []FieldSpec `yaml:"fields" json:"fields"`

	CINPriceLookup PriceLookup `yaml:"cin_price_lookup" json:"cin_price_lookup"`
}

// Field returns the field definition for column, if the profile has one.
func (p *Profile) Field(column string) (FieldSpec, bool) {
	for _, f := range p.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Load reads a YAML profile from path. Keys absent from the file keep the
// values of the default profile, so a file may override a single field. A
// fields list replaces the default list as a whole.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile on top of the default profile.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that every spec is usable.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.ModificationMarker) == "" {
		return fmt.Errorf("%w: modification_marker is required", ErrInvalidProfile)
	}

	named := map[string]FieldSpec{
		"contract_number":     p.ContractNumber,
		"order_number":        p.OrderNumber,
		"mod_contract_number": p.ModContractNumber,
		"line_item":           p.LineItem,
	}
	for name, spec := range named {
		if err := spec.validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, name, err)
		}
	}

	if p.RowWindow.Width <= 0 || p.RowWindow.Height <= 0 {
		return fmt.Errorf("%w: row_window must have a positive size", ErrInvalidProfile)
	}

	seen := make(map[string]bool, len(p.Fields))
	for i, f := range p.Fields {
		if f.Column == "" {
			return fmt.Errorf("%w: fields[%d]: column is required", ErrInvalidProfile, i)
		}
		if seen[f.Column] {
			return fmt.Errorf("%w: fields[%d]: duplicate column %q", ErrInvalidProfile, i, f.Column)
		}
		seen[f.Column] = true
		if err := f.validate(); err != nil {
			return fmt.Errorf("%w: fields[%d] (%s): %v", ErrInvalidProfile, i, f.Column, err)
		}
	}

	if p.CINPriceLookup.Enabled && p.CINPriceLookup.Width <= 0 {
		return fmt.Errorf("%w: cin_price_lookup.width must be positive", ErrInvalidProfile)
	}
	return nil
}

func (f FieldSpec) validate() error {
	if strings.TrimSpace(f.Anchor) == "" {
		return errors.New("anchor is required")
	}
	switch f.Direction {
	case Below, RightOf:
	default:
		return fmt.Errorf("unknown direction %q", f.Direction)
	}
	if f.Left < 0 || f.Right < 0 || f.Up < 0 || f.Down < 0 {
		return errors.New("offsets must not be negative")
	}
	return nil
}
