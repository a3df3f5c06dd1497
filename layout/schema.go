// Package layout holds the data tables that bind records to page positions:
// the field placement table of a manifest template and the geometry of a
// ledger page.
//
// Tables are YAML documents. The defaults for the CargoBloc templates are
// embedded; a changed template only needs a new table, loaded with
// LoadManifest or LoadGeometry.
//
// Example YAML:
//
//	name: my-template
//	font: {family: Helvetica, size: 7}
//	line_pitch: 9
//	fields:
//	  - {field: exporter, x: 40, y: 640, width: 60}
//	  - {field: bl_number, x: 450, y: 658, width: 25}
package layout

import (
	"github.com/cargobloc/cargodoc"
)

// FieldPlacement positions one manifest field: the baseline of its first
// line starts at (X, Y), in points from the bottom-left corner of the page,
// and lines wrap after Width characters.
type FieldPlacement struct {
	Field cargodoc.Field `yaml:"field" validate:"required"`
	X     float64        `yaml:"x" validate:"gte=0"`
	Y     float64        `yaml:"y" validate:"gte=0"`
	Width int            `yaml:"width" validate:"gt=0"`
}

// Manifest is the placement table of a manifest template.
type Manifest struct {
	Name      string            `yaml:"name"`
	Font      cargodoc.FontSpec `yaml:"font"`
	LinePitch float64           `yaml:"line_pitch" validate:"gt=0"`
	Fields    []FieldPlacement  `yaml:"fields" validate:"required,min=1,dive"`

	// Optional marks drawn next to the fields.
	Barcode *cargodoc.Box `yaml:"barcode,omitempty"` // Code 128 of the BL number
	Stamp   *cargodoc.Box `yaml:"stamp,omitempty"`   // paid stamp image
}

// Placement returns the placement of field f.
func (m *Manifest) Placement(f cargodoc.Field) (FieldPlacement, bool) {
	for _, p := range m.Fields {
		if p.Field == f {
			return p, true
		}
	}
	return FieldPlacement{}, false
}
