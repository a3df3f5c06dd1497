// Package overlay fills a manifest template PDF with a record's values.
//
// Field values are composed into a Plan, a transient page of positioned text
// lines, and the plan is then flattened onto the first page of the template.
// Any further template pages are copied through unchanged.
package overlay

import (
	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/layout"
	"github.com/cargobloc/cargodoc/wrap"
)

// Line is one line of field text. (X, Y) is the start of its baseline, in
// points from the bottom-left corner of the page.
type Line struct {
	Field cargodoc.Field
	X, Y  float64
	Text  string
}

// Barcode is a Code 128 symbol drawn into Box.
type Barcode struct {
	Box   cargodoc.Box
	Value string
}

// Plan is the overlay of one record: everything drawn on top of the template.
type Plan struct {
	Width, Height float64
	Font          cargodoc.FontSpec
	Lines         []Line
	Barcode       *Barcode
	Stamp         *cargodoc.Box
}

// Compose lays out rec on a page of the given size. Each present field is
// wrapped to the width of its placement and its lines descend from the
// anchor by the layout's line pitch. Fields are independent of each other
// and appear in placement table order; absent fields produce no lines.
func Compose(rec cargodoc.ManifestRecord, m *layout.Manifest, width, height float64) Plan {
	p := Plan{Width: width, Height: height, Font: m.Font}
	for _, fp := range m.Fields {
		value, ok := rec.Value(fp.Field)
		if !ok {
			continue
		}
		y := fp.Y
		for line := range wrap.Seq(value, float64(fp.Width), wrap.Chars{}) {
			p.Lines = append(p.Lines, Line{Field: fp.Field, X: fp.X, Y: y, Text: line})
			y -= m.LinePitch
		}
	}
	if m.Barcode != nil {
		if bl, ok := rec.Value(cargodoc.FieldBLNumber); ok && code128(bl) {
			p.Barcode = &Barcode{Box: *m.Barcode, Value: bl}
		}
	}
	if m.Stamp != nil {
		box := *m.Stamp
		p.Stamp = &box
	}
	return p
}

// code128 reports whether s can be encoded as Code 128 without an extended
// character set.
func code128(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return s != ""
}

// Fields returns the fields that produced at least one line, in order.
func (p Plan) Fields() []cargodoc.Field {
	var out []cargodoc.Field
	for i, l := range p.Lines {
		if i == 0 || p.Lines[i-1].Field != l.Field {
			out = append(out, l.Field)
		}
	}
	return out
}
