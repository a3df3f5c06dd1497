// Package table renders ledger rows as a paginated table with running
// totals.
//
// Pages are begun through a Pager, usually a *compositor.Compositor, which
// owns the page chrome. Before a row is drawn the table checks that the whole
// row fits above the bottom margin; if it does not, a new page is begun and
// the column header repeated, so no row is ever split across pages.
package table

import (
	"github.com/cargobloc/cargodoc"
)

// BorderStyle defines the appearance of divider lines.
type BorderStyle struct {
	Width float64
	Color cargodoc.RGBColor
}

// CellStyle defines the visual appearance of a row's cells.
type CellStyle struct {
	FillColor *cargodoc.RGBColor
	TextColor *cargodoc.RGBColor
	Font      *cargodoc.FontSpec
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	CellFont      cargodoc.FontSpec
	HeaderStyle   *CellStyle
	AlternateRows *AlternateStyle
	TotalsStyle   *CellStyle
	CaptionStyle  *CellStyle
	SubjectStyle  *CellStyle
	RowDivider    *BorderStyle
	ColumnDivider *BorderStyle
	HeaderRule    *BorderStyle
	CellPadding   float64 // left padding of text and right padding of amounts
}

func rgb(r, g, b int) *cargodoc.RGBColor {
	return &cargodoc.RGBColor{R: r, G: g, B: b}
}

// DefaultStyle returns the look of the client summary report: a pale blue
// header and totals row, light grey striping on odd rows and thin grey
// dividers.
func DefaultStyle() TableStyle {
	return TableStyle{
		CellFont: cargodoc.FontSpec{Family: "Helvetica", Size: 10},
		HeaderStyle: &CellStyle{
			FillColor: rgb(230, 245, 255),
			Font:      &cargodoc.FontSpec{Family: "Helvetica", Style: "B", Size: 10},
		},
		AlternateRows: &AlternateStyle{
			Odd: CellStyle{FillColor: rgb(250, 250, 250)},
		},
		TotalsStyle: &CellStyle{
			FillColor: rgb(217, 237, 255),
			Font:      &cargodoc.FontSpec{Family: "Helvetica", Style: "B", Size: 11},
		},
		CaptionStyle: &CellStyle{
			TextColor: rgb(191, 191, 191),
			Font:      &cargodoc.FontSpec{Family: "Helvetica", Style: "I", Size: 7},
		},
		SubjectStyle: &CellStyle{
			Font: &cargodoc.FontSpec{Family: "Helvetica", Style: "B", Size: 11},
		},
		RowDivider:    &BorderStyle{Width: 0.5, Color: cargodoc.Gray(230)},
		ColumnDivider: &BorderStyle{Width: 0.5, Color: cargodoc.Gray(217)},
		HeaderRule:    &BorderStyle{Width: 0.5, Color: cargodoc.Gray(179)},
		CellPadding:   5,
	}
}

// resolve returns the effective style for a row: the cell font, then the
// kind's style, then striping for body rows.
func (s TableStyle) resolve(kind rowKind, bodyIdx int) CellStyle {
	font := s.CellFont
	result := CellStyle{Font: &font}
	switch kind {
	case headerRow:
		mergeStyle(&result, s.HeaderStyle)
	case totalsRow:
		mergeStyle(&result, s.TotalsStyle)
	case bodyRow:
		if s.AlternateRows != nil && bodyIdx >= 0 {
			if bodyIdx%2 == 0 {
				mergeStyle(&result, &s.AlternateRows.Even)
			} else {
				mergeStyle(&result, &s.AlternateRows.Odd)
			}
		}
	}
	return result
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src == nil {
		return
	}
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
}
