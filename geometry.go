package cargodoc

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the validator shared by the layout types of this module.
func Validator() *validator.Validate {
	return validate
}

// Columns holds the x-offsets of the ledger columns, relative to the left
// margin.
type Columns struct {
	Label  float64 `yaml:"label" validate:"gte=0"`
	Total  float64 `yaml:"total" validate:"gtfield=Label"`
	Paid   float64 `yaml:"paid" validate:"gtfield=Total"`
	Unpaid float64 `yaml:"unpaid" validate:"gtfield=Paid"`
}

// PageGeometry describes the printable area of a ledger page. Vertical
// positions are measured in points from the bottom edge of the page.
type PageGeometry struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`

	TopMargin    float64 `yaml:"top_margin" validate:"gte=0"`
	BottomMargin float64 `yaml:"bottom_margin" validate:"gte=0"`
	LeftMargin   float64 `yaml:"left_margin" validate:"gte=0"`
	RightMargin  float64 `yaml:"right_margin" validate:"gte=0"`

	RowHeight          float64 `yaml:"row_height" validate:"gt=0"`
	HeaderRowHeight    float64 `yaml:"header_row_height" validate:"gte=0"` // 0 means RowHeight
	SubjectBlockHeight float64 `yaml:"subject_block_height" validate:"gte=0"`

	Columns     Columns `yaml:"columns"`
	AmountWidth float64 `yaml:"amount_width" validate:"gt=0"` // right edge of an amount, from its column start

	TitleOffset float64 `yaml:"title_offset" validate:"gte=0"` // title baseline above ContentTop
	FooterY     float64 `yaml:"footer_y" validate:"gte=0"`
	CaptionGap  float64 `yaml:"caption_gap" validate:"gte=0"`
}

// ContentTop is the highest y a table row may reach.
func (g PageGeometry) ContentTop() float64 {
	return g.Height - g.TopMargin
}

// Usable is the height available to the table on a continuation page.
func (g PageGeometry) Usable() float64 {
	return g.ContentTop() - g.BottomMargin
}

// TableLeft is the x of the table's left edge.
func (g PageGeometry) TableLeft() float64 {
	return g.LeftMargin
}

// TableRight is the x of the table's right edge.
func (g PageGeometry) TableRight() float64 {
	return g.Width - g.RightMargin
}

// HeaderHeight returns the effective height of the column header row.
func (g PageGeometry) HeaderHeight() float64 {
	if g.HeaderRowHeight > 0 {
		return g.HeaderRowHeight
	}
	return g.RowHeight
}

// Validate checks that g describes a page on which at least the column
// header and one row fit.
func (g PageGeometry) Validate() error {
	if err := validate.Struct(g); err != nil {
		return NewError("Validate", "", ErrInvalidLayout, err)
	}
	if g.TableRight() <= g.TableLeft() {
		return NewError("Validate", "", ErrInvalidLayout,
			fmt.Errorf("left margin %.2f and right margin %.2f leave no width", g.LeftMargin, g.RightMargin))
	}
	if need := g.HeaderHeight() + g.RowHeight; g.Usable() < need {
		return NewError("Validate", "", ErrInvalidLayout,
			fmt.Errorf("usable height %.2f is below header plus one row (%.2f)", g.Usable(), need))
	}
	if g.LeftMargin+g.Columns.Unpaid+g.AmountWidth > g.TableRight() {
		return NewError("Validate", "", ErrInvalidLayout,
			fmt.Errorf("unpaid column ends past the right margin"))
	}
	return nil
}
