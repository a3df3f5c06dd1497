package cargodoc

import (
	"github.com/go-pdf/fpdf"
)

// Canvas draws on the current page of a document using coordinates measured
// in points from the bottom-left corner, the convention of printed form
// templates. Text is translated from UTF-8 to the code page of the core
// fonts before it is measured or drawn.
type Canvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewCanvas wraps pdf, which must be measured in points.
func NewCanvas(pdf *fpdf.Fpdf) *Canvas {
	return &Canvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// PDF returns the underlying document.
func (c *Canvas) PDF() *fpdf.Fpdf {
	return c.pdf
}

// PageSize returns the size of the current page.
func (c *Canvas) PageSize() (w, h float64) {
	return c.pdf.GetPageSize()
}

func (c *Canvas) flip(y float64) float64 {
	_, h := c.pdf.GetPageSize()
	return h - y
}

// SetFont selects the font for subsequent text.
func (c *Canvas) SetFont(f FontSpec) {
	c.pdf.SetFont(f.Family, f.Style, f.Size)
}

// SetTextColor sets the color of subsequent text.
func (c *Canvas) SetTextColor(col RGBColor) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

// SetFillColor sets the color of subsequent filled shapes.
func (c *Canvas) SetFillColor(col RGBColor) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
}

// SetStrokeColor sets the color of subsequent lines.
func (c *Canvas) SetStrokeColor(col RGBColor) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

// SetLineWidth sets the width of subsequent lines.
func (c *Canvas) SetLineWidth(w float64) {
	c.pdf.SetLineWidth(w)
}

// StringWidth measures s in the current font.
func (c *Canvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

// Text draws s with its baseline starting at (x, y).
func (c *Canvas) Text(x, y float64, s string) {
	c.pdf.Text(x, c.flip(y), c.tr(s))
}

// TextRight draws s so that it ends at x.
func (c *Canvas) TextRight(x, y float64, s string) {
	c.Text(x-c.StringWidth(s), y, s)
}

// TextCentered draws s centered on x.
func (c *Canvas) TextCentered(x, y float64, s string) {
	c.Text(x-c.StringWidth(s)/2, y, s)
}

// FillRect fills the rectangle whose bottom-left corner is (x, y).
func (c *Canvas) FillRect(x, y, w, h float64) {
	c.pdf.Rect(x, c.flip(y+h), w, h, "F")
}

// Line strokes a line from (x1, y1) to (x2, y2).
func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.flip(y1), x2, c.flip(y2))
}

// Image draws a registered image into the box whose bottom-left corner is
// (x, y).
func (c *Canvas) Image(name string, x, y, w, h float64) {
	c.pdf.ImageOptions(name, x, c.flip(y+h), w, h, false, fpdf.ImageOptions{}, 0, "")
}

// Reset restores black text, fill and stroke colors.
func (c *Canvas) Reset() {
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetFillColor(0, 0, 0)
	c.pdf.SetDrawColor(0, 0, 0)
}

// Err returns the first error recorded by the underlying document.
func (c *Canvas) Err() error {
	return c.pdf.Error()
}
