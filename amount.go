package cargodoc

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// AmountFormatter prints amounts with locale digit grouping and exactly two
// decimals. The integer part is grouped by x/text; the cents come from the
// decimal value itself so no amount passes through a float.
type AmountFormatter struct {
	p   *message.Printer
	sep string
}

// NewAmountFormatter returns a formatter for the given locale.
func NewAmountFormatter(tag language.Tag) *AmountFormatter {
	p := message.NewPrinter(tag)
	sep := "."
	if s := p.Sprint(number.Decimal(1.5, number.Scale(1))); len(s) == 3 {
		sep = s[1:2]
	}
	return &AmountFormatter{p: p, sep: sep}
}

// Format renders d rounded half away from zero to two decimals, e.g.
// "12,345.60" for English.
func (f *AmountFormatter) Format(d decimal.Decimal) string {
	d = d.Round(2)
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	b.WriteString(f.p.Sprint(number.Decimal(whole.IntPart())))
	b.WriteString(f.sep)
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(decimal.NewFromInt(cents).String())
	return b.String()
}
