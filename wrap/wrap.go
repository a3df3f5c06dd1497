// Package wrap breaks text into lines that fit a width limit.
//
// Width is measured by a Measurer, so the same code wraps by character count
// (as printed forms are usually specified) or by font metrics.
package wrap

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// Measurer reports the width of a string in some unit.
type Measurer interface {
	Width(s string) float64
}

// MeasureFunc adapts a function, such as a font's string width, to Measurer.
type MeasureFunc func(s string) float64

// Width calls f(s).
func (f MeasureFunc) Width(s string) float64 {
	return f(s)
}

// Chars measures strings by their number of characters.
type Chars struct{}

// Width returns the rune count of s.
func (Chars) Width(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

// Seq returns the lines of text wrapped to limit. Words are runs of
// non-space characters; any run of whitespace, newlines included, separates
// them. Every line measures at most limit, except a word that is wider than
// limit on its own: it is yielded alone and unsplit. Words keep their order
// and are never truncated. Empty or blank text yields no lines. A nil m
// measures characters.
func Seq(text string, limit float64, m Measurer) iter.Seq[string] {
	if m == nil {
		m = Chars{}
	}
	return func(yield func(string) bool) {
		var line string
		for _, word := range strings.Fields(text) {
			if line == "" {
				line = word
				continue
			}
			candidate := line + " " + word
			if m.Width(candidate) <= limit {
				line = candidate
				continue
			}
			if !yield(line) {
				return
			}
			line = word
		}
		if line != "" {
			yield(line)
		}
	}
}

// Lines collects Seq into a slice.
func Lines(text string, limit float64, m Measurer) []string {
	return slices.Collect(Seq(text, limit, m))
}
