package cargodoc

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// Gray returns the RGB color with all channels set to v.
func Gray(v int) RGBColor {
	return RGBColor{v, v, v}
}

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Family string  `yaml:"family"`
	Style  string  `yaml:"style"` // "", "B", "I", "BI"
	Size   float64 `yaml:"size"`  // in points
}

// Box is a rectangle anchored at its bottom-left corner, in points from the
// bottom-left of the page.
type Box struct {
	X float64 `yaml:"x" validate:"gte=0"`
	Y float64 `yaml:"y" validate:"gte=0"`
	W float64 `yaml:"w" validate:"gt=0"`
	H float64 `yaml:"h" validate:"gt=0"`
}
