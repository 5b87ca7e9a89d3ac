package model

import (
	"image/color"
	"regexp"
	"strings"

	fmerr "github.com/amterp/flagmaker/internal/errors"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 6-digit uppercase hex color without the leading '#', e.g. "FF0018".
type Color string

var colorPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// NormalizeColor strips a leading '#' and upper-cases the rest.
// It does not validate; use ParseColor for untrusted input.
func NormalizeColor(raw string) Color {
	return Color(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(raw), "#")))
}

// ParseColor normalizes raw and checks it against the color format.
func ParseColor(raw string) (Color, error) {
	c := NormalizeColor(raw)
	if !c.Valid() {
		return "", fmerr.InvalidColor(raw)
	}
	return c, nil
}

// Valid reports whether c matches [0-9A-F]{6}.
func (c Color) Valid() bool {
	return colorPattern.MatchString(string(c))
}

// Hex returns the color in #RRGGBB form.
func (c Color) Hex() string {
	return "#" + string(c)
}

// RGBA converts the color for drawing. Invalid colors come back as opaque black.
func (c Color) RGBA() color.RGBA {
	cf, err := colorful.Hex(c.Hex())
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
