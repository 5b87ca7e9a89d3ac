// Package render turns a flag's color list into stripe geometry.
package render

import "github.com/amterp/flagmaker/internal/model"

// Logical canvas size. Exporters scale from here.
const (
	CanvasWidth  = 500
	CanvasHeight = 300
)

// Rect is an axis-aligned, full-width filled rectangle in canvas units.
type Rect struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Fill   model.Color `json:"fill"`

	// WidthPercent and HeightPercent are the same extents relative to the canvas.
	WidthPercent  float64 `json:"width_percent"`
	HeightPercent float64 `json:"height_percent"`
}

// VectorImage is a format-independent description of a flag.
// Shapes are in paint order: later shapes cover earlier ones.
type VectorImage struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shapes []Rect  `json:"shapes"`
}

// Render maps colors to stripes on a 500x300 canvas.
//
// Every rectangle runs from its stripe's offset to the bottom of the canvas,
// and later stripes paint over it. A stripe that repeats the color directly
// above it emits nothing, so a run of equal colors becomes one region
// starting at the run's first stripe. [A, A, B] is therefore two shapes,
// not three equal bands.
func Render(colors model.ColorList) VectorImage {
	img := VectorImage{
		Width:  CanvasWidth,
		Height: CanvasHeight,
		Shapes: []Rect{},
	}

	n := len(colors)
	if n == 0 {
		return img
	}

	stripeHeight := float64(CanvasHeight) / float64(n)
	var last model.Color
	for i, c := range colors {
		if i == 0 || c != last {
			heightPercent := 100 - (100/float64(n))*float64(i)
			img.Shapes = append(img.Shapes, Rect{
				X:             0,
				Y:             float64(i) * stripeHeight,
				Width:         CanvasWidth,
				Height:        CanvasHeight * heightPercent / 100,
				Fill:          c,
				WidthPercent:  100,
				HeightPercent: heightPercent,
			})
		}
		last = c
	}
	return img
}
