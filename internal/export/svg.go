package export

import (
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/amterp/flagmaker/internal/render"
)

// SVG file defaults.
const (
	SVGFileName    = "flag.svg"
	SVGContentType = "image/svg+xml"
)

// SVG writes img as a standalone SVG document with a 0 0 500 300 viewBox.
// Rectangles keep percentage widths and heights so the markup scales with
// whatever size the document is displayed at.
func SVG(w io.Writer, img render.VectorImage) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	width, height := int(img.Width), int(img.Height)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	canvas.Title("Flag")
	for _, s := range img.Shapes {
		fmt.Fprintf(canvas.Writer, `<rect x="%s" y="%s" width="%s%%" height="%s%%" fill="%s" />`+"\n",
			formatFloat(s.X), formatFloat(s.Y), formatFloat(s.WidthPercent), formatFloat(s.HeightPercent), s.Fill.Hex())
	}
	canvas.End()

	return ew.err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// errWriter remembers the first write error; svgo doesn't report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
