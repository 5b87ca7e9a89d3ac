package export

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/render"
	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// Raster file defaults.
const (
	PNGFileName    = "flag.png"
	PNGContentType = "image/png"
)

// Options controls raster output.
type Options struct {
	// Width and Height of the drawing surface. The flag is scaled to fill it.
	Width  int
	Height int
	// ResizeWidth, when positive, downsamples the finished image to this
	// width (keeping the aspect ratio) with a Lanczos filter.
	ResizeWidth int
}

// DefaultOptions returns the 1920x1152 export surface.
func DefaultOptions() Options {
	return Options{
		Width:  model.DefaultExportWidth,
		Height: model.DefaultExportHeight,
	}
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = model.DefaultExportWidth
	}
	if o.Height <= 0 {
		o.Height = model.DefaultExportHeight
	}
	return o
}

// Raster draws img onto an off-screen surface. Shapes are painted in order
// with anti-aliased edges, so fractional stripe boundaries blend rather than
// snap. Cancelling ctx stops between shapes.
func Raster(ctx context.Context, img render.VectorImage, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("cannot rasterize %vx%v canvas", img.Width, img.Height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	sx := float32(float64(opts.Width) / img.Width)
	sy := float32(float64(opts.Height) / img.Height)

	z := vector.NewRasterizer(opts.Width, opts.Height)
	for _, s := range img.Shapes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x0, y0 := float32(s.X)*sx, float32(s.Y)*sy
		x1, y1 := float32(s.X+s.Width)*sx, float32(s.Y+s.Height)*sy

		z.Reset(opts.Width, opts.Height)
		z.DrawOp = draw.Over
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), image.NewUniform(s.Fill.RGBA()), image.Point{})
	}

	if opts.ResizeWidth > 0 && opts.ResizeWidth != opts.Width {
		return imaging.Resize(dst, opts.ResizeWidth, 0, imaging.Lanczos), nil
	}
	return dst, nil
}

// PNG rasterizes img and encodes it to w. Nothing is written if rasterizing fails.
func PNG(ctx context.Context, w io.Writer, img render.VectorImage, opts Options) error {
	return Encode(ctx, w, img, imaging.PNG, opts)
}

// Encode rasterizes img and writes it in the given format.
func Encode(ctx context.Context, w io.Writer, img render.VectorImage, format imaging.Format, opts Options) error {
	raster, err := Raster(ctx, img, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, raster, format, imaging.PNGCompressionLevel(png.BestCompression))
}

// RasterResult is delivered by RasterAsync.
type RasterResult struct {
	Image image.Image
	Err   error
}

// RasterAsync rasterizes in a new goroutine. The channel receives exactly one
// result and is then closed. Calls are independent of each other; there are
// no retries.
func RasterAsync(ctx context.Context, img render.VectorImage, opts Options) <-chan RasterResult {
	ch := make(chan RasterResult, 1)
	go func() {
		defer close(ch)
		raster, err := Raster(ctx, img, opts)
		ch <- RasterResult{Image: raster, Err: err}
	}()
	return ch
}
