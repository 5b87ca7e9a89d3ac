package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amterp/flagmaker/internal/render"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// WriteFile exports img to path, choosing the format from the extension.
// ".svg" writes vector markup; anything imaging knows (png, jpg, gif, tif,
// bmp) is rasterized. The file is only created once encoding succeeded.
func WriteFile(ctx context.Context, path string, img render.VectorImage, opts Options) error {
	var buf bytes.Buffer

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		if err := SVG(&buf, img); err != nil {
			return err
		}
	} else {
		format, err := imaging.FormatFromFilename(path)
		if err != nil {
			return fmt.Errorf("unsupported export format %q: %w", filepath.Ext(path), err)
		}
		if err := Encode(ctx, &buf, img, format, opts); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteFiles exports img to every path concurrently. The first failure
// cancels the remaining raster work.
func WriteFiles(ctx context.Context, paths []string, img render.VectorImage, opts Options) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		g.Go(func() error {
			if err := WriteFile(ctx, p, img, opts); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}
