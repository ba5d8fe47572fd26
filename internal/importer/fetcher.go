// Package importer runs the screenshot import pipeline: new assets from
// the photo library become pending inbox items, their image bytes are
// fetched off the loop, and completed imports are recorded in the dedup
// ledger.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // screenshot files are usually PNG
	"os"

	"github.com/hpungsan/stash/internal/photolib"
)

// Default fetch parameters: bound the stored payload without visibly
// degrading a screenshot.
const (
	DefaultMaxDim      = 1024
	DefaultJPEGQuality = 80
)

// ImageFetcher loads and normalizes an asset's image bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, asset photolib.AssetEvent) ([]byte, error)
}

// FileFetcher reads asset files from disk, downscales to a bounding box,
// and re-encodes as JPEG.
type FileFetcher struct {
	MaxDim      int
	JPEGQuality int
}

// NewFileFetcher builds a fetcher; zero values fall back to defaults.
func NewFileFetcher(maxDim, quality int) *FileFetcher {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return &FileFetcher{MaxDim: maxDim, JPEGQuality: quality}
}

// Fetch returns the normalized JPEG bytes for an asset.
func (f *FileFetcher) Fetch(ctx context.Context, asset photolib.AssetEvent) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(asset.Path)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", asset.ID, err)
	}

	img = downscale(img, f.MaxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: f.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode %s: %w", asset.ID, err)
	}
	return buf.Bytes(), nil
}

// downscale fits img into a maxDim square, preserving aspect ratio.
// Nearest-neighbor is plenty for screenshot thumbnails.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		srcY := bounds.Min.Y + y*h/outH
		for x := 0; x < outW; x++ {
			srcX := bounds.Min.X + x*w/outW
			out.Set(x, y, img.At(srcX, srcY))
		}
	}
	return out
}
