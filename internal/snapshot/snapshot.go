// Package snapshot composites the camera feed with the rendered overlay into
// the PNG a visitor downloads.
package snapshot

import (
	"fmt"
	"image"
	_ "image/jpeg" // camera frames may arrive as JPEG
	"image/png"
	"io"
	"time"

	xdraw "golang.org/x/image/draw"

	"holo-museum-guide/internal/domain"
)

// FileName is the download name for a capture taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("holo-museum-%d.png", t.UnixMilli())
}

// Compose scales feed to the overlay's size and draws the overlay on top.
func Compose(feed, overlay image.Image) *image.RGBA {
	ob := overlay.Bounds()
	bounds := image.Rect(0, 0, ob.Dx(), ob.Dy())
	dst := image.NewRGBA(bounds)
	xdraw.ApproxBiLinear.Scale(dst, bounds, feed, feed.Bounds(), xdraw.Src, nil)
	xdraw.Draw(dst, bounds, overlay, ob.Min, xdraw.Over)
	return dst
}

// DefaultMaxPixels bounds a decoded frame to roughly a 4K square.
const DefaultMaxPixels = 4096 * 4096

// Decode reads a PNG or JPEG frame. The header is checked first so a frame
// declaring more than maxPixels pixels is rejected before any pixel buffer
// is allocated.
func Decode(r io.ReadSeeker, maxPixels int) (image.Image, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrFrameTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind frame: %w", err)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
