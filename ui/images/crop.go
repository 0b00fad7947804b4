package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// CropBox cuts the region r out of src for use as a thumbnail. r is clamped to the
// source bounds and the result is at least 1x1. When maxSide > 0 the crop is shrunk to
// fit a maxSide x maxSide square. It returns the crop and the rectangle actually used.
func CropBox(src image.Image, r image.Rectangle, maxSide int) (image.Image, image.Rectangle, error) {
	if src == nil {
		return nil, image.Rectangle{}, errors.New("nil image")
	}
	b := src.Bounds()
	r = r.Canon().Intersect(b)
	if r.Empty() {
		// fall back to a single pixel at the nearest corner
		x := min(max(r.Min.X, b.Min.X), b.Max.X-1)
		y := min(max(r.Min.Y, b.Min.Y), b.Max.Y-1)
		r = image.Rect(x, y, x+1, y+1)
	}
	out := image.Image(imaging.Crop(src, r))
	if maxSide > 0 && (r.Dx() > maxSide || r.Dy() > maxSide) {
		out = imaging.Fit(out, maxSide, maxSide, imaging.Box)
	}
	return out, r, nil
}
