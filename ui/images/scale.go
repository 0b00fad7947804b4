package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	_ = enc.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleTo resizes src to exactly w x h. If the source already has that size it is
// returned unchanged.
func ScaleTo(src image.Image, w, h int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(src, w, h, imaging.Linear)
}
