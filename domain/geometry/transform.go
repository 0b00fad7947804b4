package geometry

import (
	"errors"
	"image"
)

var (
	// ErrOutOfBounds is returned when a display point lies outside the displayed image.
	ErrOutOfBounds = errors.New("point outside displayed image")
	// ErrInvalidSize is returned for non-positive image or surface dimensions.
	ErrInvalidSize = errors.New("invalid image or surface size")
)

// Transform maps between display surface coordinates and original image pixels.
// The image is drawn at (OffsetX, OffsetY) with size DisplayW x DisplayH.
type Transform struct {
	Scale    float64
	OffsetX  int
	OffsetY  int
	DisplayW int
	DisplayH int
	ImageW   int
	ImageH   int
}

// FitToDisplay computes the letterboxed placement of an imageW x imageH image inside a
// surfaceW x surfaceH surface. Images that already fit are shown at scale 1.
func FitToDisplay(imageW, imageH, surfaceW, surfaceH int) (Transform, error) {
	if imageW <= 0 || imageH <= 0 || surfaceW <= 0 || surfaceH <= 0 {
		return Transform{}, ErrInvalidSize
	}
	scale := 1.0
	if imageW > surfaceW || imageH > surfaceH {
		ratioW := float64(surfaceW) / float64(imageW)
		ratioH := float64(surfaceH) / float64(imageH)
		scale = ratioW
		if ratioH < scale {
			scale = ratioH
		}
	}
	dispW := clamp(int(float64(imageW)*scale+0.5), 1, surfaceW)
	dispH := clamp(int(float64(imageH)*scale+0.5), 1, surfaceH)
	return Transform{
		Scale:    scale,
		OffsetX:  (surfaceW - dispW) / 2,
		OffsetY:  (surfaceH - dispH) / 2,
		DisplayW: dispW,
		DisplayH: dispH,
		ImageW:   imageW,
		ImageH:   imageH,
	}, nil
}

// Valid reports whether t was produced by FitToDisplay.
func (t Transform) Valid() bool {
	return t.DisplayW > 0 && t.DisplayH > 0 && t.ImageW > 0 && t.ImageH > 0
}

// DisplayRect is the area of the surface covered by the image.
func (t Transform) DisplayRect() image.Rectangle {
	return image.Rect(t.OffsetX, t.OffsetY, t.OffsetX+t.DisplayW, t.OffsetY+t.DisplayH)
}

// Contains reports whether p hits the displayed image. Both edges are inclusive.
func (t Transform) Contains(p image.Point) bool {
	if !t.Valid() {
		return false
	}
	return p.X >= t.OffsetX && p.X <= t.OffsetX+t.DisplayW &&
		p.Y >= t.OffsetY && p.Y <= t.OffsetY+t.DisplayH
}

// DisplayToImage converts a surface point to image pixels, truncating toward zero.
// The relative position is scaled by the ratio of image to displayed extent, so the
// far edge maps to the image width/height exactly.
func (t Transform) DisplayToImage(p image.Point) (image.Point, error) {
	if !t.Contains(p) {
		return image.Point{}, ErrOutOfBounds
	}
	x := (p.X - t.OffsetX) * t.ImageW / t.DisplayW
	y := (p.Y - t.OffsetY) * t.ImageH / t.DisplayH
	return image.Pt(x, y), nil
}

// ImageToDisplay converts an image-space rectangle to surface coordinates for drawing.
func (t Transform) ImageToDisplay(r image.Rectangle) image.Rectangle {
	if !t.Valid() {
		return image.Rectangle{}
	}
	toX := func(x int) int { return t.OffsetX + x*t.DisplayW/t.ImageW }
	toY := func(y int) int { return t.OffsetY + y*t.DisplayH/t.ImageH }
	return image.Rect(toX(r.Min.X), toY(r.Min.Y), toX(r.Max.X), toY(r.Max.Y))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
