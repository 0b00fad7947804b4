package annotation

import (
	"errors"
	"image"
	"strings"
)

// DefaultLabel is stored when the operator accepts the prompt without typing a label.
const DefaultLabel = "object"

var (
	ErrDegenerate = errors.New("rectangle has zero width or height")
	ErrEmptyLabel = errors.New("label is empty")
)

// ImageMeta identifies a loaded image and its pixel dimensions.
type ImageMeta struct {
	Path   string
	Width  int
	Height int
}

// Size returns the image extent as a point.
func (m ImageMeta) Size() image.Point { return image.Pt(m.Width, m.Height) }

// Box is a labeled rectangle in original image pixels.
type Box struct {
	Rect  image.Rectangle
	Label string
}

// Normalize builds a rectangle from two arbitrary corners.
func Normalize(a, b image.Point) image.Rectangle {
	return image.Rect(a.X, a.Y, b.X, b.Y)
}

// NormalizeLabel trims whitespace and substitutes fallback, or DefaultLabel when
// fallback is empty too.
func NormalizeLabel(text, fallback string) string {
	text = strings.TrimSpace(text)
	if text != "" {
		return text
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return DefaultLabel
}

// Validate checks the invariants every stored box satisfies.
func (b Box) Validate() error {
	if b.Rect.Dx() <= 0 || b.Rect.Dy() <= 0 {
		return ErrDegenerate
	}
	if b.Label == "" {
		return ErrEmptyLabel
	}
	return nil
}
