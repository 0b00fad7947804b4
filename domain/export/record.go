package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soocke/boxlabel-go/domain/annotation"
)

var (
	ErrEmptyExport       = errors.New("no annotations to export")
	ErrMissingDimensions = errors.New("image dimensions unknown")
)

// Size is the image extent in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Entry is one box in pixel coordinates, top-left anchored.
type Entry struct {
	Label  string `json:"label"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Record is the JSON document written next to the text labels.
type Record struct {
	Image       string  `json:"image"`
	Size        Size    `json:"size"`
	Annotations []Entry `json:"annotations"`
}

// Build converts the boxes of meta into a Record and the matching normalized lines.
// Both outputs keep insertion order.
func Build(meta annotation.ImageMeta, boxes []annotation.Box, classIndex int) (Record, []string, error) {
	if meta.Width <= 0 || meta.Height <= 0 {
		return Record{}, nil, ErrMissingDimensions
	}
	if len(boxes) == 0 {
		return Record{}, nil, ErrEmptyExport
	}
	rec := Record{
		Image:       meta.Path,
		Size:        Size{Width: meta.Width, Height: meta.Height},
		Annotations: make([]Entry, 0, len(boxes)),
	}
	lines := make([]string, 0, len(boxes))
	for _, b := range boxes {
		r := b.Rect.Canon()
		e := Entry{Label: b.Label, X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
		rec.Annotations = append(rec.Annotations, e)
		lines = append(lines, FormatLine(classIndex, e, rec.Size))
	}
	return rec, lines, nil
}

// FormatLine renders e as "<class> <x_center> <y_center> <width> <height>" with each
// value divided by the image extent and printed with six decimals.
func FormatLine(classIndex int, e Entry, size Size) string {
	w, h := float64(size.Width), float64(size.Height)
	xc := (float64(e.X) + float64(e.Width)/2) / w
	yc := (float64(e.Y) + float64(e.Height)/2) / h
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", classIndex, xc, yc, float64(e.Width)/w, float64(e.Height)/h)
}

// Text joins lines with a trailing newline after each.
func Text(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
