package images

import (
	"fmt"
	"image"
	"log/slog"

	// Extra decoders so directories with these formats can be browsed.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

type scaledKey struct {
	path string
	w, h int
}

// Loader decodes images from disk and caches both the originals and their display-sized
// copies. It is used from the UI thread only.
type Loader struct {
	logger   *slog.Logger
	decoded  *lru.Cache[string, image.Image]
	scaled   *lru.Cache[scaledKey, image.Image]
	openFunc func(path string) (image.Image, error)
}

// NewLoader returns a loader holding up to size decoded images.
func NewLoader(size int, logger *slog.Logger) (*Loader, error) {
	if size <= 0 {
		size = 16
	}
	decoded, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, err
	}
	scaled, err := lru.New[scaledKey, image.Image](size * 2)
	if err != nil {
		return nil, err
	}
	return &Loader{logger: logger, decoded: decoded, scaled: scaled, openFunc: openOriented}, nil
}

func openOriented(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// Open returns the decoded image at path with EXIF orientation applied.
func (l *Loader) Open(path string) (image.Image, error) {
	if img, ok := l.decoded.Get(path); ok {
		return img, nil
	}
	img, err := l.openFunc(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	l.decoded.Add(path, img)
	if l.logger != nil {
		b := img.Bounds()
		l.logger.Debug("image decoded", "path", path, "width", b.Dx(), "height", b.Dy())
	}
	return img, nil
}

// Scaled returns the image at path resized to w x h, reusing a cached copy when possible.
func (l *Loader) Scaled(path string, w, h int) (image.Image, error) {
	key := scaledKey{path: path, w: w, h: h}
	if img, ok := l.scaled.Get(key); ok {
		return img, nil
	}
	src, err := l.Open(path)
	if err != nil {
		return nil, err
	}
	img := ScaleTo(src, w, h)
	l.scaled.Add(key, img)
	return img, nil
}

// Forget drops cached copies of path, e.g. after the file was renamed or deleted.
func (l *Loader) Forget(path string) {
	l.decoded.Remove(path)
	for _, k := range l.scaled.Keys() {
		if k.path == path {
			l.scaled.Remove(k)
		}
	}
}

// Purge empties both caches.
func (l *Loader) Purge() {
	l.decoded.Purge()
	l.scaled.Purge()
}

// Len returns the number of cached originals.
func (l *Loader) Len() int { return l.decoded.Len() }
