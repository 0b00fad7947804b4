package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Clipboard holds one path for a later paste. A cut moves on paste and then empties the
// clipboard; a copy can be pasted repeatedly.
type Clipboard struct {
	path string
	cut  bool
}

func (c *Clipboard) Copy(path string) { c.path, c.cut = path, false }
func (c *Clipboard) Cut(path string)  { c.path, c.cut = path, true }
func (c *Clipboard) Clear()           { c.path, c.cut = "", false }

// Pending returns the held path and whether it was cut.
func (c *Clipboard) Pending() (path string, cut bool, ok bool) {
	return c.path, c.cut, c.path != ""
}

// Paste places the held path inside destDir and returns the new path.
func (c *Clipboard) Paste(destDir string) (string, error) {
	if c.path == "" {
		return "", ErrNothingToPut
	}
	src := c.path
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	target := filepath.Join(destDir, filepath.Base(src))
	if info.IsDir() && isWithin(destDir, src) {
		return "", ErrIntoItself
	}
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("paste %s: %w", target, ErrExists)
	}
	if c.cut {
		if err := os.Rename(src, target); err != nil {
			return "", err
		}
		c.Clear()
		return target, nil
	}
	if info.IsDir() {
		err = copyTree(src, target)
	} else {
		_, err = copyFile(src, target)
	}
	if err != nil {
		return "", err
	}
	return target, nil
}

// isWithin reports whether p equals root or lies below it.
func isWithin(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
