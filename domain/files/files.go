package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	ErrExists       = errors.New("destination already exists")
	ErrEmptyName    = errors.New("name is empty")
	ErrInvalidName  = errors.New("name must not contain path separators")
	ErrNothingToPut = errors.New("clipboard is empty")
	ErrIntoItself   = errors.New("cannot paste a folder into itself")
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ReadOnly reports whether path lies inside a directory named dirName. Rendered copies
// live there and are not edited.
func ReadOnly(path, dirName string) bool {
	if dirName == "" {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == dirName {
			return true
		}
	}
	return false
}

// Entry is one listed image.
type Entry struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// HumanSize formats Size for display, e.g. "1.2 MB".
func (e Entry) HumanSize() string { return humanize.Bytes(uint64(e.Size)) }

// ListImages returns the images directly inside dir sorted by name.
func ListImages(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, de := range des {
		if de.IsDir() || !IsImage(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Path:    filepath.Join(dir, de.Name()),
			Name:    de.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListDirs returns the sub-directories of dir sorted by name.
func ListDirs(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, de := range des {
		if de.IsDir() && !strings.HasPrefix(de.Name(), ".") {
			out = append(out, filepath.Join(dir, de.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// NewFolder creates a folder named name under parent. When the name is taken a numeric
// suffix is added: "New Folder (2)".
func NewFolder(parent, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	target := uniquePath(filepath.Join(parent, name))
	if err := os.Mkdir(target, 0o755); err != nil {
		return "", err
	}
	return target, nil
}

// Rename renames path within its directory. It refuses to overwrite.
func Rename(path, newName string) (string, error) {
	if err := checkName(newName); err != nil {
		return "", err
	}
	target := filepath.Join(filepath.Dir(path), newName)
	if target == path {
		return path, nil
	}
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("rename %s: %w", target, ErrExists)
	}
	if err := os.Rename(path, target); err != nil {
		return "", err
	}
	return target, nil
}

// Delete removes a file or a folder with its contents.
func Delete(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// ImportSummary reports what Import copied.
type ImportSummary struct {
	Copied  int
	Skipped int
	Bytes   int64
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("imported %d file(s), %s; skipped %d", s.Copied, humanize.Bytes(uint64(s.Bytes)), s.Skipped)
}

// Import copies the image files among srcs into destDir. Non-images and names already
// present in destDir are skipped.
func Import(srcs []string, destDir string) (ImportSummary, error) {
	var sum ImportSummary
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return sum, err
	}
	for _, src := range srcs {
		if !IsImage(src) {
			sum.Skipped++
			continue
		}
		target := filepath.Join(destDir, filepath.Base(src))
		if _, err := os.Lstat(target); err == nil {
			sum.Skipped++
			continue
		}
		n, err := copyFile(src, target)
		if err != nil {
			return sum, fmt.Errorf("import %s: %w", src, err)
		}
		sum.Copied++
		sum.Bytes += n
	}
	return sum, nil
}

func checkName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ErrInvalidName
	}
	return nil
}

func uniquePath(p string) string {
	if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
		return p
	}
	for i := 2; ; i++ {
		c := fmt.Sprintf("%s (%d)", p, i)
		if _, err := os.Lstat(c); errors.Is(err, fs.ErrNotExist) {
			return c
		}
	}
}

func copyFile(src, dst string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return io.Copy(out, in)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		_, err = copyFile(p, target)
		return err
	})
}
