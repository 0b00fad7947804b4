package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/soocke/boxlabel-go/domain/annotation"
)

// DefaultLabelsDirName is the sibling directory of the image folder that receives labels.
const DefaultLabelsDirName = "labels"

// Result reports where the two label files were written.
type Result struct {
	JSONPath string
	TextPath string
	Count    int
}

// WriteError describes a failed or partial export. Each side is written independently,
// so one file may be in place while the other is not.
type WriteError struct {
	JSONPath string
	TextPath string
	JSONErr  error
	TextErr  error
}

func (e *WriteError) Error() string {
	switch {
	case e.JSONErr != nil && e.TextErr != nil:
		return fmt.Sprintf("export failed: %s: %v; %s: %v", e.JSONPath, e.JSONErr, e.TextPath, e.TextErr)
	case e.JSONErr != nil:
		return fmt.Sprintf("partial export: %s written, %s failed: %v", e.TextPath, e.JSONPath, e.JSONErr)
	default:
		return fmt.Sprintf("partial export: %s written, %s failed: %v", e.JSONPath, e.TextPath, e.TextErr)
	}
}

// Partial reports whether exactly one of the two files was written.
func (e *WriteError) Partial() bool { return (e.JSONErr == nil) != (e.TextErr == nil) }

func (e *WriteError) Unwrap() []error {
	var errs []error
	if e.JSONErr != nil {
		errs = append(errs, e.JSONErr)
	}
	if e.TextErr != nil {
		errs = append(errs, e.TextErr)
	}
	return errs
}

// Writer persists annotation sets as <base>.json and <base>.txt.
type Writer struct {
	// Dir overrides the output directory. Empty means LabelsDirFor(image, LabelsDirName).
	Dir           string
	LabelsDirName string
	ClassIndex    int
	Logger        *slog.Logger
}

// LabelsDirFor returns the labels directory for an image: a sibling of the folder
// holding the image.
func LabelsDirFor(imagePath, dirName string) string {
	if dirName == "" {
		dirName = DefaultLabelsDirName
	}
	parent := filepath.Dir(filepath.Dir(imagePath))
	return filepath.Join(parent, dirName)
}

// BaseName strips directory and extension from path.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Paths returns the JSON and text targets for an image without writing anything.
func (w Writer) Paths(imagePath string) (jsonPath, textPath string) {
	dir := w.Dir
	if dir == "" {
		dir = LabelsDirFor(imagePath, w.LabelsDirName)
	}
	base := BaseName(imagePath)
	return filepath.Join(dir, base+".json"), filepath.Join(dir, base+".txt")
}

// Write exports boxes for meta. Validation errors (ErrEmptyExport, ErrMissingDimensions)
// are returned before touching the file system; I/O failures come back as *WriteError.
func (w Writer) Write(meta annotation.ImageMeta, boxes []annotation.Box) (Result, error) {
	rec, lines, err := Build(meta, boxes, w.ClassIndex)
	if err != nil {
		return Result{}, err
	}
	jsonPath, textPath := w.Paths(meta.Path)
	res := Result{JSONPath: jsonPath, TextPath: textPath, Count: len(rec.Annotations)}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0o755); err != nil {
		return res, &WriteError{JSONPath: jsonPath, TextPath: textPath, JSONErr: err, TextErr: err}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	jsonErr := enc.Encode(rec)
	if jsonErr == nil {
		jsonErr = writeFileAtomic(jsonPath, buf.Bytes())
	}
	textErr := writeFileAtomic(textPath, []byte(Text(lines)))

	if jsonErr != nil || textErr != nil {
		werr := &WriteError{JSONPath: jsonPath, TextPath: textPath, JSONErr: jsonErr, TextErr: textErr}
		if w.Logger != nil {
			w.Logger.Error("export failed", "image", meta.Path, "partial", werr.Partial(), "error", werr)
		}
		return res, werr
	}
	if w.Logger != nil {
		w.Logger.Info("export written", "image", meta.Path, "json", jsonPath, "txt", textPath, "count", res.Count)
	}
	return res, nil
}

// Load reads a previously exported JSON record.
func Load(path string) (rec Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer closeWithErrCheck(f, &err)
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}

// writeFileAtomic writes data to a temp file in the target directory and renames it
// into place, so readers never observe a half-written file.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// closeWithErrCheck calls c.Close() and keeps its error if *e is still nil.
func closeWithErrCheck(c io.Closer, e *error) {
	if err := c.Close(); err != nil && *e == nil {
		*e = err
	}
}
