package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/soocke/boxlabel-go/domain/export"
	"github.com/soocke/boxlabel-go/domain/files"
)

// DefaultNames are the split folders created for three cumulative percentages.
var DefaultNames = []string{"train", "val", "test"}

var ErrBadSplits = errors.New("split percentages must be increasing and end at 100")

// Pair is an image and the text label file exported for it.
type Pair struct {
	Image string
	Label string
}

// Pairs matches images in imagesDir with <base>.txt files in labelsDir. Images without a
// label file are returned separately and never moved.
func Pairs(imagesDir, labelsDir string) (pairs []Pair, unlabeled []string, err error) {
	imgs, err := files.ListImages(imagesDir)
	if err != nil {
		return nil, nil, err
	}
	for _, img := range imgs {
		lbl := filepath.Join(labelsDir, export.BaseName(img.Name)+".txt")
		if _, err := os.Stat(lbl); err != nil {
			unlabeled = append(unlabeled, img.Path)
			continue
		}
		pairs = append(pairs, Pair{Image: img.Path, Label: lbl})
	}
	return pairs, unlabeled, nil
}

// Split shuffles pairs with a fixed seed and cuts them at the cumulative percentages, so
// the same input always yields the same partition.
func Split(pairs []Pair, cumulative []int, seed int64) ([][]Pair, error) {
	prev := 0
	for _, c := range cumulative {
		if c < prev || c > 100 {
			return nil, ErrBadSplits
		}
		prev = c
	}
	if len(cumulative) == 0 || prev != 100 {
		return nil, ErrBadSplits
	}
	shuffled := make([]Pair, len(pairs))
	copy(shuffled, pairs)
	sort.Slice(shuffled, func(i, j int) bool { return shuffled[i].Image < shuffled[j].Image })
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	out := make([][]Pair, len(cumulative))
	start := 0
	for i, c := range cumulative {
		end := len(shuffled) * c / 100
		out[i] = shuffled[start:end]
		start = end
	}
	return out, nil
}

// Summary reports the outcome of Run.
type Summary struct {
	Counts    map[string]int
	Unlabeled int
}

// Run splits root/<imagesSub> and root/<labelsSub> into per-split sub-folders such as
// images/train and labels/train, moving files in place.
func Run(root, imagesSub, labelsSub string, cumulative []int, seed int64, logger *slog.Logger) (Summary, error) {
	names := DefaultNames
	if len(cumulative) != len(names) {
		names = make([]string, len(cumulative))
		for i := range names {
			names[i] = fmt.Sprintf("split%d", i)
		}
	}
	imagesDir := filepath.Join(root, imagesSub)
	labelsDir := filepath.Join(root, labelsSub)
	pairs, unlabeled, err := Pairs(imagesDir, labelsDir)
	if err != nil {
		return Summary{}, err
	}
	sets, err := Split(pairs, cumulative, seed)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Counts: make(map[string]int, len(names)), Unlabeled: len(unlabeled)}
	for i, set := range sets {
		imgDst := filepath.Join(imagesDir, names[i])
		lblDst := filepath.Join(labelsDir, names[i])
		for _, d := range []string{imgDst, lblDst} {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return sum, err
			}
		}
		for _, p := range set {
			if err := move(p.Image, imgDst); err != nil {
				return sum, err
			}
			if err := move(p.Label, lblDst); err != nil {
				return sum, err
			}
		}
		sum.Counts[names[i]] = len(set)
		if logger != nil {
			logger.Info("split written", "name", names[i], "count", len(set))
		}
	}
	if logger != nil && len(unlabeled) > 0 {
		logger.Warn("images without labels left in place", "count", len(unlabeled))
	}
	return sum, nil
}

func move(path, dir string) error {
	target := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("move %s: %w", target, files.ErrExists)
	}
	return os.Rename(path, target)
}
