package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the annotation tool.
// Fields may be loaded from a JSON file and overridden by environment and command-line flags.
type Config struct {
	Debug    bool `json:"debug"`
	DarkMode bool `json:"dark_mode"`

	// Workspace layout
	ImageDir     string `json:"image_dir"`
	LabelsDir    string `json:"labels_dir"`    // sibling of the image folder
	AnnotatedDir string `json:"annotated_dir"` // sibling of the image folder, read-only in the editor

	// Display surface (letterboxed image area)
	SurfaceW int `json:"surface_w"`
	SurfaceH int `json:"surface_h"`
	WindowW  int `json:"window_w"`
	WindowH  int `json:"window_h"`

	// Annotation rules
	MinBoxSize   int    `json:"min_box_size"`
	DefaultLabel string `json:"default_label"`
	ClassIndex   int    `json:"class_index"`

	// Dataset split: cumulative percentages for train/val/test.
	Splits    []int `json:"splits"`
	SplitSeed int64 `json:"split_seed"`

	// Decoded image cache entries
	CacheSize int `json:"cache_size"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:        false,
		ImageDir:     ".",
		LabelsDir:    "labels",
		AnnotatedDir: "annotated_images",
		SurfaceW:     800,
		SurfaceH:     600,
		WindowW:      1180,
		WindowH:      720,
		MinBoxSize:   5,
		DefaultLabel: "object",
		ClassIndex:   0,
		Splits:       []int{80, 90, 100},
		SplitSeed:    1,
		CacheSize:    16,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.ImageDir == "" {
		c.ImageDir = "."
	}
	if c.LabelsDir == "" {
		c.LabelsDir = "labels"
	}
	if c.AnnotatedDir == "" {
		c.AnnotatedDir = "annotated_images"
	}
	if c.SurfaceW < 100 {
		c.SurfaceW = 800
	}
	if c.SurfaceH < 100 {
		c.SurfaceH = 600
	}
	if c.WindowW < c.SurfaceW {
		c.WindowW = c.SurfaceW + 380
	}
	if c.WindowH < c.SurfaceH {
		c.WindowH = c.SurfaceH + 120
	}
	if c.MinBoxSize <= 0 {
		c.MinBoxSize = 5
	}
	c.DefaultLabel = strings.TrimSpace(c.DefaultLabel)
	if c.DefaultLabel == "" {
		c.DefaultLabel = "object"
	}
	if c.ClassIndex < 0 {
		c.ClassIndex = 0
	}
	if !validSplits(c.Splits) {
		c.Splits = []int{80, 90, 100}
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 16
	}
	return nil
}

// validSplits requires strictly increasing cumulative percentages ending at 100.
func validSplits(s []int) bool {
	if len(s) == 0 || s[len(s)-1] != 100 {
		return false
	}
	prev := 0
	for _, v := range s {
		if v <= prev || v > 100 {
			return false
		}
		prev = v
	}
	return true
}

// DefaultPath returns the per-user config file location, creating parent directories.
func DefaultPath() string {
	p, err := xdg.ConfigFile(filepath.Join("boxlabel", "config.json"))
	if err != nil {
		return "boxlabel.json"
	}
	return p
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process environment.
// Missing files are not an error; variables already set are left untouched.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from BOXLABEL_* environment variables.
func (c *Config) ApplyEnv() {
	c.Debug = getEnvAsBool("BOXLABEL_DEBUG", c.Debug)
	c.DarkMode = getEnvAsBool("BOXLABEL_DARK_MODE", c.DarkMode)
	c.ImageDir = getEnv("BOXLABEL_IMAGE_DIR", c.ImageDir)
	c.LabelsDir = getEnv("BOXLABEL_LABELS_DIR", c.LabelsDir)
	c.AnnotatedDir = getEnv("BOXLABEL_ANNOTATED_DIR", c.AnnotatedDir)
	c.SurfaceW = getEnvAsInt("BOXLABEL_SURFACE_W", c.SurfaceW)
	c.SurfaceH = getEnvAsInt("BOXLABEL_SURFACE_H", c.SurfaceH)
	c.MinBoxSize = getEnvAsInt("BOXLABEL_MIN_BOX_SIZE", c.MinBoxSize)
	c.DefaultLabel = getEnv("BOXLABEL_DEFAULT_LABEL", c.DefaultLabel)
	c.ClassIndex = getEnvAsInt("BOXLABEL_CLASS_INDEX", c.ClassIndex)
	c.CacheSize = getEnvAsInt("BOXLABEL_CACHE_SIZE", c.CacheSize)
	_ = c.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
