package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/boxlabel-go/app"
	"github.com/soocke/boxlabel-go/config"
	"github.com/soocke/boxlabel-go/debug"
	"github.com/soocke/boxlabel-go/domain/dataset"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to the JSON config file")
	dir := flag.String("dir", "", "image folder to open (overrides config)")
	split := flag.Bool("split", false, "split the labeled images of -dir into train/val/test and exit")
	debugFlag := flag.Bool("debug", false, "log runtime and memory statistics")
	flag.Parse()

	// Set up logger; the level is raised to debug once the config is known.
	var level slog.LevelVar
	logger := NewLogger(&level).With("run", uuid.NewString())

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn("dotenv not loaded", "error", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Warn("config not loaded, using defaults", "path", *cfgPath, "error", err)
	}
	cfg.ApplyEnv()
	if *dir != "" {
		cfg.ImageDir = *dir
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}

	if *split {
		os.Exit(runSplit(cfg, logger))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Debug {
		debug.StartRuntimeLogger(ctx, 2*time.Second, logger)
	}

	c, err := app.BuildContainer(cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	logger.Info("starting", "config", *cfgPath, "image_dir", cfg.ImageDir)
	app.NewApp("Box Label", c).Start()
}

// runSplit moves the labeled images of cfg.ImageDir into train/val/test folders.
func runSplit(cfg *config.Config, logger *slog.Logger) int {
	imgDir, err := filepath.Abs(cfg.ImageDir)
	if err != nil {
		logger.Error("split failed", "error", err)
		return 1
	}
	sum, err := dataset.Run(filepath.Dir(imgDir), filepath.Base(imgDir), cfg.LabelsDir, cfg.Splits, cfg.SplitSeed, logger)
	if err != nil {
		logger.Error("split failed", "error", err)
		return 1
	}
	logger.Info("split done", "counts", sum.Counts, "unlabeled", sum.Unlabeled)
	return 0
}
