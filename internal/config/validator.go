package config

import (
	"fmt"
	"math"
	"regexp"
	"runtime"
)

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// Default extensions listed by the gallery.
var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".tif"}

// Validate checks if the configuration is valid and fills defaults
func Validate(cfg *Config) error {
	// Validate gallery config
	if cfg.Gallery.WindowSize < 0 {
		return fmt.Errorf("gallery.window_size must be >= 0")
	}
	if cfg.Gallery.WindowSize == 0 {
		cfg.Gallery.WindowSize = 5 // default
	}
	if cfg.Gallery.DecodeWorkers < 0 {
		return fmt.Errorf("gallery.decode_workers must be >= 0")
	}
	if cfg.Gallery.DecodeWorkers == 0 {
		cfg.Gallery.DecodeWorkers = runtime.NumCPU()
	}
	if cfg.Gallery.MergeWorkers < 0 {
		return fmt.Errorf("gallery.merge_workers must be >= 0")
	}
	if cfg.Gallery.MergeWorkers == 0 {
		cfg.Gallery.MergeWorkers = runtime.NumCPU()
	}

	if len(cfg.Gallery.Extensions) == 0 {
		cfg.Gallery.Extensions = append([]string(nil), defaultExtensions...)
	}
	for _, ext := range cfg.Gallery.Extensions {
		if !extensionPattern.MatchString(ext) {
			return fmt.Errorf("gallery.extensions: '%s' must match pattern \\.[A-Za-z0-9]+", ext)
		}
	}

	// Validate animation config
	if err := validateDelay("animation.zero_delay", cfg.Animation.ZeroDelay); err != nil {
		return err
	}
	if err := validateDelay("animation.min_delay", cfg.Animation.MinDelay); err != nil {
		return err
	}
	if cfg.Animation.ZeroDelay == 0 {
		cfg.Animation.ZeroDelay = 10 // default
	}
	if cfg.Animation.MinDelay == 0 {
		cfg.Animation.MinDelay = 5 // default
	}

	// Set default bookmarks path if not provided
	if cfg.Bookmarks.Path == "" {
		cfg.Bookmarks.Path = defaultBookmarksPath()
	}

	// Validate slideshow config
	if cfg.Slideshow.IntervalS < 0 {
		return fmt.Errorf("slideshow.interval_s must be >= 0")
	}
	if cfg.Slideshow.IntervalS == 0 {
		cfg.Slideshow.IntervalS = 15 // default
	}

	if cfg.Shell.Prompt == "" {
		cfg.Shell.Prompt = "peppermint> "
	}

	return nil
}

// validateDelay checks a centisecond value fits a frame delay field.
func validateDelay(field string, v int) error {
	if v < 0 || v > math.MaxUint16 {
		return fmt.Errorf("%s must be in [0, %d], got %d", field, math.MaxUint16, v)
	}
	return nil
}
