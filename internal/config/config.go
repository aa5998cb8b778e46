package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete peppermint configuration
type Config struct {
	Gallery   GalleryConfig   `yaml:"gallery"`
	Animation AnimationConfig `yaml:"animation"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`
	Slideshow SlideshowConfig `yaml:"slideshow"`
	Shell     ShellConfig     `yaml:"shell"`
}

// GalleryConfig contains navigation and prefetch settings
type GalleryConfig struct {
	WindowSize    int      `yaml:"window_size"`    // read-ahead window, current included (default: 5)
	DecodeWorkers int      `yaml:"decode_workers"` // concurrent decodes (default: NumCPU)
	MergeWorkers  int      `yaml:"merge_workers"`  // row parallelism per frame (default: NumCPU)
	Extensions    []string `yaml:"extensions"`     // exact-match allow-set
}

// AnimationConfig contains frame delay policy, in centiseconds
type AnimationConfig struct {
	ZeroDelay int `yaml:"zero_delay"` // substitute for a raw 0 delay (default: 10)
	MinDelay  int `yaml:"min_delay"`  // floor for every raw delay (default: 5)
}

// BookmarksConfig locates the resume state
type BookmarksConfig struct {
	Path     string `yaml:"path"`     // default: $HOME/.peppermint/bookmarks.msgpack
	Disabled bool   `yaml:"disabled"` // do not resume or record
}

// SlideshowConfig contains auto-advance settings
type SlideshowConfig struct {
	IntervalS int `yaml:"interval_s"` // seconds per image (default: 15)
}

// ShellConfig contains interactive shell settings
type ShellConfig struct {
	HistoryFile string `yaml:"history_file"` // empty disables history
	Prompt      string `yaml:"prompt"`
}

// Interval returns the slideshow interval.
func (s SlideshowConfig) Interval() time.Duration {
	return time.Duration(s.IntervalS) * time.Second
}

// Load reads and parses a YAML configuration file. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// defaultBookmarksPath is $HOME/.peppermint/bookmarks.msgpack, or a path
// relative to the working directory when there is no home.
func defaultBookmarksPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".peppermint", "bookmarks.msgpack")
	}
	return filepath.Join(home, ".peppermint", "bookmarks.msgpack")
}
