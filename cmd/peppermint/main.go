package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/e7canasta/peppermint/bookmarks"
	"github.com/e7canasta/peppermint/compositor"
	"github.com/e7canasta/peppermint/gallery"
	"github.com/e7canasta/peppermint/internal/config"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (defaults when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Setup structured logger
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting peppermint",
		"config", *configPath,
		"debug", *debug,
		"window_size", cfg.Gallery.WindowSize,
		"decode_workers", cfg.Gallery.DecodeWorkers,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	session := gallery.New(sessionConfig(cfg))

	var marks *bookmarks.Store
	if !cfg.Bookmarks.Disabled {
		marks, err = bookmarks.Open(cfg.Bookmarks.Path)
		if err != nil {
			// Resume state is optional.
			slog.Warn("bookmarks unavailable", "path", cfg.Bookmarks.Path, "error", err)
			marks = nil
		}
	}

	sh := newShell(cfg, session, marks, os.Stdout)

	if folder := flag.Arg(0); folder != "" {
		sh.exec(ctx, "open "+folder)
	} else if marks != nil {
		sh.resume(ctx)
	}

	if err := sh.run(ctx); err != nil {
		slog.Error("shell failed", "error", err)
	}

	sh.stopSlideshow()
	if err := session.Close(); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("peppermint stopped")
}

// sessionConfig maps the file configuration onto the gallery.
func sessionConfig(cfg *config.Config) gallery.Config {
	return gallery.Config{
		WindowSize:    cfg.Gallery.WindowSize,
		DecodeWorkers: cfg.Gallery.DecodeWorkers,
		MergeWorkers:  cfg.Gallery.MergeWorkers,
		Extensions:    cfg.Gallery.Extensions,
		DelayPolicy: compositor.DelayPolicy{
			ZeroDelay: uint16(cfg.Animation.ZeroDelay),
			MinDelay:  uint16(cfg.Animation.MinDelay),
		},
	}
}

// run reads commands until quit, EOF or ctx is done.
func (sh *shell) run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.cfg.Shell.Prompt,
		HistoryFile:     sh.cfg.Shell.HistoryFile,
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// ^C stops a running slideshow, a second one on an empty line exits.
			if sh.stopSlideshow() || line != "" {
				continue
			}
			return nil
		}
		if err != nil {
			return nil
		}

		if sh.exec(ctx, line) == exitCode {
			return nil
		}
	}
	return nil
}
