package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/e7canasta/peppermint/bookmarks"
	"github.com/e7canasta/peppermint/gallery"
	"github.com/e7canasta/peppermint/internal/config"
)

const exitCode = 999

// shellCommand is one verb of the interactive shell.
type shellCommand struct {
	Name    string
	Usage   string
	MinArgs int
	MaxArgs int
	Code    func(ctx context.Context, args []string) int
}

type shell struct {
	cfg     *config.Config
	session gallery.Session
	marks   *bookmarks.Store // nil when bookmarks are disabled
	out     io.Writer

	commands map[string]shellCommand

	showMu   sync.Mutex
	showStop context.CancelFunc
	showDone chan struct{}
}

func newShell(cfg *config.Config, session gallery.Session, marks *bookmarks.Store, out io.Writer) *shell {
	sh := &shell{cfg: cfg, session: session, marks: marks, out: out}
	sh.commands = map[string]shellCommand{
		"open":  {Name: "open", Usage: "open <folder> [file]", MinArgs: 1, MaxArgs: 2, Code: sh.cmdOpen},
		"next":  {Name: "next", Usage: "next", Code: sh.move(sh.session.Next)},
		"prev":  {Name: "prev", Usage: "prev", Code: sh.move(sh.session.Prev)},
		"first": {Name: "first", Usage: "first", Code: sh.move(sh.session.First)},
		"last":  {Name: "last", Usage: "last", Code: sh.move(sh.session.Last)},
		"info":  {Name: "info", Usage: "info", Code: sh.cmdInfo},
		"play":  {Name: "play", Usage: "play [seconds]", MaxArgs: 1, Code: sh.cmdPlay},
		"stop":  {Name: "stop", Usage: "stop", Code: sh.cmdStop},
		"stats": {Name: "stats", Usage: "stats", Code: sh.cmdStats},
		"help":  {Name: "help", Usage: "help", Code: sh.cmdHelp},
		"quit":  {Name: "quit", Usage: "quit", Code: func(context.Context, []string) int { return exitCode }},
	}
	return sh
}

func (sh *shell) completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(sh.commands))
	for _, name := range sh.verbs() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

func (sh *shell) verbs() []string {
	verbs := make([]string, 0, len(sh.commands))
	for name := range sh.commands {
		verbs = append(verbs, name)
	}
	sort.Strings(verbs)
	return verbs
}

// exec runs one command line and returns its code: 0 ok, -1 failed,
// exitCode to leave the shell.
func (sh *shell) exec(ctx context.Context, line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	command, ok := sh.commands[verb]
	if !ok {
		fmt.Fprintf(sh.out, "unrecognized command: %s\n", verb)
		return -1
	}
	if len(args) < command.MinArgs || len(args) > command.MaxArgs {
		fmt.Fprintf(sh.out, "usage: %s\n", command.Usage)
		return -1
	}
	return command.Code(ctx, args)
}

// resume reopens the bookmarked position, if any.
func (sh *shell) resume(ctx context.Context) {
	h, err := gallery.Resume(ctx, sh.session, sh.marks)
	switch {
	case errors.Is(err, gallery.ErrNothingToResume):
		slog.Info("nothing to resume", "error", err)
		return
	case err != nil:
		fmt.Fprintf(sh.out, "resume: %v\n", err)
		return
	}
	sh.show(ctx, h)
}

func (sh *shell) cmdOpen(ctx context.Context, args []string) int {
	folder, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintf(sh.out, "open: %v\n", err)
		return -1
	}
	preferred := ""
	if len(args) == 2 {
		preferred = args[1]
	} else if sh.marks != nil {
		preferred, _ = sh.marks.FileIn(folder)
	}

	sh.stopSlideshow()
	h, err := sh.session.Open(ctx, folder, preferred)
	if err != nil {
		fmt.Fprintf(sh.out, "open: %v\n", err)
		return -1
	}
	return sh.show(ctx, h)
}

func (sh *shell) move(step func() (*gallery.Handle, error)) func(context.Context, []string) int {
	return func(ctx context.Context, _ []string) int {
		h, err := step()
		if err != nil {
			fmt.Fprintf(sh.out, "%v\n", err)
			return -1
		}
		return sh.show(ctx, h)
	}
}

// show waits for the handle, prints the image summary and records the
// position in the bookmarks. A failed decode is reported but still recorded.
func (sh *shell) show(ctx context.Context, h *gallery.Handle) int {
	code := 0
	img, err := h.Wait(ctx)
	if err != nil {
		fmt.Fprintf(sh.out, "[%d/%d] %s: %v\n", h.Index+1, h.Count, h.Entry.Name, err)
		code = -1
	} else {
		fmt.Fprintf(sh.out, "[%d/%d] %s %dx%d", h.Index+1, h.Count, h.Entry.Name, img.Width, img.Height)
		if img.IsAnimated() {
			fmt.Fprintf(sh.out, " %d frames %v", img.FrameCount(), img.Duration())
		}
		fmt.Fprintln(sh.out)
	}

	if sh.marks != nil {
		if pos, err := sh.session.Position(); err == nil {
			if err := sh.marks.Touch(pos.Folder, pos.Name); err != nil {
				slog.Warn("failed to record bookmark", "error", err)
			}
		}
	}
	return code
}

func (sh *shell) cmdInfo(_ context.Context, _ []string) int {
	pos, err := sh.session.Position()
	if err != nil {
		fmt.Fprintf(sh.out, "%v\n", err)
		return -1
	}
	fmt.Fprintf(sh.out, "%s\n%s (%d of %d)\n", pos.Folder, pos.Name, pos.Index, pos.Count)

	h, err := sh.session.Current()
	if err != nil {
		return 0
	}
	res, ok := h.Poll()
	if !ok {
		fmt.Fprintln(sh.out, "loading")
		return 0
	}
	if res.Err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", res.Err)
		return 0
	}
	img := res.Value
	fmt.Fprintf(sh.out, "%dx%d, %d KiB decoded\n", img.Width, img.Height, img.ByteSize()/1024)
	if img.IsAnimated() {
		tm := img.Timing()
		fmt.Fprintf(sh.out, "%d frames, %v, %.1f fps (min %.1f, max %.1f, steady %v)\n",
			tm.Frames, tm.Duration, tm.FPSMean, tm.FPSMin, tm.FPSMax, tm.Steady)
	}
	return 0
}

func (sh *shell) cmdStats(_ context.Context, _ []string) int {
	st := sh.session.Stats()
	fmt.Fprintf(sh.out, "entries:   %d (current %d)\n", st.Entries, st.Current+1)
	fmt.Fprintf(sh.out, "cached:    %s\n", strings.Join(st.Cached, " "))
	fmt.Fprintf(sh.out, "decodes:   %d started, %d completed, %d failed, %d running\n",
		st.DecodesStarted, st.DecodesCompleted, st.DecodesFailed, st.DecodesRunning)
	fmt.Fprintf(sh.out, "window:    %d hits, %d evictions\n", st.WindowHits, st.Evictions)
	return 0
}

func (sh *shell) cmdHelp(_ context.Context, _ []string) int {
	for _, name := range sh.verbs() {
		fmt.Fprintf(sh.out, "  %s\n", sh.commands[name].Usage)
	}
	return 0
}

func (sh *shell) cmdPlay(ctx context.Context, args []string) int {
	interval := sh.cfg.Slideshow.Interval()
	if len(args) == 1 {
		secs, err := strconv.ParseFloat(args[0], 64)
		if err != nil || secs <= 0 {
			fmt.Fprintf(sh.out, "play: invalid interval %q\n", args[0])
			return -1
		}
		interval = time.Duration(secs * float64(time.Second))
	}
	if _, err := sh.session.Current(); err != nil {
		fmt.Fprintf(sh.out, "%v\n", err)
		return -1
	}

	sh.stopSlideshow()

	showCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	sh.showMu.Lock()
	sh.showStop, sh.showDone = cancel, done
	sh.showMu.Unlock()

	go func() {
		defer close(done)
		sh.slideshow(showCtx, interval)
	}()
	return 0
}

func (sh *shell) cmdStop(_ context.Context, _ []string) int {
	if !sh.stopSlideshow() {
		fmt.Fprintln(sh.out, "no slideshow running")
	}
	return 0
}

// slideshow advances every interval until the last entry, a failed decode
// or ctx is done.
func (sh *shell) slideshow(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Debug("slideshow started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		h, err := sh.session.Next()
		if err != nil {
			fmt.Fprintln(sh.out, "slideshow finished")
			return
		}
		if sh.show(ctx, h) != 0 {
			if ctx.Err() == nil {
				fmt.Fprintln(sh.out, "slideshow stopped")
			}
			return
		}
	}
}

// stopSlideshow cancels a running slideshow and waits for it. It reports
// whether one was running.
func (sh *shell) stopSlideshow() bool {
	sh.showMu.Lock()
	stop, done := sh.showStop, sh.showDone
	sh.showStop, sh.showDone = nil, nil
	sh.showMu.Unlock()

	if stop == nil {
		return false
	}
	stop()
	<-done
	return true
}
