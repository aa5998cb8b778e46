package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e7canasta/peppermint/bookmarks"
	"github.com/e7canasta/peppermint/gallery"
	"github.com/e7canasta/peppermint/internal/config"
	"github.com/e7canasta/peppermint/internal/imagetest"
)

// syncBuffer is written by the slideshow goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func setupShell(t *testing.T) (*shell, *syncBuffer, string) {
	t.Helper()

	dir := t.TempDir()
	png := imagetest.PNG(t, 3, 2, color.NRGBA{G: 0xff, A: 0xff})
	anim := imagetest.GIF(t, 3, 2,
		imagetest.Solid(image.Rect(0, 0, 3, 2), imagetest.Red, 10, 1),
		imagetest.Solid(image.Rect(0, 0, 1, 1), imagetest.Green, 10, 1),
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1.png"), png, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p2.gif"), anim, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p10.png"), png, 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Bookmarks.Path = filepath.Join(t.TempDir(), "bookmarks.msgpack")

	marks, err := bookmarks.Open(cfg.Bookmarks.Path)
	require.NoError(t, err)

	session := gallery.New(sessionConfig(cfg))
	out := &syncBuffer{}
	sh := newShell(cfg, session, marks, out)
	t.Cleanup(func() {
		sh.stopSlideshow()
		_ = session.Close()
	})
	return sh, out, dir
}

func TestShellNavigation(t *testing.T) {
	sh, out, dir := setupShell(t)
	ctx := context.Background()

	require.Equal(t, 0, sh.exec(ctx, "open "+dir))
	assert.Contains(t, out.String(), "[1/3] p1.png 3x2")

	out.Reset()
	require.Equal(t, 0, sh.exec(ctx, "next"))
	assert.Contains(t, out.String(), "[2/3] p2.gif 3x2 2 frames 200ms")

	out.Reset()
	require.Equal(t, 0, sh.exec(ctx, "info"))
	assert.Contains(t, out.String(), "2 frames, 200ms, 10.0 fps")

	out.Reset()
	require.Equal(t, 0, sh.exec(ctx, "last"))
	assert.Contains(t, out.String(), "[3/3] p10.png")

	out.Reset()
	assert.Equal(t, -1, sh.exec(ctx, "next"))
	assert.Contains(t, out.String(), "nothing to show")

	out.Reset()
	require.Equal(t, 0, sh.exec(ctx, "info"))
	assert.Contains(t, out.String(), "p10.png (3 of 3)")

	out.Reset()
	require.Equal(t, 0, sh.exec(ctx, "stats"))
	assert.Contains(t, out.String(), "entries:   3")
}

func TestShellRecordsBookmarks(t *testing.T) {
	sh, _, dir := setupShell(t)
	ctx := context.Background()

	require.Equal(t, 0, sh.exec(ctx, "open "+dir))
	require.Equal(t, 0, sh.exec(ctx, "next"))

	folder, file, ok := sh.marks.Last()
	require.True(t, ok)
	assert.Equal(t, dir, folder)
	assert.Equal(t, "p2.gif", file)

	// Reopening the folder returns to the recorded file.
	require.Equal(t, 0, sh.exec(ctx, "first"))
	require.Equal(t, 0, sh.exec(ctx, "last"))
	require.Equal(t, 0, sh.exec(ctx, "open "+dir))
	pos, err := sh.session.Position()
	require.NoError(t, err)
	assert.Equal(t, "p10.png", pos.Name)
}

func TestShellResume(t *testing.T) {
	sh, out, dir := setupShell(t)
	require.NoError(t, sh.marks.Touch(dir, "p2.gif"))

	sh.resume(context.Background())
	assert.Contains(t, out.String(), "[2/3] p2.gif")
}

func TestShellCommandErrors(t *testing.T) {
	sh, out, _ := setupShell(t)
	ctx := context.Background()

	assert.Equal(t, 0, sh.exec(ctx, "   "))
	assert.Equal(t, -1, sh.exec(ctx, "frobnicate"))
	assert.Contains(t, out.String(), "unrecognized command: frobnicate")

	out.Reset()
	assert.Equal(t, -1, sh.exec(ctx, "open"))
	assert.Contains(t, out.String(), "usage: open <folder> [file]")

	assert.Equal(t, -1, sh.exec(ctx, "next"))
	assert.Equal(t, -1, sh.exec(ctx, "play 0"))
	assert.Equal(t, exitCode, sh.exec(ctx, "quit"))
}

func TestShellSlideshowRunsToTheEnd(t *testing.T) {
	sh, out, dir := setupShell(t)
	ctx := context.Background()

	require.Equal(t, 0, sh.exec(ctx, "open "+dir))
	require.Equal(t, 0, sh.exec(ctx, "play 0.01"))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("slideshow finished"))
	}, 2*time.Second, 5*time.Millisecond)

	pos, err := sh.session.Position()
	require.NoError(t, err)
	assert.Equal(t, 3, pos.Index)
}

func TestShellStopSlideshow(t *testing.T) {
	sh, out, dir := setupShell(t)
	ctx := context.Background()

	require.Equal(t, 0, sh.exec(ctx, "open "+dir))
	require.Equal(t, 0, sh.exec(ctx, "play 60"))
	require.Equal(t, 0, sh.exec(ctx, "stop"))

	out.Reset()
	require.Equal(t, 0, sh.exec(ctx, "stop"))
	assert.Contains(t, out.String(), "no slideshow running")
}
