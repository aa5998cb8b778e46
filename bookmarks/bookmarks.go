// Package bookmarks persists where a gallery host left off: the last
// opened folder, the last viewed file, and the last file viewed in every
// folder ever opened.
//
// The state is a small msgpack document rewritten on every Touch.
package bookmarks

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// state is the persisted document.
type state struct {
	Folder    string            `msgpack:"folder"`
	File      string            `msgpack:"file"`
	History   map[string]string `msgpack:"history"`
	UpdatedAt time.Time         `msgpack:"updated_at"`
}

// Store is a file-backed bookmark store. Safe for concurrent use.
type Store struct {
	path string

	mu    sync.Mutex
	state state
}

// Open loads the store at path. A missing file yields an empty store; the
// file is created on the first Touch.
func Open(path string) (*Store, error) {
	s := &Store{path: path, state: state{History: make(map[string]string)}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}

	if err := msgpack.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("decode bookmarks %s: %w", path, err)
	}
	if s.state.History == nil {
		s.state.History = make(map[string]string)
	}

	slog.Debug("bookmarks loaded",
		"path", path,
		"folder", s.state.Folder,
		"folders", len(s.state.History),
	)
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Last returns the last opened folder and the file last viewed in it.
func (s *Store) Last() (folder, file string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Folder, s.state.File, s.state.Folder != ""
}

// FileIn returns the file last viewed in folder.
func (s *Store) FileIn(folder string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.state.History[folder]
	return file, ok
}

// Touch records file as viewed in folder and persists the store.
func (s *Store) Touch(folder, file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Folder = folder
	s.state.File = file
	s.state.History[folder] = file
	s.state.UpdatedAt = time.Now()

	return s.save()
}

// Forget drops folder from the history. The last bookmark is cleared too
// when it points into folder.
func (s *Store) Forget(folder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state.History, folder)
	if s.state.Folder == folder {
		s.state.Folder, s.state.File = "", ""
	}
	return s.save()
}

// save writes the state through a temporary file and rename. Caller holds mu.
func (s *Store) save() error {
	data, err := msgpack.Marshal(&s.state)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create bookmarks dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".bookmarks-*")
	if err != nil {
		return fmt.Errorf("create bookmarks temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write bookmarks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace bookmarks: %w", err)
	}
	return nil
}
