package internal

import (
	"io/fs"
	"path"
	"sort"

	"github.com/e7canasta/peppermint/naturalkey"
)

// Entry is one eligible file of the opened folder.
//
// Entries are immutable once the directory listing is taken.
type Entry struct {
	// Name is the file name inside the folder
	Name string
	// Key is the natural key of Name
	Key string
}

// newEntry derives the natural key of name.
func newEntry(name string) Entry {
	return Entry{Name: name, Key: naturalkey.Munge(name)}
}

// ID is the cache key of the entry: the natural key, then the raw name.
// Names whose natural keys collide ("img2", "img002") stay distinct while
// natural order is preserved, since 0x00 sorts before any name byte.
func (e Entry) ID() string {
	return e.Key + "\x00" + e.Name
}

// listEntries reads the top level of fsys, keeps regular files whose
// extension is in allowed (exact match, case as listed) and sorts them by
// natural key.
func listEntries(fsys fs.FS, allowed map[string]struct{}) ([]Entry, error) {
	dirents, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() || !d.Type().IsRegular() {
			continue
		}
		if _, ok := allowed[path.Ext(d.Name())]; !ok {
			continue
		}
		entries = append(entries, newEntry(d.Name()))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID() < entries[j].ID()
	})
	return entries, nil
}
