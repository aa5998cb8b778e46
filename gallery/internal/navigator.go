package internal

// navigator is the position state machine over the sorted entries.
//
// current is always in [0, len(entries)) when entries is non-empty. An empty
// navigator is valid; every move on it reports false.
type navigator struct {
	folder  string
	entries []Entry
	current int
}

// reset replaces the listing wholesale. current is the index of preferred
// when present, else 0.
func (n *navigator) reset(folder string, entries []Entry, preferred string) {
	n.folder = folder
	n.entries = entries
	n.current = 0
	if preferred == "" {
		return
	}
	for i, e := range entries {
		if e.Name == preferred {
			n.current = i
			return
		}
	}
}

func (n *navigator) empty() bool { return len(n.entries) == 0 }

func (n *navigator) entry() (Entry, bool) {
	if n.empty() {
		return Entry{}, false
	}
	return n.entries[n.current], true
}

// next moves forward one entry. At the last entry it does not wrap.
func (n *navigator) next() bool {
	if n.empty() || n.current+1 >= len(n.entries) {
		return false
	}
	n.current++
	return true
}

// prev moves back one entry. At the first entry it does not wrap.
func (n *navigator) prev() bool {
	if n.empty() || n.current-1 < 0 {
		return false
	}
	n.current--
	return true
}

func (n *navigator) first() bool {
	if n.empty() {
		return false
	}
	n.current = 0
	return true
}

func (n *navigator) last() bool {
	if n.empty() {
		return false
	}
	n.current = len(n.entries) - 1
	return true
}
