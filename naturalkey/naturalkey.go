// Package naturalkey turns file names into keys whose plain byte ordering
// matches natural ordering: "img2.png" sorts before "img10.png".
package naturalkey

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Width is the fixed width every digit run is left-padded to.
// Runs longer than Width are kept as-is.
const Width = 20

// Munge splits name into maximal digit and non-digit runs, pads every digit
// run with '0' to Width characters and concatenates the result.
//
// The name is NFC-normalised first so that composed and decomposed spellings
// of the same file name produce the same key.
func Munge(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name) + Width)

	start := 0
	inDigits := false
	for i := 0; i < len(name); i++ {
		d := isDigit(name[i])
		if i == 0 {
			inDigits = d
			continue
		}
		if d != inDigits {
			writeRun(&b, name[start:i], inDigits)
			start = i
			inDigits = d
		}
	}
	if start < len(name) {
		writeRun(&b, name[start:], inDigits)
	}
	return b.String()
}

// Compare orders two names naturally by comparing their keys.
func Compare(a, b string) int {
	return strings.Compare(Munge(a), Munge(b))
}

// Less reports whether a sorts before b in natural order.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func writeRun(b *strings.Builder, run string, digits bool) {
	if digits && len(run) < Width {
		b.WriteString(strings.Repeat("0", Width-len(run)))
	}
	b.WriteString(run)
}

// ASCII digits only; other Unicode digits pass through as text.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
