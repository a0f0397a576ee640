package console

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// terminal.go queries terminal geometry for output sinks.

// FallbackWidth is used whenever the column count cannot be determined.
const FallbackWidth = 80

// Width returns the column count of the terminal behind w. Writers that are
// not terminals fall back to the first standard stream attached to one, and
// then to FallbackWidth.
func Width(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if cols, ok := fileWidth(f); ok {
			return cols
		}
	}
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if cols, ok := fileWidth(f); ok {
			return cols
		}
	}
	return FallbackWidth
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fileWidth(f *os.File) (int, bool) {
	if f == nil || !IsTerminal(f) {
		return 0, false
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return 0, false
	}
	return cols, true
}
