// Package history holds the command history of a shell session and
// persists it to newline delimited files.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// History is an ordered list of entered lines plus a marker of how many of
// them have already been appended to a history file.
type History struct {
	entries []string

	// appended is the index of the first entry not yet written out by
	// AppendFile or WriteFile.
	appended int
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Add records a line.
func (h *History) Add(line string) {
	h.entries = append(h.entries, line)
}

// Entries returns a copy of every entry, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Unsaved returns the entries added since the last append.
func (h *History) Unsaved() []string {
	return append([]string(nil), h.entries[h.appended:]...)
}

// Clear drops all entries.
func (h *History) Clear() {
	h.entries = nil
	h.appended = 0
}

// Listing formats the last n entries (all of them if n is negative or larger
// than the history) with their 1-based position in the full history.
func (h *History) Listing(n int) string {
	start := 0
	if n >= 0 && n < len(h.entries) {
		start = len(h.entries) - n
	}

	var sb strings.Builder
	for i := start; i < len(h.entries); i++ {
		fmt.Fprintf(&sb, "    %d  %s\n", i+1, h.entries[i])
	}
	return sb.String()
}

// Load reads a history file at startup. Entries from the file count as
// already saved so they aren't appended to it again.
func (h *History) Load(fs afero.Fs, path string) error {
	if err := h.ReadFile(fs, path); err != nil {
		return err
	}
	h.appended = len(h.entries)
	return nil
}

// ReadFile appends the non-blank lines of path to the history. The saved
// marker doesn't move.
func (h *History) ReadFile(fs afero.Fs, path string) error {
	fd, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.entries = append(h.entries, line)
	}

	return scanner.Err()
}

// WriteFile replaces the contents of path with the whole history.
func (h *History) WriteFile(fs afero.Fs, path string) error {
	if err := writeLines(fs, path, os.O_TRUNC, h.entries); err != nil {
		return err
	}
	h.appended = len(h.entries)
	return nil
}

// AppendFile appends the entries added since the last append to path and
// moves the saved marker to the end. Nothing is written if there's nothing
// new.
func (h *History) AppendFile(fs afero.Fs, path string) error {
	unsaved := h.entries[h.appended:]
	if len(unsaved) == 0 {
		return nil
	}

	if err := writeLines(fs, path, os.O_APPEND, unsaved); err != nil {
		return err
	}
	h.appended = len(h.entries)
	return nil
}

func writeLines(fs afero.Fs, path string, mode int, lines []string) error {
	fd, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|mode, 0600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(fd)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}

	if err := w.Flush(); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
