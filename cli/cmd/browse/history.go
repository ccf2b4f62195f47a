package browse

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory     = "browse_history.utf8"
	historyFileMode = 0o600
)

// HistoryPath returns the history file kept in dir, or the empty string if
// dir is empty.
func HistoryPath(dir string) string {
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, baseHistory)
}

// Entry is one history line and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

var modePrefix = map[inputMode]string{
	modePath: "P:",
	modeCtrl: "C:",
}

func (e Entry) encode() string { return modePrefix[e.Mode] + e.Line }

func decodeEntry(line string) Entry {
	for mode, prefix := range modePrefix {
		if s, ok := strings.CutPrefix(line, prefix); ok {
			return Entry{Line: s, Mode: mode}
		}
	}

	return Entry{Line: line, Mode: modePath}
}

// History is the input history of a browse session, persisted to a file.
// A History with an empty path is kept in memory only.
type History struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewHistory creates a History persisted at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file. A
// missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, decodeEntry(line))
	}

	return scanner.Err()
}

// Add appends line entered in mode, moving an earlier identical entry to the
// end instead of repeating it.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e := Entry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	i := slices.Index(h.entries, e)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, e)

	if h.path == "" {
		return nil
	}

	if i >= 0 {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.encode() + "\n")

	return err
}

// Entry returns entry i, oldest first.
func (h *History) Entry(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewrite must be called with h.mu held.
func (h *History) rewrite() error {
	var sb strings.Builder

	for _, e := range h.entries {
		sb.WriteString(e.encode() + "\n")
	}

	return os.WriteFile(h.path, []byte(sb.String()), historyFileMode)
}
