package shell

import "strings"

// History stores executed command lines in insertion order.
type History struct {
	entries []string
	limit   int
}

// NewHistory returns a history retaining at most limit entries; zero
// means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add records one command line. Blank lines are not recorded.
func (h *History) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	h.entries = append(h.entries, line)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// At returns the entry at the 1-based index.
func (h *History) At(index int) (string, bool) {
	if index < 1 || index > len(h.entries) {
		return "", false
	}
	return h.entries[index-1], true
}

// LastWithPrefix returns the most recent entry starting with prefix.
func (h *History) LastWithPrefix(prefix string) (string, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], prefix) {
			return h.entries[i], true
		}
	}
	return "", false
}

// All returns the entries in insertion order.
func (h *History) All() []string {
	return h.entries
}

// Len reports the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear deletes all entries.
func (h *History) Clear() {
	h.entries = nil
}
