package session

import "strings"

// CategorySet is the mutable vocabulary of one kind: an ordered set that
// preserves insertion order and rejects duplicates (exact string match).
type CategorySet struct {
	items []string
}

// NewCategorySet seeds a set, dropping blank and duplicate entries while
// keeping first-seen order.
func NewCategorySet(seed []string) *CategorySet {
	s := &CategorySet{}
	for _, v := range seed {
		s.Add(v)
	}
	return s
}

// Add trims the name and appends it. It reports the stored name and whether
// anything changed; blank or already-present names change nothing.
func (s *CategorySet) Add(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || s.Contains(trimmed) {
		return "", false
	}
	s.items = append(s.items, trimmed)
	return trimmed, true
}

func (s *CategorySet) Contains(name string) bool {
	for _, v := range s.items {
		if v == name {
			return true
		}
	}
	return false
}

// Items returns a copy of the vocabulary in insertion order.
func (s *CategorySet) Items() []string {
	return append([]string(nil), s.items...)
}

// First returns the first category, or "" for an empty set.
func (s *CategorySet) First() string {
	if len(s.items) == 0 {
		return ""
	}
	return s.items[0]
}

func (s *CategorySet) Len() int {
	return len(s.items)
}
