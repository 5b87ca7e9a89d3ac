package model

// Store holds the current flag colors and whether the user has edited them.
//
// The dirty flag starts false and flips on the first user-driven mutation.
// Until then the shareable fragment is left alone, so a fragment the page
// was opened with isn't rewritten before anyone touches the flag.
//
// Store is not safe for concurrent use; the editor controller serializes access.
type Store struct {
	colors ColorList
	dirty  bool
}

// NewStore creates an empty, clean store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the list without marking the store dirty. Used at initialization.
func (s *Store) Set(colors ColorList) {
	s.colors = colors.Clone()
}

// Colors returns the current list. Callers may keep it; later edits produce new lists.
func (s *Store) Colors() ColorList {
	return s.colors
}

// Len returns the number of stripes.
func (s *Store) Len() int {
	return len(s.colors)
}

// Dirty reports whether the user has changed the list since initialization.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Append adds c at the end.
func (s *Store) Append(c Color) {
	s.colors = s.colors.Append(c)
	s.dirty = true
}

// RemoveAt drops the color at index. Panics if index is out of range.
func (s *Store) RemoveAt(index int) {
	s.colors = s.colors.RemoveAt(index)
	s.dirty = true
}

// ReplaceAt swaps the color at index. Panics if index is out of range.
func (s *Store) ReplaceAt(index int, c Color) {
	s.colors = s.colors.ReplaceAt(index, c)
	s.dirty = true
}
