package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ShareableState is where the shareable fragment lives. In the browser it is
// the page URL's #fragment; the controller only ever sees this port.
// Read happens once, at initialization. Writes are last-write-wins.
type ShareableState interface {
	// Read returns the current fragment (without '#') and whether one is present.
	Read() (string, bool)
	// Write replaces the fragment.
	Write(fragment string) error
}

// MemoryState keeps the fragment in memory. Used by the web server, which
// receives the page's fragment on load and hands the rewritten one back.
type MemoryState struct {
	mu       sync.Mutex
	fragment string
}

// NewMemoryState creates a port holding fragment (empty means none).
func NewMemoryState(fragment string) *MemoryState {
	return &MemoryState{fragment: strings.TrimPrefix(fragment, "#")}
}

func (s *MemoryState) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment, s.fragment != ""
}

func (s *MemoryState) Write(fragment string) error {
	s.mu.Lock()
	s.fragment = fragment
	s.mu.Unlock()
	return nil
}

// FileState keeps the fragment in a file so the terminal editor can resume
// a flag across runs.
type FileState struct {
	path string
}

// NewFileState creates a port backed by the file at path. The file need not exist.
func NewFileState(path string) *FileState {
	return &FileState{path: path}
}

func (s *FileState) Read() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	fragment := strings.TrimPrefix(strings.TrimSpace(string(data)), "#")
	return fragment, fragment != ""
}

func (s *FileState) Write(fragment string) error {
	if s.path == "" {
		return errors.New("no state file configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(fragment+"\n"), 0644)
}
