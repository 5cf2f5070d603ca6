package mocks

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/omertuc/bud/pkg/ports"
)

// FileSystem is an in-memory mock implementation of ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	WriteFileFunc func(path string, data []byte) error
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *FileSystem) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[p]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", p)
}

func (m *FileSystem) WriteFile(p string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(p, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = data
	return nil
}

func (m *FileSystem) MkdirAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[p] = true
	return nil
}

func (m *FileSystem) Exists(p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[p]; ok {
		return true, nil
	}
	return m.dirs[p], nil
}

func (m *FileSystem) Size(p string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[p]; ok {
		return int64(len(data)), nil
	}
	return 0, fmt.Errorf("file not found: %s", p)
}

func (m *FileSystem) Glob(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matches []string
	for p := range m.files {
		ok, err := path.Match(filepath.ToSlash(pattern), filepath.ToSlash(p))
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, p)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (m *FileSystem) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok && !m.dirs[p] {
		return fmt.Errorf("file not found: %s", p)
	}
	delete(m.files, p)
	delete(m.dirs, p)
	return nil
}

// Files returns the paths of all written files, sorted.
func (m *FileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var _ ports.FileSystem = (*FileSystem)(nil)
