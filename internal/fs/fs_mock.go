package fs

// This is a mock implementation of the "fs" module for use with tests. It does
// not actually read from the file system. Instead, it reads from a pre-specified
// map of file paths to files. Paths are cleaned before lookup so "./a/b.lua"
// and "a/b.lua" name the same file.

import (
	"errors"
	"path"
	"sort"
	"sync"
	"syscall"
)

type MockFileSystem struct {
	files map[string]string
	reads map[string]int
	mutex sync.Mutex
}

func MockFS(input map[string]string) *MockFileSystem {
	files := make(map[string]string)
	for k, v := range input {
		files[path.Clean(k)] = v
	}
	return &MockFileSystem{files: files, reads: make(map[string]int)}
}

func (fs *MockFileSystem) ReadFile(p string) (string, error, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	p = path.Clean(p)
	fs.reads[p]++
	if contents, ok := fs.files[p]; ok {
		return contents, nil, nil
	}
	return "", syscall.ENOENT, syscall.ENOENT
}

func (fs *MockFileSystem) WriteFile(p string, contents []byte) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.files[path.Clean(p)] = string(contents)
	return nil
}

func (*MockFileSystem) ModKey(path string) (ModKey, error) {
	return ModKey{}, errors.New("This is not available during tests")
}

// ReadCount returns how many times a file was read, including failed reads
func (fs *MockFileSystem) ReadCount(p string) int {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	return fs.reads[path.Clean(p)]
}

// Contents returns what is currently stored for a path, including anything
// written by the code under test
func (fs *MockFileSystem) Contents(p string) (string, bool) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	contents, ok := fs.files[path.Clean(p)]
	return contents, ok
}

func (fs *MockFileSystem) Paths() []string {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
