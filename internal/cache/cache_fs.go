package cache

import (
	"sync"

	"github.com/luabundle/luabundle/internal/fs"
)

// This cache uses information from the "stat" syscall to try to avoid re-
// reading files from the file system if the file hasn't changed. The
// assumption is reading the file metadata is faster than reading the file
// contents.

type FSCache struct {
	entries map[string]*fsEntry
	mutex   sync.Mutex
}

type fsEntry struct {
	contents       string
	modKey         fs.ModKey
	isModKeyUsable bool
}

func (c *FSCache) ReadFile(fs fs.FS, path string) (contents string, canonicalError error, originalError error) {
	entry := func() *fsEntry {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		return c.entries[path]
	}()

	// Cache hit: the file still has the same modification key
	modKey, modKeyErr := fs.ModKey(path)
	if entry != nil && entry.isModKeyUsable && modKeyErr == nil && entry.modKey == modKey {
		return entry.contents, nil, nil
	}

	// Cache miss: read the file
	contents, canonicalError, originalError = fs.ReadFile(path)
	if canonicalError != nil {
		return "", canonicalError, originalError
	}

	// Save for next time
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[path] = &fsEntry{
		contents:       contents,
		modKey:         modKey,
		isModKeyUsable: modKeyErr == nil,
	}
	return contents, nil, nil
}
