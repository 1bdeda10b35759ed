package fs

import (
	"errors"
	"syscall"
)

// Everything the bundler does with files goes through this interface so that
// tests can run against an in-memory file system instead of the real one.
type FS interface {
	// The first error is canonicalized so that callers only need to compare it
	// against "syscall.ENOENT" to detect a missing file. The second error is
	// the one that was actually returned, which is more useful in messages.
	ReadFile(path string) (contents string, canonicalError error, originalError error)

	// Missing parent directories are created
	WriteFile(path string, contents []byte) error

	// This is a key made from the information returned by "stat". It can be
	// compared to a previous key to detect a change to the file without
	// reading its contents.
	ModKey(path string) (ModKey, error)
}

type ModKey struct {
	// What gets filled in here is OS-dependent
	inode     uint64
	size      int64
	mtimeSec  int64
	mtimeNsec int64
	mode      uint32
	uid       uint32
}

// Some file systems have a time resolution of only a few seconds. If a file
// is written twice within that window, the second write won't change the key.
// Keys for files that were modified that recently are therefore not used.
const modKeySafetyGap = 3 // In seconds

var modKeyUnusable = errors.New("The modification key is unusable")

func IsNotExist(canonicalError error) bool {
	return canonicalError == syscall.ENOENT
}
