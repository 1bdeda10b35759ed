//go:build !darwin && !freebsd && !linux

package fs

import (
	"os"
	"time"
)

func modKey(path string) (ModKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ModKey{}, err
	}
	mtime := info.ModTime()

	// A zero modification time means the file system doesn't track it
	if mtime.IsZero() || mtime.Unix() == 0 {
		return ModKey{}, modKeyUnusable
	}

	if mtime.Add(modKeySafetyGap * time.Second).After(time.Now()) {
		return ModKey{}, modKeyUnusable
	}

	return ModKey{
		size:      info.Size(),
		mtimeSec:  mtime.Unix(),
		mtimeNsec: int64(mtime.Nanosecond()),
		mode:      uint32(info.Mode()),
	}, nil
}
