//go:build darwin || freebsd || linux

package fs

import (
	"time"

	"golang.org/x/sys/unix"
)

func modKey(path string) (ModKey, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return ModKey{}, err
	}
	mtime := stat.Mtim

	// A zero modification time means the file system doesn't track it
	if mtime.Sec == 0 && mtime.Nsec == 0 {
		return ModKey{}, modKeyUnusable
	}

	now, err := unix.TimeToTimespec(time.Now())
	if err != nil {
		return ModKey{}, err
	}
	if sec := mtime.Sec + modKeySafetyGap; sec > now.Sec || (sec == now.Sec && mtime.Nsec > now.Nsec) {
		return ModKey{}, modKeyUnusable
	}

	return ModKey{
		inode:     uint64(stat.Ino),
		size:      stat.Size,
		mtimeSec:  int64(mtime.Sec),
		mtimeNsec: int64(mtime.Nsec),
		mode:      uint32(stat.Mode),
		uid:       stat.Uid,
	}, nil
}
