package fs

import (
	"os"
	"path/filepath"
	"syscall"
)

type realFS struct{}

func RealFS() FS {
	return &realFS{}
}

func (*realFS) ReadFile(path string) (string, error, error) {
	buffer, originalError := os.ReadFile(path)
	if originalError == nil {
		return string(buffer), nil, nil
	}

	// Unwrap to get the underlying error
	err := originalError
	if pathErr, ok := err.(*os.PathError); ok {
		err = pathErr.Unwrap()
	}

	// "acquire('dir/file.lua')" where "dir" is a file reports ENOTDIR, but
	// callers only care that there's no such file
	if err == syscall.ENOTDIR {
		err = syscall.ENOENT
	}
	return "", err, originalError
}

func (*realFS) WriteFile(path string, contents []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, contents, 0644)
}

func (*realFS) ModKey(path string) (ModKey, error) {
	return modKey(path)
}
