package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
)

// WriteFileAtomic replaces path with data through a temporary file in the
// same directory, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return WrapWriteError(path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return WrapWriteError(path, err)
	}
	if err = tmp.Close(); err != nil {
		return WrapWriteError(path, err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return WrapWriteError(path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return WrapWriteError(path, err)
	}
	return nil
}

// WriteFileIfChanged writes data atomically unless path already holds it.
// It reports whether the file was written.
func WriteFileIfChanged(path string, data []byte, perm os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, data):
		return false, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, WrapReadError(path, err)
	}

	if err := WriteFileAtomic(path, data, perm); err != nil {
		return false, err
	}
	return true, nil
}
