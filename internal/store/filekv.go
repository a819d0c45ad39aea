package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

// FileKV is a KV backed by one file per key under a base directory.
// Keys are content-addressed: the file name is the SHA-256 of the key with
// a two-character prefix directory, so arbitrary key strings stay safe on
// every filesystem.
type FileKV struct {
	baseDir string
}

// NewFileKV creates a FileKV rooted at baseDir, creating it if needed.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileKV{baseDir: baseDir}, nil
}

func (f *FileKV) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(f.baseDir, name[:2], name)
}

// Get returns the value for key.
func (f *FileKV) Get(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores value under key with an atomic temp-file-then-rename write.
// A full filesystem surfaces as STORAGE_QUOTA_EXCEEDED.
func (f *FileKV) Set(key, value string) error {
	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create prefix directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return wrapWriteError(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return wrapWriteError(err)
	}
	return nil
}

// Delete removes key and opportunistically its empty prefix directory.
func (f *FileKV) Delete(key string) {
	path := f.path(key)
	_ = os.Remove(path)
	_ = os.Remove(filepath.Dir(path))
}

func wrapWriteError(err error) error {
	if isNoSpace(err) {
		return errors.Wrap(errors.ErrStorageQuota, "filesystem is full", err)
	}
	return fmt.Errorf("failed to write value: %w", err)
}

func isNoSpace(err error) bool {
	for e := err; e != nil; {
		if errno, ok := e.(syscall.Errno); ok {
			return errno == syscall.ENOSPC || errno == syscall.EDQUOT
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}
