package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyVerified copies src to dst through an AtomicFile, re-reads the copy
// before committing it, and returns the SHA-256 of the content. dst is left
// untouched when the sizes or digests disagree.
func CopyVerified(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := CreateAtomic(dst)
	if err != nil {
		return "", err
	}
	defer func() { _ = out.Abort() }()

	want := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, want))
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.tmp.Sync(); err != nil {
		return "", err
	}

	got := sha256.New()
	reread, err := io.Copy(got, io.NewSectionReader(out.tmp, 0, written))
	if err != nil {
		return "", fmt.Errorf("verify copy: %w", err)
	}
	info, err := in.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() != written || reread != written {
		return "", fmt.Errorf("copy size mismatch: source %d bytes, copied %d, read back %d", info.Size(), written, reread)
	}
	sum := want.Sum(nil)
	if !bytes.Equal(sum, got.Sum(nil)) {
		return "", errors.New("copy hash mismatch: file corrupted during copy")
	}
	if err := out.Commit(); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// AtomicFile buffers writes in a temporary file beside the destination and
// only moves it into place on Commit. Readers never observe a partial file.
type AtomicFile struct {
	path string
	tmp  *os.File
	done bool
}

// CreateAtomic opens a temporary file in the directory of path.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.partial")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{path: path, tmp: tmp}, nil
}

// Write implements io.Writer.
func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Path returns the final destination.
func (f *AtomicFile) Path() string { return f.path }

// Commit syncs the temporary file and renames it over the destination.
func (f *AtomicFile) Commit() error {
	if f.done {
		return errors.New("atomic file already finished")
	}
	f.done = true
	if err := f.tmp.Sync(); err != nil {
		_ = f.tmp.Close()
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Chmod(f.tmp.Name(), 0o644); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort discards the temporary file. Calling it after Commit is a no-op.
func (f *AtomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	_ = f.tmp.Close()
	return os.Remove(f.tmp.Name())
}
