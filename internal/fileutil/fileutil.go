package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// CopyFile copies src to dst through a hidden partial file in dst's
// directory, so dst either holds the whole file or does not exist. Permission
// bits and modification time are carried over.
func CopyFile(src, dst string) error {
	return place(src, dst, false)
}

// MoveFile renames src to dst. When the rename crosses filesystems the file
// is copied, re-read to verify its checksum, and the source removed.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := place(src, dst, true); err != nil {
		return fmt.Errorf("cross-device move: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after move: %w", err)
	}
	return nil
}

func place(src, dst string, verify bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".partial-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var reader io.Reader = in
	var sum hash.Hash
	if verify {
		sum = sha256.New()
		reader = io.TeeReader(in, sum)
	}
	written, err := io.Copy(tmp, reader)
	if err != nil {
		return err
	}
	if written != info.Size() {
		return fmt.Errorf("short copy: %d of %d bytes", written, info.Size())
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if verify {
		if err := matchChecksum(tmp.Name(), sum.Sum(nil)); err != nil {
			return err
		}
	}
	if err := os.Chtimes(tmp.Name(), info.ModTime(), info.ModTime()); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return err
	}
	committed = true
	return nil
}

func matchChecksum(path string, want []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	got := sha256.New()
	if _, err := io.Copy(got, f); err != nil {
		return err
	}
	if !bytes.Equal(got.Sum(nil), want) {
		return errors.New("checksum mismatch after copy")
	}
	return nil
}
