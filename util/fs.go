package util

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// test seam for OS level failures
var renameFunc = os.Rename

// ErrRenameCollision is returned whenever the target of a rename already exists.
var ErrRenameCollision = errors.New("rename target already exists")

// RenameError wraps an OS level rename failure.
type RenameError struct {
	Src string
	Dst string
	Err error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("cannot rename %q to %q: %v", e.Src, e.Dst, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

// Rename moves src to dst, refusing to overwrite anything already living at dst.
// Renaming a path onto itself is a no-op.
func Rename(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	if _, err := os.Lstat(dst); err == nil {
		return &RenameError{Src: src, Dst: dst, Err: ErrRenameCollision}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &RenameError{Src: src, Dst: dst, Err: err}
	}
	if err := renameFunc(src, dst); err != nil {
		return &RenameError{Src: src, Dst: dst, Err: err}
	}
	return nil
}

// CopyFile streams src to dst and flushes dst to disk before returning.
func CopyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	return out.Close()
}

// CopyTree recursively copies the src directory into dst, which must not exist yet.
// Entries for which skip returns true are left out (skip may be nil).
// Symbolic links are not followed.
func CopyTree(src, dst string, skip func(rel string, d fs.DirEntry) bool) error {
	src = filepath.Clean(src)
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("copy destination %q already exists", dst)
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && skip != nil && skip(rel, d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return CopyFile(path, target, info.Mode())
		default:
			return nil
		}
	})
}

// Within reports whether path is parent itself or lies somewhere below it.
// Both are expected to be absolute and clean.
func Within(path, parent string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// WriteFileAtomic writes data into dir/name through a temporary
// file in the same directory, replacing any previous content.
func WriteFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := renameFunc(tmpName, filepath.Join(dir, name)); err != nil {
		return err
	}

	ErrSuppress(syncDir(dir))
	return nil
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
