// Package archive creates and unpacks zip archives with an external archiver
// and moves the results into place.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/kingrea/coursepack/internal/logging"
	"github.com/kingrea/coursepack/internal/toolrun"
)

// Builder wraps the archiver commands. Every operation takes the directory it
// works in explicitly.
type Builder struct {
	runner toolrun.Runner
	zip    string
	unzip  string
	log    *logging.Logger
}

// New returns a builder using the named zip and unzip programs.
func New(runner toolrun.Runner, zip, unzip string, log *logging.Logger) *Builder {
	if zip == "" {
		zip = "zip"
	}
	if unzip == "" {
		unzip = "unzip"
	}
	return &Builder{runner: runner, zip: zip, unzip: unzip, log: log}
}

// BuildZip archives sourceDir (relative to workingDir) recursively into
// workingDir/archiveName. Symbolic links are followed, so linked libraries
// end up as real files inside the archive.
func (b *Builder) BuildZip(ctx context.Context, sourceDir, archiveName, workingDir string) error {
	if _, err := os.Stat(filepath.Join(workingDir, sourceDir)); err != nil {
		return fmt.Errorf("archive: source %s: %w", sourceDir, err)
	}
	if _, err := toolrun.Check(ctx, b.runner, workingDir, b.zip, "-r", archiveName, sourceDir); err != nil {
		return fmt.Errorf("archive: zip %s: %w", archiveName, err)
	}
	if _, err := os.Stat(filepath.Join(workingDir, archiveName)); err != nil {
		return fmt.Errorf("archive: %s was not created: %w", archiveName, err)
	}
	return nil
}

// ExtractZip unpacks workingDir/archiveName into workingDir, overwriting
// existing files.
func (b *Builder) ExtractZip(ctx context.Context, archiveName, workingDir string) error {
	if _, err := os.Stat(filepath.Join(workingDir, archiveName)); err != nil {
		return fmt.Errorf("archive: %s: %w", archiveName, err)
	}
	if _, err := toolrun.Check(ctx, b.runner, workingDir, b.unzip, "-o", archiveName); err != nil {
		return fmt.Errorf("archive: unzip %s: %w", archiveName, err)
	}
	return nil
}

// Relocate moves path into destDir, replacing any file of the same name.
// It returns the new path.
func (b *Builder) Relocate(path, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(path))
	b.log.Printf("mv %s %s", path, dest)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("archive: ensure %s: %w", destDir, err)
	}
	if err := os.Rename(path, dest); err == nil {
		return dest, nil
	} else if !isCrossDevice(err) {
		return "", fmt.Errorf("archive: move %s: %w", path, err)
	}
	if err := copyFile(path, dest); err != nil {
		return "", fmt.Errorf("archive: copy %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("archive: remove %s after copy: %w", path, err)
	}
	return dest, nil
}

// RemoveIfExists deletes a file or directory tree. A missing path is fine.
func RemoveIfExists(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("archive: remove %s: %w", path, err)
	}
	return nil
}

// Rename moves a directory within the same filesystem, refusing to clobber an
// existing destination.
func Rename(from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("archive: rename %s: %s already exists", from, to)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("archive: rename %s: %w", from, err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// CopyFile copies src to dst, replacing dst.
func CopyFile(src, dst string) error {
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	tmp := dst + ".partial"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
