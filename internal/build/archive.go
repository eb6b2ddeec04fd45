package build

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const zipExt = ".zip"

// Build zips source into destination and returns the path it wrote.
//
// A directory source is stored with paths relative to the directory; a file
// source is stored under its base name at the archive root. If destination
// is an existing directory the archive gets a random name inside it,
// otherwise destination is the archive path, with ".zip" appended when
// missing.
func Build(source, destination string) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	target, err := ArchivePath(destination)
	if err != nil {
		return "", err
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	zw := zip.NewWriter(f)
	if info.IsDir() {
		err = addDir(zw, source, target)
	} else {
		err = addFile(zw, source, info.Name(), info)
	}
	if err == nil {
		err = zw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write archive %s: %w", target, err)
	}

	return target, nil
}

// NewName returns a random archive file name.
func NewName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + zipExt
}

// ArchivePath returns the file Build writes for destination.
func ArchivePath(destination string) (string, error) {
	info, err := os.Stat(destination)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(destination, NewName()), nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("failed to inspect destination: %w", err)
	}

	if !strings.HasSuffix(destination, zipExt) {
		destination += zipExt
	}
	return destination, nil
}

// addDir adds every regular file under root. skip is the archive being
// written, which may itself live under root.
func addDir(zw *zip.Writer, root, skip string) error {
	skip, _ = filepath.Abs(skip)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == skip {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		return addFile(zw, path, filepath.ToSlash(rel), info)
	})
}

func addFile(zw *zip.Writer, path, name string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)
	return err
}
