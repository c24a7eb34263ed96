// SPDX-License-Identifier: MPL-2.0

// Package archive is the zip container used for project packages.
//
// Entries are always named relative to the package root with forward
// slashes ("song.mmp", "resources/", "resources/kick.wav"). Directories get
// explicit entries so that readers can detect the resource directory even
// when it is empty.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	// ErrUnsafePath is returned when an entry name would escape the extraction directory.
	ErrUnsafePath = errors.New("unsafe path in archive")
	// ErrEntryExists is returned when extraction would overwrite an existing file.
	ErrEntryExists = errors.New("entry already exists")
	// ErrEntryTooLarge is returned when an entry exceeds the caller's read limit.
	ErrEntryTooLarge = errors.New("entry too large")
	// ErrNoSuchEntry is returned for an out-of-range entry index.
	ErrNoSuchEntry = errors.New("no such entry")
)

type (
	// Entry describes one member of an archive.
	Entry struct {
		// Index is the position of the entry in the central directory.
		Index int
		// Name is the slash-separated path relative to the package root.
		Name string
		// Size is the uncompressed size in bytes.
		Size uint64
		// IsDir reports whether the entry is a directory marker.
		IsDir bool
	}

	// Reader gives indexed access to the entries of an opened archive.
	Reader struct {
		path string
		zr   *zip.ReadCloser
	}
)

// Create zips the contents of sourceDir into archivePath. Entry names are
// relative to sourceDir. If archivePath lies inside sourceDir it is skipped.
// On failure the partially written archive is removed.
func Create(sourceDir, archivePath string) (createdPath string, err error) {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory: %w", err)
	}
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive path: %w", err)
	}

	info, err := os.Stat(absSource)
	if err != nil {
		return "", fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", absSource)
	}

	zipFile, err := os.Create(absArchive)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	// Runs last: closes below must complete before the file can be removed.
	defer func() {
		if err != nil {
			_ = os.Remove(absArchive)
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(absSource, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == absArchive {
			return nil
		}

		relPath, relErr := filepath.Rel(absSource, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		if relPath == "." {
			return nil
		}
		name := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, createErr := zipWriter.Create(name + "/"); createErr != nil {
				return fmt.Errorf("failed to create directory entry %s: %w", name, createErr)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			// Sockets, devices and symlinks have no place in a package.
			return nil
		}
		return addFile(zipWriter, path, name, d)
	})
	if walkErr != nil {
		return "", fmt.Errorf("failed to archive %s: %w", absSource, walkErr)
	}

	return absArchive, nil
}

func addFile(zw *zip.Writer, path, name string, d os.DirEntry) (err error) {
	fileInfo, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	header, err := zip.FileInfoHeader(fileInfo)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(writer, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Open opens the archive at path for reading.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	return &Reader{path: path, zr: zr}, nil
}

// List returns the entries of the archive at path.
func List(path string) (entries []Entry, err error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return r.Entries(), nil
}

// Close releases the underlying file.
func (r *Reader) Close() error { return r.zr.Close() }

// Entries returns every entry in central directory order.
func (r *Reader) Entries() []Entry {
	entries := make([]Entry, 0, len(r.zr.File))
	for i, f := range r.zr.File {
		entries = append(entries, Entry{
			Index: i,
			Name:  f.Name,
			Size:  f.UncompressedSize64,
			IsDir: f.FileInfo().IsDir(),
		})
	}
	return entries
}

// ReadEntry returns the content of the entry at index. Entries larger than
// limit bytes are refused with ErrEntryTooLarge; limit <= 0 disables the check.
func (r *Reader) ReadEntry(index int, limit int64) (data []byte, err error) {
	f, err := r.file(index)
	if err != nil {
		return nil, err
	}
	if limit > 0 && f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrEntryTooLarge, f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var reader io.Reader = rc
	if limit > 0 {
		reader = io.LimitReader(rc, limit+1)
	}
	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", f.Name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrEntryTooLarge, f.Name, limit)
	}
	return data, nil
}

// ExtractEntry writes the entry at index below destDir, preserving its
// relative path, and returns the path it was written to. Parent directories
// are created as needed. An existing file is only replaced when overwrite is set.
func (r *Reader) ExtractEntry(index int, destDir string, overwrite bool) (string, error) {
	f, err := r.file(index)
	if err != nil {
		return "", err
	}

	destPath, err := SafeJoin(destDir, f.Name)
	if err != nil {
		return "", err
	}

	if f.FileInfo().IsDir() {
		if mkdirErr := os.MkdirAll(destPath, 0o755); mkdirErr != nil {
			return "", fmt.Errorf("failed to create directory: %w", mkdirErr)
		}
		return destPath, nil
	}

	if !overwrite {
		if _, statErr := os.Lstat(destPath); statErr == nil {
			return "", fmt.Errorf("%w: %s", ErrEntryExists, destPath)
		}
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(destPath), 0o755); mkdirErr != nil {
		return "", fmt.Errorf("failed to create parent directory: %w", mkdirErr)
	}

	if extractErr := extractFile(f, destPath); extractErr != nil {
		return "", fmt.Errorf("failed to extract %s: %w", f.Name, extractErr)
	}
	return destPath, nil
}

// SafeJoin joins an archive entry name onto destDir and rejects names that
// would resolve outside of destDir.
func SafeJoin(destDir, name string) (string, error) {
	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination directory: %w", err)
	}
	clean := strings.TrimSuffix(strings.ReplaceAll(name, `\`, "/"), "/")
	if clean == "" || strings.HasPrefix(clean, "/") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	destPath := filepath.Join(absDest, filepath.FromSlash(clean))
	relPath, relErr := filepath.Rel(absDest, destPath)
	if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return destPath, nil
}

func (r *Reader) file(index int) (*zip.File, error) {
	if index < 0 || index >= len(r.zr.File) {
		return nil, fmt.Errorf("%w: index %d of %d in %s", ErrNoSuchEntry, index, len(r.zr.File), r.path)
	}
	return r.zr.File[index], nil
}

// extractFile copies a single zip entry to destPath.
func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: packages are user-supplied local files; size is bounded by the filesystem
	_, err = io.Copy(destFile, rc)
	return err
}
