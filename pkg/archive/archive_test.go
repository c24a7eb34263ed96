// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func entryNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestCreate_RootRelativeEntries(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "song")
	writeTree(t, src, map[string]string{
		"song.mmp":            "<lmms-project/>",
		"resources/kick.wav":  "RIFF",
		"resources/snare.ogg": "OggS",
	})

	archivePath := filepath.Join(tmp, "song.mmpk")
	got, err := Create(src, archivePath)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got != archivePath {
		t.Errorf("Create() path = %q, want %q", got, archivePath)
	}

	entries, err := List(archivePath)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"resources/", "resources/kick.wav", "resources/snare.ogg", "song.mmp"}
	if names := entryNames(entries); !slices.Equal(names, want) {
		t.Errorf("entries = %v, want %v", names, want)
	}
	for _, e := range entries {
		if e.Name == "resources/" && !e.IsDir {
			t.Error("resources/ should be a directory entry")
		}
		if e.Name == "resources/kick.wav" && e.Size != 4 {
			t.Errorf("kick.wav size = %d, want 4", e.Size)
		}
	}
}

func TestCreate_SkipsArchiveInsideSource(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.mmp": "x"})
	archivePath := filepath.Join(src, "out.mmpk")

	if _, err := Create(src, archivePath); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	entries, err := List(archivePath)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if names := entryNames(entries); !slices.Equal(names, []string{"a.mmp"}) {
		t.Errorf("entries = %v, want [a.mmp]", names)
	}
}

func TestCreate_MissingSourceLeavesNoArchive(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "x.mmpk")
	if _, err := Create(filepath.Join(tmp, "missing"), archivePath); err == nil {
		t.Fatal("Create() expected error for missing source")
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Errorf("archive should not exist, stat err = %v", err)
	}
}

func TestReader_ReadEntry(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "p")
	writeTree(t, src, map[string]string{"p.mmp": "0123456789"})
	archivePath := filepath.Join(tmp, "p.mmpk")
	if _, err := Create(src, archivePath); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	r, err := Open(archivePath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	data, err := r.ReadEntry(0, 0)
	if err != nil {
		t.Fatalf("ReadEntry() error = %v", err)
	}
	if string(data) != "0123456789" {
		t.Errorf("ReadEntry() = %q", data)
	}

	if _, err := r.ReadEntry(0, 4); !errors.Is(err, ErrEntryTooLarge) {
		t.Errorf("ReadEntry(limit 4) error = %v, want ErrEntryTooLarge", err)
	}
	_, err = r.ReadEntry(5, 0)
	if !errors.Is(err, ErrNoSuchEntry) {
		t.Errorf("ReadEntry(5) error = %v, want ErrNoSuchEntry", err)
	} else if !strings.Contains(err.Error(), archivePath) {
		t.Errorf("ReadEntry(5) error %q should name the archive", err)
	}
}

func TestReader_ExtractEntry(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	src := filepath.Join(tmp, "p")
	writeTree(t, src, map[string]string{"resources/a.wav": "AAAA"})
	archivePath := filepath.Join(tmp, "p.mmpk")
	if _, err := Create(src, archivePath); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	r, err := Open(archivePath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	dest := filepath.Join(tmp, "out")
	var filePath string
	for _, e := range r.Entries() {
		p, extractErr := r.ExtractEntry(e.Index, dest, false)
		if extractErr != nil {
			t.Fatalf("ExtractEntry(%s) error = %v", e.Name, extractErr)
		}
		if !e.IsDir {
			filePath = p
		}
	}

	want := filepath.Join(dest, "resources", "a.wav")
	if filePath != want {
		t.Errorf("extracted path = %q, want %q", filePath, want)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "AAAA" {
		t.Errorf("extracted content = %q, err = %v", data, err)
	}

	// Second extraction without overwrite must refuse.
	for _, e := range r.Entries() {
		if e.IsDir {
			continue
		}
		if _, err := r.ExtractEntry(e.Index, dest, false); !errors.Is(err, ErrEntryExists) {
			t.Errorf("ExtractEntry() error = %v, want ErrEntryExists", err)
		}
		if _, err := r.ExtractEntry(e.Index, dest, true); err != nil {
			t.Errorf("ExtractEntry(overwrite) error = %v", err)
		}
	}
}

func TestReader_ExtractEntry_ZipSlip(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	archivePath := filepath.Join(tmp, "evil.mmpk")
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("../escape.txt")
	if err != nil {
		t.Fatalf("zip Create: %v", err)
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(archivePath)
	if err != nil {
		// Refusing insecure names at open time is just as good.
		return
	}
	t.Cleanup(func() { _ = r.Close() })

	dest := filepath.Join(tmp, "dest")
	if _, err := r.ExtractEntry(0, dest, false); !errors.Is(err, ErrUnsafePath) {
		t.Errorf("ExtractEntry() error = %v, want ErrUnsafePath", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "escape.txt")); !os.IsNotExist(err) {
		t.Error("zip-slip entry escaped the destination")
	}
}

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{"plain", "song.mmp", false},
		{"nested", "resources/kick.wav", false},
		{"dir marker", "resources/", false},
		{"parent", "../x", true},
		{"hidden parent", "resources/../../x", true},
		{"absolute", "/etc/passwd", true},
		{"backslash parent", `..\x`, true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := SafeJoin(dest, tt.entry)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeJoin(%q) error = %v, wantErr %v", tt.entry, err, tt.wantErr)
			}
		})
	}
}
