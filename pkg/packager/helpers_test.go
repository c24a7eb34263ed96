// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"os"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/lmmspkg/lmms-pkg/internal/testutil"
	"github.com/lmmspkg/lmms-pkg/internal/testutil/projecttest"
	"github.com/lmmspkg/lmms-pkg/pkg/project"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	return testutil.MustWriteFile(t, path, content)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	return testutil.MustReadFile(t, path)
}

// projectXML builds a song project referencing srcs, with ".sf2" paths on
// sf2player elements and everything else on audiofileprocessor elements.
func projectXML(srcs ...string) string {
	return projecttest.New(projecttest.WithSources(srcs...))
}

func sources(t *testing.T, path string) []string {
	t.Helper()
	doc, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	var out []string
	for _, ref := range doc.ResourceElements() {
		out = append(out, ref.Source)
	}
	return out
}

// writeZip writes an archive with the given entries in order. Names ending
// in "/" become directory entries.
func writeZip(t *testing.T, path string, entries [][2]string) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, createErr := zw.Create(e[0])
		if createErr != nil {
			t.Fatalf("zip Create(%s): %v", e[0], createErr)
		}
		if e[1] != "" {
			if _, writeErr := w.Write([]byte(e[1])); writeErr != nil {
				t.Fatalf("zip Write: %v", writeErr)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}
