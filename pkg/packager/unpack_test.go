// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/lmmspkg/lmms-pkg/pkg/archive"
	"github.com/lmmspkg/lmms-pkg/pkg/fspath"
)

func packFixture(t *testing.T, tmp string) string {
	t.Helper()
	kick := writeFile(t, filepath.Join(tmp, "lib", "kick.wav"), "kick")
	src := writeFile(t, filepath.Join(tmp, "song.mmp"), projectXML(kick))
	res, err := Pack(context.Background(), PackOptions{
		Source:      src,
		Destination: filepath.Join(tmp, "export"),
		Zip:         true,
	})
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	return res.Path
}

func TestUnpack(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	pkg := packFixture(t, tmp)
	dest := filepath.Join(tmp, "import")

	res, err := Unpack(UnpackOptions{Package: pkg, Destination: dest})
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	if res.Dir != dest {
		t.Errorf("Dir = %q, want %q", res.Dir, dest)
	}
	if res.Extracted != 2 {
		t.Errorf("Extracted = %d, want 2", res.Extracted)
	}

	want := filepath.Join(dest, ResourcesDir, "kick.wav")
	if got := sources(t, res.ProjectPath); !slices.Equal(got, []string{want}) {
		t.Errorf("src = %v, want [%s]", got, want)
	}
	// The backup keeps the package-relative reference.
	if got := sources(t, res.BackupPath); !slices.Equal(got, []string{"kick.wav"}) {
		t.Errorf("backup src = %v, want [kick.wav]", got)
	}
}

func TestUnpack_ExistingFiles(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	pkg := packFixture(t, tmp)
	dest := filepath.Join(tmp, "import")

	first, err := Unpack(UnpackOptions{Package: pkg, Destination: dest})
	if err != nil {
		t.Fatalf("first Unpack() error = %v", err)
	}

	_, err = Unpack(UnpackOptions{Package: pkg, Destination: dest})
	if !errors.Is(err, ErrPackageImport) || !errors.Is(err, archive.ErrEntryExists) {
		t.Fatalf("second Unpack() error = %v, want ErrPackageImport wrapping ErrEntryExists", err)
	}
	if !strings.Contains(err.Error(), "--overwrite") {
		t.Errorf("error %q should mention --overwrite", err)
	}
	for _, p := range []string{first.ProjectPath, first.BackupPath, filepath.Join(dest, ResourcesDir, "kick.wav")} {
		if !fspath.IsFile(p) {
			t.Errorf("%s was removed by the failed import", p)
		}
	}

	if _, err := Unpack(UnpackOptions{Package: pkg, Destination: dest, Overwrite: true}); err != nil {
		t.Errorf("Unpack(Overwrite) error = %v", err)
	}
}

func TestUnpack_BasenameFallback(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	pkg := writeZip(t, filepath.Join(tmp, "hand.mmpk"), [][2]string{
		{"song.mmp", projectXML(`C:\Users\me\samples\snare.wav`, "missing.wav")},
		{"resources/", ""},
		{"resources/drums/snare.wav", "snare"},
	})
	dest := filepath.Join(tmp, "import")

	res, err := Unpack(UnpackOptions{Package: pkg, Destination: dest})
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	if res.Rewritten != 1 || res.Unresolved != 1 {
		t.Errorf("result = %+v", res)
	}
	got := sources(t, res.ProjectPath)
	if got[0] != filepath.Join(dest, ResourcesDir, "drums", "snare.wav") {
		t.Errorf("src[0] = %q", got[0])
	}
	if got[1] != "missing.wav" {
		t.Errorf("src[1] = %q, want unchanged", got[1])
	}
}

func TestUnpack_MissingResourceWithTakenName(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	found := writeFile(t, filepath.Join(tmp, "a", "x.wav"), "a-x")
	missing := filepath.Join(tmp, "b", "x.wav")
	src := writeFile(t, filepath.Join(tmp, "song.mmp"), projectXML(found, missing))

	packed, err := Pack(context.Background(), PackOptions{
		Source:      src,
		Destination: filepath.Join(tmp, "export"),
		Zip:         true,
	})
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if packed.Missing != 1 {
		t.Fatalf("Missing = %d, want 1", packed.Missing)
	}

	dest := filepath.Join(tmp, "import")
	res, err := Unpack(UnpackOptions{Package: packed.Path, Destination: dest})
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	if res.Rewritten != 1 || res.Unresolved != 1 {
		t.Errorf("result = %+v, want 1 rewritten and 1 unresolved", res)
	}
	got := sources(t, res.ProjectPath)
	if want := filepath.Join(dest, ResourcesDir, "x.wav"); got[0] != want {
		t.Errorf("src[0] = %q, want %q", got[0], want)
	}
	if got[1] != missing {
		t.Errorf("src[1] = %q, want the unresolved path %q", got[1], missing)
	}
}

func TestUnpack_BasenameFallbackSkipsClaimedFiles(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	pkg := writeZip(t, filepath.Join(tmp, "hand.mmpk"), [][2]string{
		{"song.mmp", projectXML("other/hat.wav", "hat.wav", "drums/hat.wav")},
		{"resources/", ""},
		{"resources/hat.wav", "hat"},
		{"resources/drums/hat.wav", "drums-hat"},
	})
	dest := filepath.Join(tmp, "import")

	res, err := Unpack(UnpackOptions{Package: pkg, Destination: dest})
	if err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	got := sources(t, res.ProjectPath)
	want := []string{
		"other/hat.wav",
		filepath.Join(dest, ResourcesDir, "hat.wav"),
		filepath.Join(dest, ResourcesDir, "drums", "hat.wav"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("src = %v, want %v", got, want)
	}
	if res.Rewritten != 2 || res.Unresolved != 1 {
		t.Errorf("result = %+v, want 2 rewritten and 1 unresolved", res)
	}
}

func TestUnpack_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing package", func(t *testing.T) {
		t.Parallel()
		tmp := t.TempDir()
		_, err := Unpack(UnpackOptions{Package: filepath.Join(tmp, "nope.mmpk"), Destination: tmp})
		if !errors.Is(err, ErrNonExistingFile) {
			t.Errorf("error = %v, want ErrNonExistingFile", err)
		}
	})

	t.Run("no resource directory", func(t *testing.T) {
		t.Parallel()
		tmp := t.TempDir()
		pkg := writeZip(t, filepath.Join(tmp, "p.mmpk"), [][2]string{{"song.mmp", projectXML()}})
		dest := filepath.Join(tmp, "import")

		_, err := Unpack(UnpackOptions{Package: pkg, Destination: dest})
		if !errors.Is(err, ErrPackageImport) || !errors.Is(err, ErrInvalidPackage) {
			t.Errorf("error = %v, want ErrPackageImport wrapping ErrInvalidPackage", err)
		}
		if fspath.Exists(dest) {
			t.Error("nothing should be extracted from an invalid package")
		}
	})

	t.Run("zip slip", func(t *testing.T) {
		t.Parallel()
		tmp := t.TempDir()
		pkg := writeZip(t, filepath.Join(tmp, "p.mmpk"), [][2]string{
			{"song.mmp", projectXML()},
			{"resources/", ""},
			{"resources/../../evil.wav", "evil"},
		})
		dest := filepath.Join(tmp, "deep", "import")

		_, err := Unpack(UnpackOptions{Package: pkg, Destination: dest})
		if !errors.Is(err, ErrPackageImport) {
			t.Errorf("error = %v, want ErrPackageImport", err)
		}
		if fspath.Exists(filepath.Join(tmp, "deep", "evil.wav")) {
			t.Error("entry escaped the destination")
		}
		if fspath.Exists(filepath.Join(tmp, "deep")) {
			t.Error("created destination should be removed")
		}
	})
}
