// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmmspkg/lmms-pkg/internal/config"
	"github.com/lmmspkg/lmms-pkg/internal/testutil"
	"github.com/lmmspkg/lmms-pkg/internal/testutil/projecttest"
	"github.com/lmmspkg/lmms-pkg/pkg/types"
)

// staticConfig is a ConfigProvider returning a fixed configuration.
type staticConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s staticConfig) Resolve(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), s.path, nil
	}
	return s.cfg, s.path, nil
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, provider ConfigProvider, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &stdout, Stderr: &stderr})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// fixture writes a project referencing one sample and returns the project
// path and the sample path.
func fixture(t *testing.T, dir string) (string, string) {
	t.Helper()
	sample := testutil.MustWriteFile(t, filepath.Join(dir, "sounds", "kick.wav"), "RIFF-kick")
	song := testutil.MustWriteFile(t, filepath.Join(dir, "song.mmp"), projecttest.New(projecttest.WithSamples(sample)))
	return song, sample
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-01-15T10:00:00Z"

		want := "v1.2.3 (commit: abc1234, built: 2026-01-15T10:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestPackThenUnpack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	song, _ := fixture(t, dir)
	target := filepath.Join(dir, "out")

	res := execute(t, staticConfig{}, "pack", song, "--target", target)
	if res.err != nil {
		t.Fatalf("pack failed: %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "Packaged 1 of 1 resources") {
		t.Errorf("stdout = %q", res.stdout)
	}
	pkg := target + ".mmpk"
	testutil.MustReadFile(t, pkg)

	restored := filepath.Join(dir, "restored")
	res = execute(t, staticConfig{}, "import", pkg, "--target", restored)
	if res.err != nil {
		t.Fatalf("unpack failed: %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "1 relinked") {
		t.Errorf("stdout = %q", res.stdout)
	}
	project := string(testutil.MustReadFile(t, filepath.Join(restored, "song.mmp")))
	if want := filepath.Join(restored, "resources", "kick.wav"); !strings.Contains(project, want) {
		t.Errorf("restored project does not point at %s:\n%s", want, project)
	}
}

func TestPack_ConfigDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	song, _ := fixture(t, dir)
	target := filepath.Join(dir, "staged")

	cfg := config.DefaultConfig()
	cfg.Pack.Zip = false

	res := execute(t, staticConfig{cfg: cfg}, "export", song, "-t", target)
	if res.err != nil {
		t.Fatalf("pack failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, target) || strings.Contains(res.stdout, ".mmpk") {
		t.Errorf("pack with zip disabled should report the directory, got %q", res.stdout)
	}
	testutil.MustReadFile(t, filepath.Join(target, "resources", "kick.wav"))
}

func TestPack_SoundFontNotice(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sample := testutil.MustWriteFile(t, filepath.Join(dir, "kick.wav"), "RIFF")
	sf := testutil.MustWriteFile(t, filepath.Join(dir, "piano.sf2"), "sfbk")
	song := testutil.MustWriteFile(t, filepath.Join(dir, "song.mmp"),
		projecttest.New(projecttest.WithSamples(sample), projecttest.WithSoundFont(sf)))

	res := execute(t, staticConfig{}, "pack", song, "--target", filepath.Join(dir, "out"), "--no-zip")
	if res.err != nil {
		t.Fatalf("pack failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, "1 SoundFont(s) left out") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestPack_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args func(dir string) []string
		want string
	}{
		{
			name: "missing source",
			args: func(dir string) []string {
				return []string{"pack", filepath.Join(dir, "nope.mmp"), "--target", filepath.Join(dir, "out")}
			},
			want: "file does not exist",
		},
		{
			name: "target required",
			args: func(dir string) []string { return []string{"pack", filepath.Join(dir, "song.mmp")} },
			want: `required flag(s) "target" not set`,
		},
		{
			name: "blank target",
			args: func(dir string) []string { return []string{"pack", filepath.Join(dir, "song.mmp"), "--target", " "} },
			want: "invalid filesystem path",
		},
		{
			name: "NUL in target",
			args: func(dir string) []string {
				return []string{"pack", filepath.Join(dir, "song.mmp"), "--target", filepath.Join(dir, "out\x00")}
			},
			want: "must not contain a NUL byte",
		},
		{
			name: "not a project",
			args: func(dir string) []string {
				bad := testutil.MustWriteFile(t, filepath.Join(dir, "bad.mmp"), projecttest.New(projecttest.WithRoot("html")))
				return []string{"pack", bad, "--target", filepath.Join(dir, "out")}
			},
			want: "not a recognized project",
		},
		{
			name: "unsupported version",
			args: func(dir string) []string {
				old := testutil.MustWriteFile(t, filepath.Join(dir, "future.mmp"),
					projecttest.New(projecttest.WithCreatorVersion("9.9.9")))
				return []string{"pack", old, "--target", filepath.Join(dir, "out")}
			},
			want: "Supported LMMS versions: 1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			fixture(t, dir)

			res := execute(t, staticConfig{}, tt.args(dir)...)
			if res.err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(res.err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", res.err, tt.want)
			}
		})
	}
}

func TestFail_ExitCodeAndSuggestions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := execute(t, staticConfig{}, "unpack", filepath.Join(dir, "missing.mmpk"), "--target", dir)

	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) {
		t.Fatalf("error should be an ExitError, got %T: %v", res.err, res.err)
	}
	if exitErr.Code != types.ExitFailure {
		t.Errorf("Code = %d, want %d", exitErr.Code, types.ExitFailure)
	}
	var svcErr *ServiceError
	if !errors.As(res.err, &svcErr) {
		t.Fatal("error chain should hold a ServiceError")
	}
	if svcErr.IssueID == 0 {
		t.Error("missing package should map to an issue")
	}
	if strings.Contains(res.stderr, "File not found") {
		t.Error("issue help should only be rendered in verbose mode")
	}
}

func TestFail_VerboseRendersIssue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := execute(t, staticConfig{}, "-v", "unpack", filepath.Join(dir, "missing.mmpk"), "--target", dir)
	if res.err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(res.stderr, "File not found") {
		t.Errorf("verbose failure should render the issue, stderr:\n%s", res.stderr)
	}
}

func TestConfig_BrokenFileWarns(t *testing.T) {
	t.Parallel()

	broken := staticConfig{err: errors.New("config.cue: pack.zip: conflicting values")}
	res := execute(t, broken, "config", "path")
	if res.err != nil {
		t.Fatalf("a broken default config should only warn: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Warning:") {
		t.Errorf("stderr = %q, want a warning", res.stderr)
	}

	res = execute(t, broken, "--config", "custom.cue", "config", "path")
	if res.err == nil {
		t.Error("a broken --config file should fail")
	}

	res = execute(t, broken, "config", "show")
	if res.err == nil {
		t.Error("config show should fail on a broken config")
	}
}

func TestConfig_ShowAndDump(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.SearchDirs = []string{"~/samples/**"}
	provider := staticConfig{cfg: cfg, path: "/etc/lmms-pkg/config.cue"}

	res := execute(t, provider, "config", "show")
	if res.err != nil {
		t.Fatalf("config show: %v", res.err)
	}
	for _, want := range []string{"/etc/lmms-pkg/config.cue", "~/samples/**", "zip: true"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, res.stdout)
		}
	}

	res = execute(t, provider, "config", "dump")
	if res.err != nil {
		t.Fatalf("config dump: %v", res.err)
	}
	if res.stdout != config.GenerateCUE(cfg) {
		t.Errorf("config dump =\n%s\nwant\n%s", res.stdout, config.GenerateCUE(cfg))
	}
}

func TestVerboseFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	song, _ := fixture(t, dir)
	cfg := config.DefaultConfig()
	cfg.UI.Verbose = true

	res := execute(t, staticConfig{cfg: cfg}, "pack", song, "--target", filepath.Join(dir, "out"))
	if res.err != nil {
		t.Fatalf("pack failed: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Copied resource") {
		t.Errorf("ui.verbose should enable progress messages, stderr:\n%s", res.stderr)
	}
}

func TestQuietRunsWriteNoProgress(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	song, _ := fixture(t, dir)
	target := filepath.Join(dir, "out")

	res := execute(t, staticConfig{}, "pack", song, "--target", target)
	if res.err != nil {
		t.Fatalf("pack failed: %v", res.err)
	}
	if res.stderr != "" {
		t.Errorf("pack without --verbose wrote to stderr:\n%s", res.stderr)
	}

	res = execute(t, staticConfig{}, "unpack", target+".mmpk", "--target", filepath.Join(dir, "restored"))
	if res.err != nil {
		t.Fatalf("unpack failed: %v", res.err)
	}
	if res.stderr != "" {
		t.Errorf("unpack without --verbose wrote to stderr:\n%s", res.stderr)
	}

	res = execute(t, staticConfig{}, "-v", "pack", song, "--target", filepath.Join(dir, "again"))
	if res.err != nil {
		t.Fatalf("verbose pack failed: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Resources copied") {
		t.Errorf("verbose pack should report the copy summary, stderr:\n%s", res.stderr)
	}
}
