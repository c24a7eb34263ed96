// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	FileNotFoundId,
	FileAlreadyExistsId,
	DirectoryCreationFailedId,
	InvalidProjectId,
	ConverterFailedId,
	PackageExportFailedId,
	PackageImportFailedId,
	InvalidPackageId,
	ConfigLoadFailedId,
	PermissionDeniedId,
}

func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestIssuesMapCompleteness(t *testing.T) {
	t.Parallel()

	for _, id := range allIds {
		i := Get(id)
		if i == nil {
			t.Errorf("issue %d is not registered", id)
			continue
		}
		if i.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, i.Id())
		}
	}
	if got := len(issues); got != len(allIds) {
		t.Errorf("%d issues registered, want %d", got, len(allIds))
	}
	if FileNotFoundId != 1 {
		t.Errorf("FileNotFoundId = %d, want 1", FileNotFoundId)
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	i := Get(ConverterFailedId)
	links := i.ExtLinks()
	if len(links) == 0 {
		t.Fatal("converter issue should carry an external link")
	}
	links[0] = "modified"
	if i.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a clone")
	}

	docs := Get(InvalidProjectId).DocLinks()
	if len(docs) == 0 {
		t.Fatal("invalid project issue should carry a doc link")
	}
	docs[0] = "modified"
	if Get(InvalidProjectId).DocLinks()[0] == "modified" {
		t.Error("DocLinks() should return a clone")
	}
}

//nolint:tparallel // stubs the package-level renderer
func TestIssue_Render(t *testing.T) {
	stubRender(t)

	rendered, err := Get(FileAlreadyExistsId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "--overwrite") {
		t.Errorf("rendered issue should mention --overwrite, got:\n%s", rendered)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issue without links should not render a See also section")
	}

	rendered, err = Get(ConfigLoadFailedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "See also") || !strings.Contains(rendered, "cuelang.org") {
		t.Errorf("issue with links should render them, got:\n%s", rendered)
	}
}

//nolint:tparallel // stubs the package-level renderer
func TestAllIssuesAreRenderable(t *testing.T) {
	stubRender(t)

	for _, id := range allIds {
		i := Get(id)
		if i.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", i.Id())
		}
		rendered, err := i.Render("")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", i.Id(), err)
		}
		if rendered == "" {
			t.Errorf("issue %d rendered to empty string", i.Id())
		}
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	t.Parallel()

	out, err := Get(InvalidPackageId).Render("notty")
	if err != nil {
		t.Fatalf("Render(notty) error: %v", err)
	}
	if !strings.Contains(out, "valid LMMS package") {
		t.Errorf("glamour output lost the heading:\n%s", out)
	}
}
