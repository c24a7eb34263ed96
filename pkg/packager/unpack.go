// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lmmspkg/lmms-pkg/internal/logging"
	"github.com/lmmspkg/lmms-pkg/pkg/archive"
	"github.com/lmmspkg/lmms-pkg/pkg/fspath"
	"github.com/lmmspkg/lmms-pkg/pkg/project"
)

type (
	// UnpackOptions configures Unpack.
	UnpackOptions struct {
		// Package is the .mmpk file to import.
		Package string
		// Destination receives the extracted files; it is created if absent.
		Destination string
		// Overwrite replaces files that already exist in Destination.
		Overwrite bool
		// Logger receives progress messages; nil discards them.
		Logger *log.Logger
	}

	// UnpackResult describes a finished import.
	UnpackResult struct {
		// Dir is the directory holding the ready-to-use project.
		Dir         string
		ProjectPath string
		BackupPath  string
		Extracted   int
		// Rewritten counts elements now pointing at an extracted file.
		Rewritten int
		// Unresolved counts elements whose resource was not in the package.
		Unresolved int
	}
)

// Unpack validates and extracts a package, keeps a .backup copy of the
// extracted project, and rewrites the project's resource references to the
// absolute paths of the extracted files.
func Unpack(opts UnpackOptions) (result *UnpackResult, err error) {
	logger := logging.OrDiscard(opts.Logger)
	created := &artifacts{logger: logger}
	defer func() {
		if err != nil {
			created.rollback()
		}
	}()

	if !fspath.IsFile(opts.Package) {
		return nil, newError(ErrNonExistingFile, opts.Package, nil)
	}

	report, checkErr := Check(opts.Package, logger)
	if checkErr != nil {
		return nil, newError(ErrPackageImport, opts.Package, checkErr)
	}

	dest, err := filepath.Abs(fspath.TrimTrailingSeparator(opts.Destination))
	if err != nil {
		return nil, newError(ErrDirectoryCreation, opts.Destination, err)
	}
	if err := makeDir(created, dest); err != nil {
		return nil, err
	}

	r, err := archive.Open(opts.Package)
	if err != nil {
		return nil, newError(ErrPackageImport, opts.Package, err)
	}
	defer func() { _ = r.Close() }()

	result = &UnpackResult{}
	for _, e := range r.Entries() {
		target, joinErr := archive.SafeJoin(dest, e.Name)
		if joinErr != nil {
			return nil, newError(ErrPackageImport, e.Name, joinErr)
		}
		if e.IsDir {
			if err := makeDir(created, target); err != nil {
				return nil, err
			}
			continue
		}

		if err := makeDir(created, filepath.Dir(target)); err != nil {
			return nil, err
		}
		created.trackIfNew(target)
		logger.Debug("Extracting", "entry", e.Name)
		if _, extractErr := r.ExtractEntry(e.Index, dest, opts.Overwrite); extractErr != nil {
			if errors.Is(extractErr, archive.ErrEntryExists) {
				extractErr = fmt.Errorf("%w (use --overwrite to replace it)", extractErr)
			}
			return nil, newError(ErrPackageImport, e.Name, extractErr)
		}
		result.Extracted++
	}

	projectPath, err := archive.SafeJoin(dest, report.Projects[0])
	if err != nil {
		return nil, newError(ErrPackageImport, report.Projects[0], err)
	}
	result.ProjectPath = projectPath
	result.Dir = filepath.Dir(projectPath)

	backup := projectPath + BackupSuffix
	if fspath.Exists(backup) && !opts.Overwrite {
		return nil, newError(ErrAlreadyExistingFile, backup, nil)
	}
	created.trackIfNew(backup)
	if err := replaceFile(projectPath, backup); err != nil {
		return nil, newError(ErrPackageImport, backup, err)
	}
	result.BackupPath = backup
	logger.Debug("Backup created", "path", backup)

	doc, err := project.Load(projectPath)
	if err != nil {
		return nil, newError(ErrPackageImport, projectPath, err)
	}

	files, err := extractedFiles(dest, projectPath, backup)
	if err != nil {
		return nil, newError(ErrPackageImport, dest, err)
	}

	refs := doc.ResourceElements()
	for i, found := range matchExtracted(result.Dir, refs, files) {
		ref := refs[i]
		if ref.Source == "" {
			continue
		}
		if found == "" {
			logger.Warn("Resource not in package", "src", ref.Source)
			result.Unresolved++
			continue
		}
		logger.Debug("Set resource path", "element", ref.Tag, "src", found)
		ref.SetSource(found)
		result.Rewritten++
	}

	if err := doc.Save(projectPath); err != nil {
		return nil, newError(ErrPackageImport, projectPath, err)
	}
	return result, nil
}

// extractedFiles lists every regular file below dir in lexical order,
// leaving out the project and its backup.
func extractedFiles(dir string, exclude ...string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if slices.Contains(exclude, path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return files, nil
}

// matchExtracted returns the extracted file for each reference, or "" when
// the package does not hold it. A src is first looked up as a path below the
// resource directory next to the project, which is how packages are written.
// Failing that, the first file with the same base name is used, but never a
// file already matched by a different src.
func matchExtracted(projectDir string, refs []*project.Reference, files []string) []string {
	matches := make([]string, len(refs))
	owner := make(map[string]string)
	resources := filepath.Join(projectDir, ResourcesDir)

	for i, ref := range refs {
		if ref.Source == "" {
			continue
		}
		exact, err := archive.SafeJoin(resources, ref.Source)
		if err != nil || !fspath.IsFile(exact) {
			continue
		}
		if _, taken := owner[exact]; !taken {
			owner[exact] = ref.Source
		}
		matches[i] = exact
	}

	for i, ref := range refs {
		if ref.Source == "" || matches[i] != "" {
			continue
		}
		name := fspath.Base(ref.Source)
		for _, f := range files {
			if filepath.Base(f) != name {
				continue
			}
			if src, taken := owner[f]; taken && src != ref.Source {
				continue
			}
			owner[f] = ref.Source
			matches[i] = f
			break
		}
	}
	return matches
}

// replaceFile copies src to dst, replacing dst if it exists.
func replaceFile(src, dst string) error {
	if fspath.Exists(dst) {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	return copyFile(src, dst)
}
