// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lmmspkg/lmms-pkg/internal/logging"
	"github.com/lmmspkg/lmms-pkg/pkg/archive"
	"github.com/lmmspkg/lmms-pkg/pkg/fspath"
	"github.com/lmmspkg/lmms-pkg/pkg/project"
	"github.com/lmmspkg/lmms-pkg/pkg/resource"
)

// File extensions and layout names.
const (
	ProjectExt           = ".mmp"
	CompressedProjectExt = ".mmpz"
	PackageExt           = ".mmpk"
	SoundFontExt         = ".sf2"
	BackupSuffix         = ".backup"
	ResourcesDir         = "resources"

	suggestionLimit = 3
)

type (
	// PackOptions configures Pack.
	PackOptions struct {
		// Source is the .mmp or .mmpz project to package.
		Source string
		// Destination is the staging directory; it is created if absent.
		Destination string
		// SearchDirs are extra directories (or glob patterns) searched for
		// resources that are not found at their declared path. The directory
		// of Source is always searched last.
		SearchDirs []string
		// SoundFonts includes .sf2 resources in the package.
		SoundFonts bool
		// Zip archives the staged directory into <Destination>.mmpk.
		Zip bool
		// LMMSCommand converts .mmpz projects; defaults to DefaultLMMSCommand.
		LMMSCommand string
		// Logger receives progress messages; nil discards them.
		Logger *log.Logger
	}

	// ExportedFile records one resource copied into the package.
	ExportedFile struct {
		// Declared is the src value found in the project.
		Declared string `json:"declared" toml:"declared"`
		// Source is the absolute path the resource was copied from.
		Source string `json:"source" toml:"source"`
		// Name is the file name inside the resources directory.
		Name string `json:"name" toml:"name"`
	}

	// PackResult describes a finished export.
	PackResult struct {
		// Path is the archive when Archived is set, the staging directory otherwise.
		Path string
		// Archived reports whether an archive was produced.
		Archived bool
		// ProjectPath is the staged project file.
		ProjectPath string
		// Discovered counts the distinct resource paths in the project.
		Discovered int
		Copied     int
		// Skipped counts SoundFonts left out because SoundFonts was not set.
		Skipped int
		// Missing counts resources that could not be located.
		Missing int
		Files   []ExportedFile
	}
)

// ArchivePath returns the package file produced for a staging directory.
func ArchivePath(stagingDir string) string {
	return fspath.TrimTrailingSeparator(stagingDir) + PackageExt
}

// Pack stages the project in opts.Source into opts.Destination together with
// every resource it references and, if requested, zips the result.
func Pack(ctx context.Context, opts PackOptions) (result *PackResult, err error) {
	logger := logging.OrDiscard(opts.Logger)
	created := &artifacts{logger: logger}
	defer func() {
		if err != nil {
			created.rollback()
		}
	}()

	// ValidateSource
	if !fspath.IsFile(opts.Source) {
		return nil, newError(ErrNonExistingFile, opts.Source, nil)
	}
	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, newError(ErrNonExistingFile, opts.Source, err)
	}
	dest, err := filepath.Abs(fspath.TrimTrailingSeparator(opts.Destination))
	if err != nil {
		return nil, newError(ErrDirectoryCreation, opts.Destination, err)
	}
	if opts.Zip && fspath.Exists(ArchivePath(dest)) {
		return nil, newError(ErrAlreadyExistingFile, ArchivePath(dest),
			errors.New("remove it or export to a fresh directory"))
	}

	stagedName := fspath.Stem(source) + ProjectExt
	staged := filepath.Join(dest, stagedName)
	if fspath.Exists(staged) {
		return nil, newError(ErrAlreadyExistingFile, staged,
			errors.New("export to a fresh directory"))
	}

	if err := makeDir(created, dest); err != nil {
		return nil, err
	}

	// StageProject
	logger.Debug("Staging project", "src", source, "dst", staged)
	created.track(staged)
	if fspath.HasExt(source, CompressedProjectExt) {
		if convErr := Decompress(ctx, opts.LMMSCommand, source, staged); convErr != nil {
			return nil, newError(ErrPackageExport, source, convErr)
		}
	} else if copyErr := copyFile(source, staged); copyErr != nil {
		return nil, newError(ErrPackageExport, staged, copyErr)
	}

	// ValidateProjectXML
	doc, err := project.Load(staged)
	if err != nil {
		return nil, newError(ErrInvalidXMLFile, staged, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, newError(ErrInvalidXMLFile, staged, err)
	}

	// DiscoverResources
	result = &PackResult{Path: dest, ProjectPath: staged}
	paths := resource.CollectReferencedPaths(doc)
	result.Discovered = len(paths)
	if len(paths) == 0 {
		logger.Debug("Project references no resources; nothing to package", "dir", dest)
		return result, nil
	}

	searchDirs, err := resource.ExpandDirs(append(append([]string{}, opts.SearchDirs...), filepath.Dir(source)))
	if err != nil {
		return nil, newError(ErrPackageExport, source, err)
	}

	var wanted []string
	for _, p := range paths {
		if !opts.SoundFonts && fspath.HasExt(p, SoundFontExt) {
			logger.Debug("Skipping SoundFont", "src", p)
			result.Skipped++
			continue
		}
		wanted = append(wanted, p)
	}

	// CreateResourceDir
	resourcesDir := filepath.Join(dest, ResourcesDir)
	if err := makeDir(created, resourcesDir); err != nil {
		return nil, err
	}

	// CopyEach
	for _, entry := range resource.Resolve(wanted, searchDirs) {
		if !entry.Found() {
			result.Missing++
			if hints := resource.Suggest(entry.Declared, searchDirs, suggestionLimit); len(hints) > 0 {
				logger.Warn("Resource not found", "src", entry.Declared, "similar", hints)
			} else {
				logger.Warn("Resource not found", "src", entry.Declared)
			}
			continue
		}

		if entry.Suffix > 0 {
			logger.Debug("Renaming resource with a duplicate name", "src", entry.Declared, "name", entry.Name)
		}
		target := filepath.Join(resourcesDir, entry.Name)
		if fspath.Exists(target) {
			return nil, newError(ErrAlreadyExistingFile, target, nil)
		}
		created.track(target)
		if copyErr := copyFile(entry.Source, target); copyErr != nil {
			return nil, newError(ErrPackageExport, target, copyErr)
		}
		logger.Debug("Copied resource", "src", entry.Source, "dst", entry.Name)
		result.Copied++
		result.Files = append(result.Files, ExportedFile{
			Declared: entry.Declared,
			Source:   entry.Source,
			Name:     entry.Name,
		})
	}

	// RewriteReferences
	rewriteExported(doc, result.Files, logger)
	if err := doc.Save(staged); err != nil {
		return nil, newError(ErrPackageExport, staged, err)
	}

	logger.Debug("Resources copied", "copied", result.Copied, "missing", result.Missing, "skipped", result.Skipped)

	if !opts.Zip {
		return result, nil
	}

	// Archive
	archivePath := ArchivePath(dest)
	created.track(archivePath)
	zipped, err := archive.Create(dest, archivePath)
	if err != nil {
		return nil, newError(ErrPackageExport, archivePath, err)
	}
	logger.Debug("Created package", "path", zipped)
	result.Path = zipped
	result.Archived = true
	return result, nil
}

// rewriteExported points every element whose src was copied at the copy.
func rewriteExported(doc *project.Document, files []ExportedFile, logger *log.Logger) {
	byDeclared := make(map[string]ExportedFile, len(files))
	for _, f := range files {
		byDeclared[f.Declared] = f
	}
	for _, ref := range doc.ResourceElements() {
		f, ok := byDeclared[ref.Source]
		if !ok {
			continue
		}
		logger.Debug("Set resource path", "element", ref.Tag, "src", f.Name)
		ref.SetSource(f.Name)
	}
}

// makeDir creates dir (and parents) and records it for rollback when it
// did not exist before.
func makeDir(created *artifacts, dir string) error {
	if fspath.IsDir(dir) {
		return nil
	}
	// Record the topmost missing ancestor so rollback removes every new level.
	top := dir
	for parent := filepath.Dir(top); parent != top && !fspath.Exists(parent); parent = filepath.Dir(top) {
		top = parent
	}
	created.trackIfNew(top)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newError(ErrDirectoryCreation, dir, err)
	}
	return nil
}

// copyFile copies the bytes of src into a new file at dst.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()|0o200)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
