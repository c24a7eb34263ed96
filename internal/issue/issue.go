// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	FileAlreadyExistsId
	DirectoryCreationFailedId
	InvalidProjectId
	ConverterFailedId
	PackageExportFailedId
	PackageImportFailedId
	InvalidPackageId
	ConfigLoadFailedId
	PermissionDeniedId
)

const docsBase = "https://lmms.io/wiki/index.php?title="

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var extraMd strings.Builder
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			extraMd.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			extraMd.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(string(i.mdMsg)+extraMd.String(), stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

The project or package you asked for does not exist.

## Things you can try:
- Check the path for typos
- Use an absolute path, or run the command from the directory that holds the file
- Compressed projects use the ` + "`.mmpz`" + ` extension, plain ones ` + "`.mmp`",
	}

	fileAlreadyExistsIssue = &Issue{
		id: FileAlreadyExistsId,
		mdMsg: `
# Refusing to overwrite an existing file!

lmms-pkg never replaces files it did not create during the current run.

## Things you can try:
- Choose another destination:
~~~
$ lmms-pkg pack song.mmp /tmp/elsewhere
~~~
- When unpacking, allow replacing previously extracted files:
~~~
$ lmms-pkg unpack song.mmpk --overwrite
~~~`,
	}

	directoryCreationFailedIssue = &Issue{
		id: DirectoryCreationFailedId,
		mdMsg: `
# Could not create the destination directory!

## Things you can try:
- Make sure the parent directory exists and is writable
- Make sure no regular file is in the way of the requested directory`,
	}

	invalidProjectIssue = &Issue{
		id: InvalidProjectId,
		mdMsg: `
# Not a usable LMMS project!

The file could not be parsed, is not a song, or was saved by an
LMMS version this tool does not know.

## Things you can try:
- Open and save the project again with LMMS 1.2
- Inspect the project header:
~~~
$ lmms-pkg check song.mmpk
~~~`,
		docLinks: []HttpLink{docsBase + "File_formats"},
	}

	converterFailedIssue = &Issue{
		id: ConverterFailedId,
		mdMsg: `
# Could not decompress the project!

Compressed ` + "`.mmpz`" + ` projects are converted by running LMMS itself.

## Things you can try:
- Make sure ` + "`lmms`" + ` is installed and on your PATH
- Point lmms-pkg at a specific binary:
~~~
$ lmms-pkg pack song.mmpz out --lmms-command "/opt/lmms/bin/lmms"
~~~
- Save the project uncompressed (` + "`.mmp`" + `) from LMMS instead`,
		extLinks: []HttpLink{"https://lmms.io/download"},
	}

	packageExportFailedIssue = &Issue{
		id: PackageExportFailedId,
		mdMsg: `
# Packaging failed!

Everything created during this run has been removed again.

## Things you can try:
- Check free disk space in the destination
- Re-run with ` + "`--verbose`" + ` to see each step`,
	}

	packageImportFailedIssue = &Issue{
		id: PackageImportFailedId,
		mdMsg: `
# Unpacking failed!

Files extracted during this run have been removed again.

## Things you can try:
- Verify the package first:
~~~
$ lmms-pkg check song.mmpk
~~~
- Re-run with ` + "`--verbose`" + ` to see each step`,
	}

	invalidPackageIssue = &Issue{
		id: InvalidPackageId,
		mdMsg: `
# Not a valid LMMS package!

A package is a zip archive holding exactly one ` + "`.mmp`" + ` project and a
` + "`resources/`" + ` directory.

## Things you can try:
- List what the archive holds:
~~~
$ lmms-pkg info song.mmpk
~~~
- Re-create the package with ` + "`lmms-pkg pack`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Show the effective configuration:
~~~
$ lmms-pkg config show
~~~
- Regenerate a default file:
~~~
$ lmms-pkg config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

## Things you can try:
- Check the permissions of the destination directory
- Make sure the package or project is readable by your user`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():            fileNotFoundIssue,
		fileAlreadyExistsIssue.Id():       fileAlreadyExistsIssue,
		directoryCreationFailedIssue.Id(): directoryCreationFailedIssue,
		invalidProjectIssue.Id():          invalidProjectIssue,
		converterFailedIssue.Id():         converterFailedIssue,
		packageExportFailedIssue.Id():     packageExportFailedIssue,
		packageImportFailedIssue.Id():     packageImportFailedIssue,
		invalidPackageIssue.Id():          invalidPackageIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
