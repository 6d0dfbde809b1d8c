// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	SectionMissingId
	KeyMissingId
	ElementMissingId
	VersionNotSetId
	InvalidRequirementId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // reference documentation for the failing area
	extLinks []HttpLink  // external links that might be useful for the user
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

// Markdown returns the guide followed by a "See also" list of its links.
func (i *Issue) Markdown() string {
	var b strings.Builder
	b.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		b.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			b.WriteString("- <" + string(link) + ">\n")
		}
	}
	return b.String()
}

// Render renders the guide for a terminal using the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	pyprojectSpecLink HttpLink = "https://packaging.python.org/en/latest/specifications/pyproject-toml/"
	dependencySpec    HttpLink = "https://packaging.python.org/en/latest/specifications/dependency-specifiers/"
	tomlSpecLink      HttpLink = "https://toml.io/en/v1.0.0"
	gitVersioningLink HttpLink = "https://setuptools-git-versioning.readthedocs.io/"

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No manifest found!

The pyproject.toml to patch does not exist at the given path.

## Things you can try:
- Run the command from the unpacked source tree:
~~~
$ cd "$srcdir/$pkgname-$pkgver"
$ pyproject-patcher remove-git-versioning
~~~

- Or point at the manifest explicitly:
~~~
$ pyproject-patcher -f path/to/pyproject.toml set-version 1.2.3
~~~`,
		docLinks: []HttpLink{pyprojectSpecLink},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# The manifest is not valid TOML!

The file could not be parsed, so nothing was changed.

## Things you can try:
- Check the line and column reported above
- Make sure strings are quoted and tables are not defined twice
- Validate the file with another TOML tool`,
		docLinks: []HttpLink{tomlSpecLink},
	}

	sectionMissingIssue = &Issue{
		id: SectionMissingId,
		mdMsg: `
# A required table is missing!

The patch targets a table such as ` + "`[project]`" + ` or ` + "`[build-system]`" + ` that the
manifest does not define. Tables are never created implicitly.

## Things you can try:
- Check that you are patching the right project
- Skip this patch for projects that do not use the tool`,
		docLinks: []HttpLink{pyprojectSpecLink},
	}

	keyMissingIssue = &Issue{
		id: KeyMissingId,
		mdMsg: `
# A required key is missing!

The table exists but does not contain the key the patch operates on.

## Things you can try:
- For ` + "`remove-git-versioning`" + `, use ` + "`--section-only`" + ` when the plugin
  is configured without a ` + "`[tool.setuptools-git-versioning]`" + ` section
- Inspect the manifest and drop the step from your build script`,
		docLinks: []HttpLink{pyprojectSpecLink},
	}

	elementMissingIssue = &Issue{
		id: ElementMissingId,
		mdMsg: `
# Expected list entry not found!

Removing the git versioning plugin requires ` + "`\"version\"`" + ` to be listed in
` + "`project.dynamic`" + `. If the manifest already declares a static version, the
plugin is not generating it.

## Things you can try:
- Set the version explicitly instead:
~~~
$ pyproject-patcher set-version --from-env pkgver
~~~`,
		docLinks: []HttpLink{pyprojectSpecLink},
		extLinks: []HttpLink{gitVersioningLink},
	}

	versionNotSetIssue = &Issue{
		id: VersionNotSetId,
		mdMsg: `
# Version variable not set!

The version is read from an environment variable, which is unset or empty.

## Things you can try:
- Export the variable before patching:
~~~
$ export pkgver=1.2.3
~~~

- Or pass the version directly:
~~~
$ pyproject-patcher set-version 1.2.3
~~~`,
	}

	invalidRequirementIssue = &Issue{
		id: InvalidRequirementId,
		mdMsg: `
# Invalid requirement entry!

A dependency list contains an entry that is not a valid requirement string,
so entries cannot be matched by name.

## Things you can try:
- Fix the entry reported above
- Requirements look like ` + "`name[extra]>=1.0; python_version > \"3.8\"`",
		docLinks: []HttpLink{dependencySpec},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be read or does not match the
schema.

## Things you can try:
- Show the resolved settings:
~~~
$ pyproject-patcher config show
~~~

- Show which file is loaded:
~~~
$ pyproject-patcher config path
~~~

- Remove unknown keys; valid keys are manifest, version_env, log_level and
  the [ui] table (color, verbose)`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The manifest or its directory is not writable. The patched file is written
to a temporary file next to the manifest and then renamed over it.

## Things you can try:
- Check the permissions of the manifest and its directory
- Patch a copy of the source tree you own`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		sectionMissingIssue.Id():     sectionMissingIssue,
		keyMissingIssue.Id():         keyMissingIssue,
		elementMissingIssue.Id():     elementMissingIssue,
		versionNotSetIssue.Id():      versionNotSetIssue,
		invalidRequirementIssue.Id(): invalidRequirementIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, is)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
