package normalize

import "regexp"

var (
	// requirementPattern matches "name<op>version" lines that use pinning
	// operators other than "==", e.g. "flask>=2.0.1".
	requirementPattern = regexp.MustCompile(`^([a-zA-Z0-9_.\-]+)([<>=!~]{1,2})([\d.]+)`)

	// setupRequirePattern matches quoted "name==version" entries inside a
	// setup.py install_requires list.
	setupRequirePattern = regexp.MustCompile(`'([^']+)==([^']+)'`)

	// gradleDependencyPattern matches "implementation 'group:artifact:version'"
	// declarations in both quote styles.
	gradleDependencyPattern = regexp.MustCompile(`implementation ['"]([^:'"]+):([^:'"]+):([^'"]+)['"]`)

	// urlPattern finds plain http(s) links embedded in documentation or
	// manifest files.
	urlPattern = regexp.MustCompile(`https?://[\w./%-]+`)
)
