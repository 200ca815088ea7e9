package normalize

import (
	"encoding/json"
	"regexp"
)

// UnknownRelease is stored when no manifest declares a project version.
const UnknownRelease = "Unknown Release"

var (
	pomVersionPattern    = regexp.MustCompile(`<version>([^<]+)</version>`)
	gradleVersionPattern = regexp.MustCompile(`version\s*=\s*['"]([^'"]+)['"]`)
)

// DeclaredVersion extracts the project version the uploaded manifests
// declare, best effort. The first file that yields one wins; compositions
// without any declared version get UnknownRelease.
func DeclaredVersion(files []ManifestFile) string {
	for _, file := range files {
		if v := declaredVersion(file); v != "" {
			return v
		}
	}
	return UnknownRelease
}

func declaredVersion(file ManifestFile) string {
	switch file.Kind() {
	case ManifestKindNode, ManifestKindComposer:
		var manifest struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(file.Content, &manifest); err != nil {
			return ""
		}
		return manifest.Version
	case ManifestKindMavenPOM:
		if m := pomVersionPattern.FindSubmatch(file.Content); m != nil {
			return string(m[1])
		}
	case ManifestKindGradle:
		if m := gradleVersionPattern.FindSubmatch(file.Content); m != nil {
			return string(m[1])
		}
	}
	return ""
}
