package normalize

import (
	"strings"
)

// ManifestKind is the closed set of supported dependency manifest formats.
// Adding an ecosystem means adding a kind plus a parse function, not widening
// string matching at the call sites.
type ManifestKind string

const (
	ManifestKindNode               ManifestKind = "node"
	ManifestKindPythonRequirements ManifestKind = "python-requirements"
	ManifestKindPythonSetup        ManifestKind = "python-setup"
	ManifestKindMavenPOM           ManifestKind = "maven-pom"
	ManifestKindGradle             ManifestKind = "gradle"
	ManifestKindGoMod              ManifestKind = "go-mod"
	ManifestKindComposer           ManifestKind = "composer"
	ManifestKindCargo              ManifestKind = "cargo"
	ManifestKindUnknown            ManifestKind = "unknown"
)

// Ecosystem is the purl type segment of a manifest kind.
type Ecosystem string

const (
	EcosystemNpm      Ecosystem = "npm"
	EcosystemPyPI     Ecosystem = "pypi"
	EcosystemMaven    Ecosystem = "maven"
	EcosystemGolang   Ecosystem = "golang"
	EcosystemComposer Ecosystem = "composer"
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemUnknown  Ecosystem = "unknown"
)

// DetectManifestKind maps a file name to its manifest kind, case-insensitive.
func DetectManifestKind(fileName string) ManifestKind {
	name := strings.ToLower(fileName)
	// strip any path prefix
	if idx := strings.LastIndexAny(name, "/\\"); idx != -1 {
		name = name[idx+1:]
	}

	switch {
	case name == "package.json":
		return ManifestKindNode
	case strings.Contains(name, "requirement") || name == "pipfile":
		return ManifestKindPythonRequirements
	case strings.Contains(name, "setup"):
		return ManifestKindPythonSetup
	case strings.Contains(name, "pom"):
		return ManifestKindMavenPOM
	case strings.Contains(name, "gradle"):
		return ManifestKindGradle
	case name == "go.mod":
		return ManifestKindGoMod
	case name == "composer.json":
		return ManifestKindComposer
	case name == "cargo.toml":
		return ManifestKindCargo
	default:
		return ManifestKindUnknown
	}
}

func (k ManifestKind) Ecosystem() Ecosystem {
	switch k {
	case ManifestKindNode:
		return EcosystemNpm
	case ManifestKindPythonRequirements, ManifestKindPythonSetup:
		return EcosystemPyPI
	case ManifestKindMavenPOM, ManifestKindGradle:
		return EcosystemMaven
	case ManifestKindGoMod:
		return EcosystemGolang
	case ManifestKindComposer:
		return EcosystemComposer
	case ManifestKindCargo:
		return EcosystemCargo
	default:
		return EcosystemUnknown
	}
}

// ManifestFile is one uploaded dependency manifest.
type ManifestFile struct {
	Path    string
	Content []byte
}

func (f ManifestFile) Kind() ManifestKind {
	return DetectManifestKind(f.Path)
}
