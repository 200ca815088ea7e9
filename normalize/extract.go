package normalize

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// UnknownVersion is the placeholder stored when a manifest names a package
// without pinning a version.
const UnknownVersion = "Unknown"

// ExtractedPackage is one dependency pulled out of a manifest or SBOM
// document, before it is persisted.
type ExtractedPackage struct {
	Name    string
	Version string
	Purl    string

	// fields below are only populated from full SBOM documents
	ComponentType    string
	DownloadLocation string
	LicenseDeclared  string
	LicenseConcluded string
	CopyrightText    string
	ExternalRefs     []ExternalRef
}

// ExternalRef is a reference attached to an SBOM document or package.
type ExternalRef struct {
	Category string
	Type     string
	Locator  string
}

// ExtractPackages parses a single manifest file into its declared
// dependencies. An unknown manifest kind yields an empty slice, not an
// error, so that a directory upload can carry documentation files alongside
// the manifests.
func ExtractPackages(file ManifestFile) ([]ExtractedPackage, error) {
	kind := file.Kind()
	ecosystem := kind.Ecosystem()

	var (
		pkgs []ExtractedPackage
		err  error
	)

	switch kind {
	case ManifestKindNode:
		pkgs, err = parseJSONDependencies(file.Content, "dependencies")
	case ManifestKindPythonRequirements:
		pkgs = parseRequirements(file.Content)
	case ManifestKindPythonSetup:
		pkgs = parseSetupPy(file.Content)
	case ManifestKindMavenPOM:
		pkgs, err = parsePomXML(file.Content)
	case ManifestKindGradle:
		pkgs = parseGradle(file.Content)
	case ManifestKindGoMod:
		pkgs = parseGoMod(file.Content)
	case ManifestKindComposer:
		pkgs, err = parseJSONDependencies(file.Content, "require")
	case ManifestKindCargo:
		pkgs, err = parseCargoToml(file.Content)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", file.Path)
	}

	for i := range pkgs {
		pkgs[i].Purl = BuildPurl(ecosystem, pkgs[i].Name, pkgs[i].Version)
	}
	return pkgs, nil
}

// parseJSONDependencies reads the named top-level object of a JSON manifest
// (package.json "dependencies", composer.json "require") preserving the
// declaration order of the file.
func parseJSONDependencies(content []byte, key string) ([]ExtractedPackage, error) {
	dec := json.NewDecoder(bytes.NewReader(content))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("manifest is not a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		fieldName, _ := keyTok.(string)
		if fieldName != key {
			// skip the value of any other field
			var discard json.RawMessage
			if err := dec.Decode(&discard); err != nil {
				return nil, err
			}
			continue
		}
		return parseOrderedStringObject(dec)
	}
	return nil, nil
}

func parseOrderedStringObject(dec *json.Decoder) ([]ExtractedPackage, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("dependency block is not a JSON object")
	}

	var pkgs []ExtractedPackage
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		var version string
		if err := json.Unmarshal(raw, &version); err != nil {
			// non-string constraint, keep the package with an unknown version
			version = UnknownVersion
		}
		if version == "" {
			version = UnknownVersion
		}
		pkgs = append(pkgs, ExtractedPackage{Name: name, Version: version})
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pkgs, nil
}

func parseRequirements(content []byte) []ExtractedPackage {
	var pkgs []ExtractedPackage
	for _, line := range strings.Split(string(content), "\n") {
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, version, ok := strings.Cut(line, "=="); ok {
			pkgs = append(pkgs, ExtractedPackage{
				Name:    strings.TrimSpace(name),
				Version: strings.TrimSpace(version),
			})
			continue
		}
		if m := requirementPattern.FindStringSubmatch(line); m != nil {
			pkgs = append(pkgs, ExtractedPackage{Name: m[1], Version: m[3]})
			continue
		}
		pkgs = append(pkgs, ExtractedPackage{Name: line, Version: UnknownVersion})
	}
	return pkgs
}

func parseSetupPy(content []byte) []ExtractedPackage {
	var pkgs []ExtractedPackage
	for _, m := range setupRequirePattern.FindAllStringSubmatch(string(content), -1) {
		pkgs = append(pkgs, ExtractedPackage{Name: m[1], Version: m[2]})
	}
	return pkgs
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// parsePomXML collects every <dependency> element in the document, including
// those under <dependencyManagement>.
func parsePomXML(content []byte) ([]ExtractedPackage, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var pkgs []ExtractedPackage
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "dependency" {
			continue
		}
		var dep pomDependency
		if err := dec.DecodeElement(&dep, &start); err != nil {
			return nil, err
		}
		if dep.GroupID == "" || dep.ArtifactID == "" {
			continue
		}
		version := dep.Version
		if version == "" {
			version = UnknownVersion
		}
		pkgs = append(pkgs, ExtractedPackage{
			Name:    dep.GroupID + ":" + dep.ArtifactID,
			Version: version,
		})
	}
	return pkgs, nil
}

func parseGradle(content []byte) []ExtractedPackage {
	var pkgs []ExtractedPackage
	for _, m := range gradleDependencyPattern.FindAllStringSubmatch(string(content), -1) {
		pkgs = append(pkgs, ExtractedPackage{
			Name:    m[1] + ":" + m[2],
			Version: m[3],
		})
	}
	return pkgs
}

var goModDirectives = map[string]bool{
	"module": true, "go": true, "toolchain": true,
	"require": true, "replace": true, "exclude": true, "retract": true,
}

func parseGoMod(content []byte) []ExtractedPackage {
	var pkgs []ExtractedPackage
	for _, line := range strings.Split(string(content), "\n") {
		if idx := strings.Index(line, "//"); idx != -1 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		// single-line form: require gorm.io/gorm v1.25.0
		if len(fields) >= 3 && fields[0] == "require" && fields[1] != "(" {
			fields = fields[1:]
		}
		if len(fields) < 2 || fields[0] == ")" || goModDirectives[fields[0]] {
			continue
		}
		pkgs = append(pkgs, ExtractedPackage{Name: fields[0], Version: fields[1]})
	}
	return pkgs
}

type cargoDependencies struct {
	Dependencies map[string]any `toml:"dependencies"`
}

func parseCargoToml(content []byte) ([]ExtractedPackage, error) {
	var manifest cargoDependencies
	if err := toml.Unmarshal(content, &manifest); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	pkgs := make([]ExtractedPackage, 0, len(names))
	for _, name := range names {
		version := UnknownVersion
		switch v := manifest.Dependencies[name].(type) {
		case string:
			version = v
		case map[string]any:
			if s, ok := v["version"].(string); ok {
				version = s
			}
		}
		pkgs = append(pkgs, ExtractedPackage{Name: name, Version: version})
	}
	return pkgs, nil
}
